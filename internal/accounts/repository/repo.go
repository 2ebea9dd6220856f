package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hooked-app/hooked-backend/internal/accounts/domain"
)

const collectionName = "accounts"

type accountDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"hashed_password"`
	CreatedAt      int64              `bson:"created_at"`
}

// AccountRepository provides persistence operations for accounts.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique index on email. Concurrent registrations
// with the same email lose the race at the store, not in application code.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating email index: %w", err)
	}
	return nil
}

// Create inserts the account and returns the store-assigned id.
func (r *AccountRepository) Create(ctx context.Context, a domain.Account) (string, error) {
	doc := accountDoc{
		Email:          a.Email,
		HashedPassword: a.HashedPassword,
		CreatedAt:      a.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", domain.ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("inserting account: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByEmail returns the account with the exact email, or domain.ErrNotFound.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc accountDoc
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching account: %w", err)
	}

	return &domain.Account{
		ID:             doc.ID.Hex(),
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		CreatedAt:      doc.CreatedAt,
	}, nil
}
