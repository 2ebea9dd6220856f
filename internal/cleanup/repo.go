// Package cleanup retries deletions of remote images that were orphaned when
// their project document was removed but the media host call failed. Orphan
// cleanup is deliberately out-of-band: nothing here ever surfaces to a
// command caller.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "orphans"

// Orphan is one remote image awaiting a retried delete.
type Orphan struct {
	ID         string
	ImageURL   string
	Reason     string
	RecordedAt int64
}

type orphanDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ImageURL   string             `bson:"image_url"`
	Reason     string             `bson:"reason"`
	RecordedAt int64              `bson:"recorded_at"`
}

// OrphanRepository stores orphan records alongside the project data.
type OrphanRepository struct {
	col *mongo.Collection
}

func NewOrphanRepository(db *mongo.Database) *OrphanRepository {
	return &OrphanRepository{col: db.Collection(collectionName)}
}

func (r *OrphanRepository) Record(ctx context.Context, imageURL, reason string) error {
	_, err := r.col.InsertOne(ctx, orphanDoc{
		ImageURL:   imageURL,
		Reason:     reason,
		RecordedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("recording orphan: %w", err)
	}
	return nil
}

func (r *OrphanRepository) List(ctx context.Context) ([]Orphan, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing orphans: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orphanDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding orphans: %w", err)
	}

	out := make([]Orphan, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Orphan{
			ID:         doc.ID.Hex(),
			ImageURL:   doc.ImageURL,
			Reason:     doc.Reason,
			RecordedAt: doc.RecordedAt,
		})
	}
	return out, nil
}

func (r *OrphanRepository) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("malformed orphan id %q: %w", id, err)
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("removing orphan: %w", err)
	}
	return nil
}
