package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hooked-app/hooked-backend/internal/projects/domain"
)

// ErrNotFound is returned by Update when no document matches the given id.
var ErrNotFound = errors.New("project not found")

const collectionName = "projects"

// ProjectRepository provides persistence operations for projects.
type ProjectRepository struct {
	col *mongo.Collection
}

// NewProjectRepository creates a new project repository over the given database.
func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionName)}
}

// Insert stores a new project document. The store assigns the id.
func (r *ProjectRepository) Insert(ctx context.Context, p domain.Project) error {
	doc := toDoc(p)
	doc.ID = primitive.NilObjectID

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

// GetByID returns the project with the given id, or (nil, nil) if absent.
// A malformed id is a client error, reported before any store call.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrBadID, id)
	}

	var doc projectDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching project: %w", err)
	}

	p := fromDoc(doc)
	return &p, nil
}

// GetAll returns every project ordered by date_time ascending.
func (r *ProjectRepository) GetAll(ctx context.Context) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

// GetActive returns all projects with is_active set.
func (r *ProjectRepository) GetActive(ctx context.Context) ([]domain.Project, error) {
	return r.find(ctx, bson.M{"is_active": int32(1)}, nil)
}

// GetInactive returns all archived projects.
func (r *ProjectRepository) GetInactive(ctx context.Context) ([]domain.Project, error) {
	return r.find(ctx, bson.M{"is_active": int32(0)}, nil)
}

// GetFiltered returns projects matching the conjunction of the supplied
// filter terms; see buildFilter for the exact construction.
func (r *ProjectRepository) GetFiltered(ctx context.Context, active bool, grades, styles []string, sent domain.SentFilter) ([]domain.Project, error) {
	return r.find(ctx, buildFilter(active, grades, styles, sent), nil)
}

// Update replaces every mutable field of the document matching the project's
// id, after normalizing sent_date and the coordinate list against the stored
// document. Last write wins; there is no optimistic-concurrency check.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) error {
	if p.ID == "" {
		return domain.ErrMissingID
	}
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrBadID, p.ID)
	}

	var prev projectDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&prev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("fetching project for update: %w", err)
	}

	next := toDoc(p)
	applyUpdateRules(&prev, &next)

	update := bson.M{"$set": bson.M{
		"account_id":  next.AccountID,
		"date_time":   next.DateTime,
		"sent_date":   next.SentDate,
		"image_path":  next.ImagePath,
		"is_sent":     next.IsSent,
		"attempts":    next.Attempts,
		"grade":       next.Grade,
		"is_active":   next.IsActive,
		"coordinates": next.Coordinates,
		"style":       next.Style,
		"holds":       next.Holds,
	}}

	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// SaveAnnotations replaces only the coordinates field, leaving everything
// else untouched.
func (r *ProjectRepository) SaveAnnotations(ctx context.Context, projectID string, coords []domain.Coordinate) error {
	if projectID == "" {
		return domain.ErrMissingID
	}
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrBadID, projectID)
	}

	docs := make([]coordinateDoc, 0, len(coords))
	for _, c := range coords {
		docs = append(docs, coordinateDoc(c))
	}

	update := bson.M{"$set": bson.M{"coordinates": docs}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return fmt.Errorf("saving annotations: %w", err)
	}
	return nil
}

// Delete removes the document and returns the image_path it carried, so the
// caller can attempt the remote image cleanup afterwards.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrBadID, id)
	}

	var doc projectDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetching project for delete: %w", err)
	}

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return "", fmt.Errorf("deleting project: %w", err)
	}

	return doc.ImagePath, nil
}

// GetSendsCount returns the total number of project documents.
func (r *ProjectRepository) GetSendsCount(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return count, nil
}

// GetSendsSummary returns the count of sent projects plus that subset grouped
// by grade. The key set is exactly the distinct grades among sent projects.
func (r *ProjectRepository) GetSendsSummary(ctx context.Context) (*domain.SendsSummary, error) {
	byGrade, err := r.groupCounts(ctx, "$grade", bson.D{{Key: "is_sent", Value: int32(1)}}, false)
	if err != nil {
		return nil, fmt.Errorf("summarizing sends: %w", err)
	}

	summary := &domain.SendsSummary{ByGrade: byGrade}
	for _, n := range byGrade {
		summary.Total += n
	}
	return summary, nil
}

// GetStylesSummary reports per-style done/practicing counts; styles appearing
// on only one side of the sent split are zero-filled on the other.
func (r *ProjectRepository) GetStylesSummary(ctx context.Context) ([]domain.StyleSummary, error) {
	done, err := r.groupCounts(ctx, "$style", bson.D{{Key: "is_sent", Value: int32(1)}}, true)
	if err != nil {
		return nil, fmt.Errorf("summarizing styles: %w", err)
	}
	practicing, err := r.groupCounts(ctx, "$style", bson.D{{Key: "is_sent", Value: int32(0)}}, true)
	if err != nil {
		return nil, fmt.Errorf("summarizing styles: %w", err)
	}

	return mergeStyleCounts(done, practicing), nil
}

// groupCounts runs a match(+unwind) → group pipeline and returns counts keyed
// by the grouping expression's values.
func (r *ProjectRepository) groupCounts(ctx context.Context, key string, match bson.D, unwind bool) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
	}
	if unwind {
		pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: key}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: key},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}})

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Project, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}

	out := make([]domain.Project, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromDoc(doc))
	}
	return out, nil
}

// applyUpdateRules normalizes an incoming full-document update against the
// stored document:
//
//   - sent_date is cleared whenever is_sent is false, kept unchanged if it was
//     already set, and stamped once on the first false→true transition;
//   - an empty incoming coordinate list preserves the stored list.
func applyUpdateRules(prev, next *projectDoc) {
	switch {
	case next.IsSent == 0:
		next.SentDate = nil
	case prev.SentDate != nil:
		next.SentDate = prev.SentDate
	case next.SentDate == nil:
		now := time.Now().UnixMilli()
		next.SentDate = &now
	}

	if len(next.Coordinates) == 0 {
		next.Coordinates = prev.Coordinates
	}
}

// buildFilter assembles the conjunctive list filter: is_active always applies;
// grades and styles only when non-empty; sent only when the tri-state picks a
// side.
func buildFilter(active bool, grades, styles []string, sent domain.SentFilter) bson.M {
	filter := bson.M{"is_active": boolToInt(active)}

	if len(grades) > 0 {
		filter["grade"] = bson.M{"$in": grades}
	}
	if len(styles) > 0 {
		filter["style"] = bson.M{"$in": styles}
	}

	switch sent {
	case domain.SentOnly:
		filter["is_sent"] = int32(1)
	case domain.NotSentOnly:
		filter["is_sent"] = int32(0)
	}

	return filter
}

// mergeStyleCounts unions the style keys of both groupings, zero-filling the
// missing side.
func mergeStyleCounts(done, practicing map[string]int64) []domain.StyleSummary {
	keys := make(map[string]struct{}, len(done)+len(practicing))
	for k := range done {
		keys[k] = struct{}{}
	}
	for k := range practicing {
		keys[k] = struct{}{}
	}

	out := make([]domain.StyleSummary, 0, len(keys))
	for k := range keys {
		out = append(out, domain.StyleSummary{
			Style:      k,
			Done:       done[k],
			Practicing: practicing[k],
		})
	}
	return out
}
