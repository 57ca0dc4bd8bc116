package repository

import (
	"context"
	"fmt"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/persistence/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(database *mongo.Database) domain.AuditRepository {
	return &auditRepository{db: database}
}

func (r *auditRepository) Record(ctx context.Context, rec *domain.AuditRecord) error {
	collection := r.db.Collection(db.AuditCollection)

	if _, err := collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return nil
}

func (r *auditRepository) Query(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditRecord, error) {
	collection := r.db.Collection(db.AuditCollection)

	query := bson.M{}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.ActorID != "" {
		query["actor_id"] = filter.ActorID
	}
	if filter.TargetType != "" {
		query["target_type"] = filter.TargetType
	}
	timeRange := bson.M{}
	if !filter.From.IsZero() {
		timeRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		timeRange["$lte"] = filter.To
	}
	if len(timeRange) > 0 {
		query["created_at"] = timeRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	defer cursor.Close(ctx)

	var records []domain.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return records, nil
}

// EnsureAuditIndexes creates the query-path indexes. The trail itself is
// append-only; nothing here supports update or delete.
func EnsureAuditIndexes(ctx context.Context, database *mongo.Database) error {
	collection := database.Collection(db.AuditCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "action", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "target_type", Value: 1},
				{Key: "target_id", Value: 1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
