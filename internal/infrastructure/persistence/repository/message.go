package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/persistence/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(database *mongo.Database) domain.MessageRepository {
	return &messageRepository{db: database}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	collection := r.db.Collection(db.MessagesCollection)

	if _, err := collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, roomID, messageID string) (*domain.Message, error) {
	collection := r.db.Collection(db.MessagesCollection)

	filter := bson.M{"_id": messageID, "room_id": roomID}

	var msg domain.Message
	if err := collection.FindOne(ctx, filter).Decode(&msg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return &msg, nil
}

func (r *messageRepository) ListRecent(ctx context.Context, roomID string, limit int, before time.Time) ([]domain.Message, error) {
	collection := r.db.Collection(db.MessagesCollection)

	filter := bson.M{"room_id": roomID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}

	// Newest-bounded: take the last `limit` before the cursor, then flip to
	// ascending for chronological display.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *messageRepository) DeleteByID(ctx context.Context, messageID string) error {
	collection := r.db.Collection(db.MessagesCollection)

	res, err := collection.DeleteOne(ctx, bson.M{"_id": messageID})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *messageRepository) DeleteByRoomID(ctx context.Context, roomID string) (int64, error) {
	collection := r.db.Collection(db.MessagesCollection)

	res, err := collection.DeleteMany(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return res.DeletedCount, nil
}

// EnsureMessageIndexes creates the room/time index the list path depends on.
func EnsureMessageIndexes(ctx context.Context, database *mongo.Database) error {
	collection := database.Collection(db.MessagesCollection)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}
