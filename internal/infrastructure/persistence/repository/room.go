package repository

import (
	"context"
	"errors"
	"fmt"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/persistence/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type roomRepository struct {
	db *mongo.Database
}

func NewRoomRepository(database *mongo.Database) domain.RoomRepository {
	return &roomRepository{db: database}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.RoomsCollection)

	if _, err := collection.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	collection := r.db.Collection(db.RoomsCollection)

	var room domain.Room
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return &room, nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(db.RoomsCollection)

	res, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

type membershipRepository struct {
	db *mongo.Database
}

func NewMembershipRepository(database *mongo.Database) domain.MembershipRepository {
	return &membershipRepository{db: database}
}

func (r *membershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	collection := r.db.Collection(db.MembershipsCollection)

	filter := bson.M{"room_id": m.RoomID, "user_id": m.UserID}
	update := bson.M{"$set": m}

	if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, roomID, userID string) (*domain.Membership, error) {
	collection := r.db.Collection(db.MembershipsCollection)

	var m domain.Membership
	filter := bson.M{"room_id": roomID, "user_id": userID}
	if err := collection.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return &m, nil
}

func (r *membershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error) {
	collection := r.db.Collection(db.MembershipsCollection)

	cursor, err := collection.Find(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	defer cursor.Close(ctx)

	var members []domain.Membership
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return members, nil
}

func (r *membershipRepository) Delete(ctx context.Context, roomID, userID string) error {
	collection := r.db.Collection(db.MembershipsCollection)

	res, err := collection.DeleteOne(ctx, bson.M{"room_id": roomID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// EnsureMembershipIndexes enforces one record per (user, room) pair.
func EnsureMembershipIndexes(ctx context.Context, database *mongo.Database) error {
	collection := database.Collection(db.MembershipsCollection)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
