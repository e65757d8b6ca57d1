package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCheckInRepository implements domain.CheckInRepository
type MongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new check-in repository and
// ensures the (member_id, check_in_date) unique index. The index, not
// the handler pre-check, is what decides races between two terminals
// checking in the same member at once.
func NewMongoCheckInRepository(ctx context.Context, db *mongo.Database) (*MongoCheckInRepository, error) {
	coll := db.Collection("check_ins")

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "member_id", Value: 1},
			{Key: "check_in_date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure check-in index: %w", err)
	}

	return &MongoCheckInRepository{collection: coll}, nil
}

func (r *MongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) error {
	checkIn.CreatedAt = time.Now().UTC()

	objID := primitive.NewObjectID()
	checkIn.ID = objID.Hex()

	doc := bson.M{
		"_id":           objID,
		"member_id":     checkIn.MemberID,
		"check_in_date": checkIn.CheckInDate,
		"check_in_time": checkIn.CheckInTime,
		"created_at":    checkIn.CreatedAt,
	}
	if checkIn.CheckOutTime != nil {
		doc["check_out_time"] = *checkIn.CheckOutTime
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyCheckedInToday
		}
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

func (r *MongoCheckInRepository) GetByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in id: %w", domain.ErrNotFound)
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}
	return mapBsonToCheckIn(raw), nil
}

func (r *MongoCheckInRepository) GetByMemberAndDate(ctx context.Context, memberID, date string) (*domain.CheckIn, error) {
	var raw bson.M
	filter := bson.M{"member_id": memberID, "check_in_date": date}
	if err := r.collection.FindOne(ctx, filter).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get check-in by member and date: %w", err)
	}
	return mapBsonToCheckIn(raw), nil
}

func (r *MongoCheckInRepository) GetByDate(ctx context.Context, date string) ([]*domain.CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in_time", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"check_in_date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins by date: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeCheckIns(ctx, cursor)
}

func (r *MongoCheckInRepository) GetByDateRange(ctx context.Context, from, to string, memberID string) ([]*domain.CheckIn, error) {
	filter := bson.M{"check_in_date": bson.M{"$gte": from, "$lte": to}}
	if memberID != "" {
		filter["member_id"] = memberID
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "check_in_date", Value: -1},
		{Key: "check_in_time", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins by range: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeCheckIns(ctx, cursor)
}

func (r *MongoCheckInRepository) SetCheckOutTime(ctx context.Context, id string, t time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid check-in id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"check_out_time": t}},
	)
	if err != nil {
		return fmt.Errorf("failed to set check-out time: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCheckInRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid check-in id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCheckInRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"member_id": memberID}); err != nil {
		return fmt.Errorf("failed to delete check-ins by member: %w", err)
	}
	return nil
}

func decodeCheckIns(ctx context.Context, cursor *mongo.Cursor) ([]*domain.CheckIn, error) {
	var checkIns []*domain.CheckIn
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		checkIns = append(checkIns, mapBsonToCheckIn(raw))
	}
	return checkIns, nil
}

func mapBsonToCheckIn(raw bson.M) *domain.CheckIn {
	c := &domain.CheckIn{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	if v, ok := raw["member_id"].(string); ok {
		c.MemberID = v
	}
	if v, ok := raw["check_in_date"].(string); ok {
		c.CheckInDate = v
	}
	if v, ok := raw["check_in_time"].(primitive.DateTime); ok {
		c.CheckInTime = v.Time()
	}
	if v, ok := raw["check_out_time"].(primitive.DateTime); ok {
		t := v.Time()
		c.CheckOutTime = &t
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		c.CreatedAt = v.Time()
	}

	return c
}
