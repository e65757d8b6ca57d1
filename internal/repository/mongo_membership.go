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

// MongoMembershipRepository implements domain.MembershipRepository
type MongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates a new membership repository
func NewMongoMembershipRepository(db *mongo.Database) *MongoMembershipRepository {
	return &MongoMembershipRepository{collection: db.Collection("member_memberships")}
}

func (r *MongoMembershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	membership.CreatedAt = time.Now().UTC()

	objID := primitive.NewObjectID()
	membership.ID = objID.Hex()

	doc := bson.M{
		"_id":        objID,
		"member_id":  membership.MemberID,
		"package_id": membership.PackageID,
		"start_date": membership.StartDate,
		"end_date":   membership.EndDate,
		"status":     membership.Status,
		"price_paid": membership.PricePaid,
		"notes":      membership.Notes,
		"created_at": membership.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

func (r *MongoMembershipRepository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid membership id: %w", domain.ErrNotFound)
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return mapBsonToMembership(raw), nil
}

func (r *MongoMembershipRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships by member: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

func (r *MongoMembershipRepository) GetActiveByMemberID(ctx context.Context, memberID string, asOf string) (*domain.Membership, error) {
	filter := bson.M{
		"member_id": memberID,
		"status":    domain.MembershipStatusActive,
		"end_date":  bson.M{"$gte": asOf},
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, filter).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}
	return mapBsonToMembership(raw), nil
}

func (r *MongoMembershipRepository) CountActiveByPackageID(ctx context.Context, packageID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"package_id": packageID,
		"status":     domain.MembershipStatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships by package: %w", err)
	}
	return count, nil
}

func (r *MongoMembershipRepository) GetExpiringBetween(ctx context.Context, from, to string) ([]*domain.Membership, error) {
	filter := bson.M{
		"status":   domain.MembershipStatusActive,
		"end_date": bson.M{"$gte": from, "$lte": to},
	}

	opts := options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring memberships: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

func (r *MongoMembershipRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid membership id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMembershipRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"member_id": memberID}); err != nil {
		return fmt.Errorf("failed to delete memberships by member: %w", err)
	}
	return nil
}

func decodeMemberships(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		memberships = append(memberships, mapBsonToMembership(raw))
	}
	return memberships, nil
}

func mapBsonToMembership(raw bson.M) *domain.Membership {
	m := &domain.Membership{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	if v, ok := raw["member_id"].(string); ok {
		m.MemberID = v
	}
	if v, ok := raw["package_id"].(string); ok {
		m.PackageID = v
	}
	if v, ok := raw["start_date"].(string); ok {
		m.StartDate = v
	}
	if v, ok := raw["end_date"].(string); ok {
		m.EndDate = v
	}
	if v, ok := raw["status"].(string); ok {
		m.Status = v
	}
	if v, ok := raw["price_paid"].(int64); ok {
		m.PricePaid = v
	} else if v, ok := raw["price_paid"].(int32); ok {
		m.PricePaid = int64(v)
	}
	if v, ok := raw["notes"].(string); ok {
		m.Notes = v
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		m.CreatedAt = v.Time()
	}

	return m
}
