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

// MongoMemberRepository implements domain.MemberRepository
type MongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new member repository and ensures
// the member_code unique index exists. Index creation is idempotent.
func NewMongoMemberRepository(ctx context.Context, db *mongo.Database) (*MongoMemberRepository, error) {
	coll := db.Collection("members")

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "member_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure member_code index: %w", err)
	}

	return &MongoMemberRepository{collection: coll}, nil
}

func (r *MongoMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	objID := primitive.NewObjectID()
	member.ID = objID.Hex()

	doc := bson.M{
		"_id":               objID,
		"member_code":       member.MemberCode,
		"full_name":         member.FullName,
		"phone":             member.Phone,
		"email":             member.Email,
		"date_of_birth":     member.DateOfBirth,
		"gender":            member.Gender,
		"address":           member.Address,
		"emergency_name":    member.EmergencyName,
		"emergency_contact": member.EmergencyContact,
		"photo_url":         member.PhotoURL,
		"is_active":         member.IsActive,
		"join_date":         member.JoinDate,
		"created_at":        member.CreatedAt,
		"updated_at":        member.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("member code %s: %w", member.MemberCode, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *MongoMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid member id: %w", domain.ErrNotFound)
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return mapBsonToMember(raw), nil
}

func (r *MongoMemberRepository) GetByCode(ctx context.Context, code string) (*domain.Member, error) {
	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"member_code": code}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member by code: %w", err)
	}
	return mapBsonToMember(raw), nil
}

func (r *MongoMemberRepository) GetActiveMembers(ctx context.Context) ([]*domain.Member, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *MongoMemberRepository) GetAll(ctx context.Context) ([]*domain.Member, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoMemberRepository) Search(ctx context.Context, query string, limit int64) ([]*domain.Member, error) {
	pattern := primitive.Regex{Pattern: regexQuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"member_code": pattern},
		bson.M{"full_name": pattern},
		bson.M{"phone": pattern},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMembers(ctx, cursor)
}

func (r *MongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	objID, err := primitive.ObjectIDFromHex(member.ID)
	if err != nil {
		return fmt.Errorf("invalid member id: %w", domain.ErrNotFound)
	}

	member.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"full_name":         member.FullName,
		"phone":             member.Phone,
		"email":             member.Email,
		"date_of_birth":     member.DateOfBirth,
		"gender":            member.Gender,
		"address":           member.Address,
		"emergency_name":    member.EmergencyName,
		"emergency_contact": member.EmergencyContact,
		"photo_url":         member.PhotoURL,
		"is_active":         member.IsActive,
		"join_date":         member.JoinDate,
		"updated_at":        member.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMemberRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid member id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMemberRepository) find(ctx context.Context, filter bson.M) ([]*domain.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeMembers(ctx, cursor)
}

func decodeMembers(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Member, error) {
	var members []*domain.Member
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		members = append(members, mapBsonToMember(raw))
	}
	return members, nil
}

func mapBsonToMember(raw bson.M) *domain.Member {
	m := &domain.Member{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	if v, ok := raw["member_code"].(string); ok {
		m.MemberCode = v
	}
	if v, ok := raw["full_name"].(string); ok {
		m.FullName = v
	}
	if v, ok := raw["phone"].(string); ok {
		m.Phone = v
	}
	if v, ok := raw["email"].(string); ok {
		m.Email = v
	}
	if v, ok := raw["date_of_birth"].(string); ok {
		m.DateOfBirth = v
	}
	if v, ok := raw["gender"].(string); ok {
		m.Gender = v
	}
	if v, ok := raw["address"].(string); ok {
		m.Address = v
	}
	if v, ok := raw["emergency_name"].(string); ok {
		m.EmergencyName = v
	}
	if v, ok := raw["emergency_contact"].(string); ok {
		m.EmergencyContact = v
	}
	if v, ok := raw["photo_url"].(string); ok {
		m.PhotoURL = v
	}
	if v, ok := raw["is_active"].(bool); ok {
		m.IsActive = v
	}
	if v, ok := raw["join_date"].(string); ok {
		m.JoinDate = v
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		m.CreatedAt = v.Time()
	}
	if v, ok := raw["updated_at"].(primitive.DateTime); ok {
		m.UpdatedAt = v.Time()
	}

	return m
}

// regexQuoteMeta escapes regex metacharacters so a user search query is
// always treated literally.
func regexQuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(special); j++ {
			if s[i] == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
