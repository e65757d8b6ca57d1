package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStaffRepository implements domain.StaffRepository
type MongoStaffRepository struct {
	collection *mongo.Collection
}

// NewMongoStaffRepository creates a new staff repository
func NewMongoStaffRepository(db *mongo.Database) *MongoStaffRepository {
	return &MongoStaffRepository{collection: db.Collection("staff")}
}

func (r *MongoStaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	objID := primitive.NewObjectID()
	staff.ID = objID.Hex()

	doc := bson.M{
		"_id":          objID,
		"firebase_uid": staff.FirebaseUID,
		"email":        staff.Email,
		"name":         staff.Name,
		"roles":        staff.Roles,
		"created_at":   staff.CreatedAt,
		"updated_at":   staff.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *MongoStaffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid staff id: %w", domain.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoStaffRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.Staff, error) {
	return r.findOne(ctx, bson.M{"firebase_uid": uid})
}

func (r *MongoStaffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	objID, err := primitive.ObjectIDFromHex(staff.ID)
	if err != nil {
		return fmt.Errorf("invalid staff id: %w", domain.ErrNotFound)
	}

	staff.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"firebase_uid": staff.FirebaseUID,
		"email":        staff.Email,
		"name":         staff.Name,
		"roles":        staff.Roles,
		"updated_at":   staff.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoStaffRepository) findOne(ctx context.Context, filter bson.M) (*domain.Staff, error) {
	var raw bson.M
	if err := r.collection.FindOne(ctx, filter).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return mapBsonToStaff(raw), nil
}

func mapBsonToStaff(raw bson.M) *domain.Staff {
	s := &domain.Staff{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	if v, ok := raw["firebase_uid"].(string); ok {
		s.FirebaseUID = v
	}
	if v, ok := raw["email"].(string); ok {
		s.Email = v
	}
	if v, ok := raw["name"].(string); ok {
		s.Name = v
	}
	if roles, ok := raw["roles"].(primitive.A); ok {
		for _, role := range roles {
			if rs, ok := role.(string); ok {
				s.Roles = append(s.Roles, rs)
			}
		}
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		s.CreatedAt = v.Time()
	}
	if v, ok := raw["updated_at"].(primitive.DateTime); ok {
		s.UpdatedAt = v.Time()
	}

	return s
}
