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

// MongoPackageRepository implements domain.PackageRepository
type MongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new package repository
func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	return &MongoPackageRepository{collection: db.Collection("membership_packages")}
}

func (r *MongoPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	objID := primitive.NewObjectID()
	pkg.ID = objID.Hex()

	doc := bson.M{
		"_id":           objID,
		"package_name":  pkg.PackageName,
		"description":   pkg.Description,
		"duration_days": pkg.DurationDays,
		"price":         pkg.Price,
		"is_active":     pkg.IsActive,
		"created_at":    pkg.CreatedAt,
		"updated_at":    pkg.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *MongoPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", domain.ErrNotFound)
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return mapBsonToPackage(raw), nil
}

func (r *MongoPackageRepository) GetActivePackages(ctx context.Context) ([]*domain.Package, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *MongoPackageRepository) GetAll(ctx context.Context) ([]*domain.Package, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	objID, err := primitive.ObjectIDFromHex(pkg.ID)
	if err != nil {
		return fmt.Errorf("invalid package id: %w", domain.ErrNotFound)
	}

	pkg.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"package_name":  pkg.PackageName,
		"description":   pkg.Description,
		"duration_days": pkg.DurationDays,
		"price":         pkg.Price,
		"is_active":     pkg.IsActive,
		"updated_at":    pkg.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPackageRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid package id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPackageRepository) find(ctx context.Context, filter bson.M) ([]*domain.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "duration_days", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*domain.Package
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		packages = append(packages, mapBsonToPackage(raw))
	}
	return packages, nil
}

func mapBsonToPackage(raw bson.M) *domain.Package {
	pkg := &domain.Package{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		pkg.ID = oid.Hex()
	}
	if v, ok := raw["package_name"].(string); ok {
		pkg.PackageName = v
	}
	if v, ok := raw["description"].(string); ok {
		pkg.Description = v
	}
	if v, ok := raw["duration_days"].(int32); ok {
		pkg.DurationDays = int(v)
	} else if v, ok := raw["duration_days"].(int64); ok {
		pkg.DurationDays = int(v)
	}
	if v, ok := raw["price"].(int64); ok {
		pkg.Price = v
	} else if v, ok := raw["price"].(int32); ok {
		pkg.Price = int64(v)
	}
	if v, ok := raw["is_active"].(bool); ok {
		pkg.IsActive = v
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		pkg.CreatedAt = v.Time()
	}
	if v, ok := raw["updated_at"].(primitive.DateTime); ok {
		pkg.UpdatedAt = v.Time()
	}

	return pkg
}
