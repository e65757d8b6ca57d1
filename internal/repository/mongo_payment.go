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

// MongoPaymentRepository implements domain.PaymentRepository
type MongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new payment repository and ensures
// the invoice_number unique index, the authoritative guard against
// invoice collisions.
func NewMongoPaymentRepository(ctx context.Context, db *mongo.Database) (*MongoPaymentRepository, error) {
	coll := db.Collection("payments")

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "invoice_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure invoice_number index: %w", err)
	}

	return &MongoPaymentRepository{collection: coll}, nil
}

func (r *MongoPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.CreatedAt = time.Now().UTC()

	objID := primitive.NewObjectID()
	payment.ID = objID.Hex()

	doc := bson.M{
		"_id":            objID,
		"member_id":      payment.MemberID,
		"membership_id":  payment.MembershipID,
		"amount":         payment.Amount,
		"payment_method": payment.PaymentMethod,
		"payment_status": payment.PaymentStatus,
		"invoice_number": payment.InvoiceNumber,
		"payment_date":   payment.PaymentDate,
		"notes":          payment.Notes,
		"created_at":     payment.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInvoiceNumberTaken
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id: %w", domain.ErrNotFound)
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return mapBsonToPayment(raw), nil
}

func (r *MongoPaymentRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "payment_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by member: %w", err)
	}
	defer cursor.Close(ctx)

	return decodePayments(ctx, cursor)
}

func (r *MongoPaymentRepository) GetByDateRange(ctx context.Context, from, to string, status string) ([]*domain.Payment, error) {
	filter := bson.M{"payment_date": bson.M{"$gte": from, "$lte": to}}
	if status != "" {
		filter["payment_status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "payment_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by range: %w", err)
	}
	defer cursor.Close(ctx)

	return decodePayments(ctx, cursor)
}

func (r *MongoPaymentRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"payment_status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPaymentRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", domain.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPaymentRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"member_id": memberID}); err != nil {
		return fmt.Errorf("failed to delete payments by member: %w", err)
	}
	return nil
}

func decodePayments(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		payments = append(payments, mapBsonToPayment(raw))
	}
	return payments, nil
}

func mapBsonToPayment(raw bson.M) *domain.Payment {
	p := &domain.Payment{}

	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	if v, ok := raw["member_id"].(string); ok {
		p.MemberID = v
	}
	if v, ok := raw["membership_id"].(string); ok {
		p.MembershipID = v
	}
	if v, ok := raw["amount"].(int64); ok {
		p.Amount = v
	} else if v, ok := raw["amount"].(int32); ok {
		p.Amount = int64(v)
	}
	if v, ok := raw["payment_method"].(string); ok {
		p.PaymentMethod = v
	}
	if v, ok := raw["payment_status"].(string); ok {
		p.PaymentStatus = v
	}
	if v, ok := raw["invoice_number"].(string); ok {
		p.InvoiceNumber = v
	}
	if v, ok := raw["payment_date"].(string); ok {
		p.PaymentDate = v
	}
	if v, ok := raw["notes"].(string); ok {
		p.Notes = v
	}
	if v, ok := raw["created_at"].(primitive.DateTime); ok {
		p.CreatedAt = v.Time()
	}

	return p
}
