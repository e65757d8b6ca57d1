package domain

import (
	"context"
	"time"
)

// Member is the aggregate root of the back office. Memberships, payments
// and check-ins belong to a member and are removed with it.
type Member struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	MemberCode       string    `bson:"member_code" json:"member_code"`
	FullName         string    `bson:"full_name" json:"full_name"`
	Phone            string    `bson:"phone" json:"phone"`
	Email            string    `bson:"email,omitempty" json:"email,omitempty"`
	DateOfBirth      string    `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender           string    `bson:"gender,omitempty" json:"gender,omitempty"`               // male, female, other
	Address          string    `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyName    string    `bson:"emergency_name,omitempty" json:"emergency_name,omitempty"`
	EmergencyContact string    `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	PhotoURL         string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	IsActive         bool      `bson:"is_active" json:"is_active"`
	JoinDate         string    `bson:"join_date" json:"join_date"` // YYYY-MM-DD
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// MemberRepository defines operations for managing members
type MemberRepository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByCode(ctx context.Context, code string) (*Member, error)
	GetActiveMembers(ctx context.Context) ([]*Member, error)
	GetAll(ctx context.Context) ([]*Member, error)
	// Search matches member_code, full_name or phone, case-insensitive.
	Search(ctx context.Context, query string, limit int64) ([]*Member, error)
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id string) error
}
