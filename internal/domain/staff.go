package domain

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Staff role constants
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Staff is a back-office operator account. Sign-in exchanges a Firebase
// ID token for an app JWT carrying these fields; there is no ambient
// session singleton, handlers read the session from the request context.
type Staff struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	FirebaseUID string    `bson:"firebase_uid,omitempty" json:"firebase_uid"`
	Email       string    `bson:"email" json:"email"`
	Name        string    `bson:"name" json:"name"`
	Roles       []string  `bson:"roles" json:"roles"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole checks if the staff account has a specific role
func (s *Staff) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// StaffRepository defines operations for managing staff accounts
type StaffRepository interface {
	Create(ctx context.Context, staff *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*Staff, error)
	Update(ctx context.Context, staff *Staff) error
}

// GymdeskClaims represents custom JWT claims for staff sessions
type GymdeskClaims struct {
	StaffID string   `json:"staff_id"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles"`
	jwt.RegisteredClaims
}
