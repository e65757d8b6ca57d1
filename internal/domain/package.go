package domain

import (
	"context"
	"time"
)

// Package represents a purchasable membership template
type Package struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	PackageName  string    `bson:"package_name" json:"package_name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	DurationDays int       `bson:"duration_days" json:"duration_days"`
	Price        int64     `bson:"price" json:"price"` // smallest currency unit (e.g. IDR)
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate checks the package fields that gate membership math.
func (p *Package) Validate() error {
	if p.PackageName == "" {
		return wrapSentinel(ErrValidation, "package_name is required")
	}
	if p.DurationDays <= 0 {
		return wrapSentinel(ErrValidation, "duration_days must be positive")
	}
	if p.Price <= 0 {
		return wrapSentinel(ErrValidation, "price must be positive")
	}
	return nil
}

// PackageRepository defines operations for managing packages
type PackageRepository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id string) (*Package, error)
	GetActivePackages(ctx context.Context) ([]*Package, error)
	GetAll(ctx context.Context) ([]*Package, error)
	Update(ctx context.Context, pkg *Package) error
	Delete(ctx context.Context, id string) error
}
