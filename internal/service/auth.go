package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// FirebaseAuthClient defines the interface for Firebase Auth operations
// This allows mocking for tests
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService handles staff authentication and registration
type AuthService struct {
	staffRepo  domain.StaffRepository
	authClient FirebaseAuthClient
	jwtSecret  string
}

// NewAuthService creates a new auth service
func NewAuthService(staffRepo domain.StaffRepository, authClient FirebaseAuthClient, jwtSecret string) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		authClient: authClient,
		jwtSecret:  jwtSecret,
	}
}

// LoginRequest contains the request params
type LoginRequest struct {
	FirebaseToken string
}

// LoginResponse contains the staff account and whether it was newly created
type LoginResponse struct {
	Staff      *domain.Staff
	Token      string
	IsNewStaff bool
}

// LoginOrRegister exchanges a verified Firebase ID token for an app JWT.
// Unknown Firebase accounts are first matched by email against
// pre-provisioned staff records; otherwise a new staff account is
// created with the default role.
func (s *AuthService) LoginOrRegister(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	token, err := s.authClient.VerifyIDToken(ctx, req.FirebaseToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}

	staff, err := s.staffRepo.GetByFirebaseUID(ctx, firebaseUID)

	// Pre-provisioned accounts exist with an email but no firebase_uid
	// until their first sign-in links the two.
	if errors.Is(err, domain.ErrNotFound) && email != "" {
		emailStaff, emailErr := s.staffRepo.GetByEmail(ctx, email)
		if emailErr == nil && emailStaff != nil {
			if emailStaff.FirebaseUID != "" {
				return nil, fmt.Errorf("email already linked to a different account")
			}
			emailStaff.FirebaseUID = firebaseUID
			if updateErr := s.staffRepo.Update(ctx, emailStaff); updateErr != nil {
				return nil, fmt.Errorf("failed to link firebase account: %w", updateErr)
			}
			staff = emailStaff
			err = nil
		}
	}

	if err == nil && staff != nil {
		appToken, err := s.GenerateToken(staff)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		return &LoginResponse{Staff: staff, Token: appToken, IsNewStaff: false}, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		newStaff := &domain.Staff{
			FirebaseUID: firebaseUID,
			Email:       email,
			Name:        name,
			Roles:       []string{domain.RoleStaff},
		}
		if err := s.staffRepo.Create(ctx, newStaff); err != nil {
			return nil, fmt.Errorf("failed to create staff account: %w", err)
		}
		appToken, err := s.GenerateToken(newStaff)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		return &LoginResponse{Staff: newStaff, Token: appToken, IsNewStaff: true}, nil
	}

	return nil, fmt.Errorf("failed to fetch staff account: %w", err)
}

// GenerateToken creates a JWT token with staff claims
func (s *AuthService) GenerateToken(staff *domain.Staff) (string, error) {
	claims := domain.GymdeskClaims{
		StaffID: staff.ID,
		Name:    staff.Name,
		Email:   staff.Email,
		Roles:   staff.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
