package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/oklog/ulid/v2"
)

// MemberService owns member identity: code generation, photo storage
// and the cascade that removes a member's dependent rows with it.
type MemberService struct {
	memberRepo     domain.MemberRepository
	membershipRepo domain.MembershipRepository
	paymentRepo    domain.PaymentRepository
	checkInRepo    domain.CheckInRepository
	counterRepo    domain.CounterRepository
	fileRepo       domain.FileRepository
	now            func() time.Time
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo domain.MemberRepository,
	membershipRepo domain.MembershipRepository,
	paymentRepo domain.PaymentRepository,
	checkInRepo domain.CheckInRepository,
	counterRepo domain.CounterRepository,
	fileRepo domain.FileRepository,
) *MemberService {
	return &MemberService{
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		checkInRepo:    checkInRepo,
		counterRepo:    counterRepo,
		fileRepo:       fileRepo,
		now:            time.Now,
	}
}

// CreateMember assigns the next member code (GYM0001 style) and
// persists the member.
func (s *MemberService) CreateMember(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if strings.TrimSpace(member.FullName) == "" {
		return nil, fmt.Errorf("full_name is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(member.Phone) == "" {
		return nil, fmt.Errorf("phone is required: %w", domain.ErrValidation)
	}

	seq, err := s.counterRepo.Next(ctx, "member_code")
	if err != nil {
		return nil, fmt.Errorf("failed to allocate member code: %w", err)
	}
	member.MemberCode = fmt.Sprintf("GYM%04d", seq)
	member.IsActive = true
	if member.JoinDate == "" {
		member.JoinDate = s.now().Format(domain.DateLayout)
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMember persists member edits. The member code never changes.
func (s *MemberService) UpdateMember(ctx context.Context, member *domain.Member) error {
	if strings.TrimSpace(member.FullName) == "" {
		return fmt.Errorf("full_name is required: %w", domain.ErrValidation)
	}
	existing, err := s.memberRepo.GetByID(ctx, member.ID)
	if err != nil {
		return err
	}
	member.MemberCode = existing.MemberCode
	return s.memberRepo.Update(ctx, member)
}

// DeleteMember removes a member together with their memberships,
// payments and check-ins. This is a hard cascade, not a soft delete.
// Each delete is a separate row-level operation; an error mid-sequence
// leaves the member row in place so the cascade can be re-run.
func (s *MemberService) DeleteMember(ctx context.Context, memberID string) error {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return err
	}

	if err := s.membershipRepo.DeleteByMemberID(ctx, memberID); err != nil {
		return err
	}
	if err := s.paymentRepo.DeleteByMemberID(ctx, memberID); err != nil {
		return err
	}
	if err := s.checkInRepo.DeleteByMemberID(ctx, memberID); err != nil {
		return err
	}

	log.Printf("[Member] Deleted dependent rows for member %s", memberID)
	return s.memberRepo.Delete(ctx, memberID)
}

// UploadPhoto stores a member photo and writes its URL back to the
// member record.
func (s *MemberService) UploadPhoto(ctx context.Context, memberID string, file []byte, contentType string) (string, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if s.fileRepo == nil {
		return "", fmt.Errorf("photo storage is not configured: %w", domain.ErrTransient)
	}

	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	key := fmt.Sprintf("members/%s/%s.%s", memberID, ulid.Make().String(), ext)

	url, err := s.fileRepo.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", err
	}

	member.PhotoURL = url
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return "", err
	}
	return url, nil
}

// PackageService manages the package catalog.
type PackageService struct {
	packageRepo    domain.PackageRepository
	membershipRepo domain.MembershipRepository
}

// NewPackageService creates a new PackageService
func NewPackageService(packageRepo domain.PackageRepository, membershipRepo domain.MembershipRepository) *PackageService {
	return &PackageService{packageRepo: packageRepo, membershipRepo: membershipRepo}
}

// CreatePackage validates and persists a package template.
func (s *PackageService) CreatePackage(ctx context.Context, pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	return s.packageRepo.Create(ctx, pkg)
}

// UpdatePackage validates and persists package edits. Existing
// memberships keep their snapshotted price.
func (s *PackageService) UpdatePackage(ctx context.Context, pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	return s.packageRepo.Update(ctx, pkg)
}

// DeletePackage removes a package unless a non-terminal membership
// still references it.
func (s *PackageService) DeletePackage(ctx context.Context, packageID string) error {
	count, err := s.membershipRepo.CountActiveByPackageID(ctx, packageID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrPackageReferenced
	}
	return s.packageRepo.Delete(ctx, packageID)
}
