package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

const dashboardCacheTTL = 60 * time.Second

// ReportCache is the slice of the redis cache the aggregator uses.
// Misses and cache errors both fall through to the store; the cache is
// never authoritative.
type ReportCache interface {
	GetDashboardStats(ctx context.Context, dest interface{}) error
	SetDashboardStats(ctx context.Context, data interface{}, ttl time.Duration) error
}

// ReportService computes read-only rollups over members, payments,
// check-ins and memberships. No independent state: every number is
// derived on demand from the current rows.
type ReportService struct {
	memberRepo     domain.MemberRepository
	paymentRepo    domain.PaymentRepository
	checkInRepo    domain.CheckInRepository
	membershipRepo domain.MembershipRepository
	cache          ReportCache
	now            func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	memberRepo domain.MemberRepository,
	paymentRepo domain.PaymentRepository,
	checkInRepo domain.CheckInRepository,
	membershipRepo domain.MembershipRepository,
	cache ReportCache,
) *ReportService {
	return &ReportService{
		memberRepo:     memberRepo,
		paymentRepo:    paymentRepo,
		checkInRepo:    checkInRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		now:            time.Now,
	}
}

// RevenueSummary sums paid payments inside the window with a breakdown
// by method. The average is defined as 0 for an empty window.
func (s *ReportService) RevenueSummary(ctx context.Context, from, to string) (*domain.RevenueSummary, error) {
	if err := validateDateWindow(from, to); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByDateRange(ctx, from, to, domain.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}

	summary := &domain.RevenueSummary{ByMethod: make(map[string]int64)}
	for _, p := range payments {
		summary.Total += p.Amount
		summary.Count++
		summary.ByMethod[p.PaymentMethod] += p.Amount
	}
	if summary.Count > 0 {
		summary.AverageTransaction = summary.Total / int64(summary.Count)
	}
	return summary, nil
}

// DashboardStats builds the landing-page rollup, fanning its queries
// out concurrently. The result is cached briefly; every mutation
// handler invalidates the cache key.
func (s *ReportService) DashboardStats(ctx context.Context, expiringWithinDays int) (*domain.DashboardStats, error) {
	if s.cache != nil {
		var cached domain.DashboardStats
		if err := s.cache.GetDashboardStats(ctx, &cached); err == nil {
			return &cached, nil
		}
	}

	now := s.now()
	today := now.Format(domain.DateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(domain.DateLayout)
	horizon := now.AddDate(0, 0, expiringWithinDays).Format(domain.DateLayout)

	stats := &domain.DashboardStats{ExpiringSoonDays: expiringWithinDays}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		members, err := s.memberRepo.GetAll(gCtx)
		if err != nil {
			return err
		}
		stats.TotalMembers = int64(len(members))
		for _, m := range members {
			if m.IsActive {
				stats.ActiveMembers++
			}
		}
		return nil
	})

	g.Go(func() error {
		payments, err := s.paymentRepo.GetByDateRange(gCtx, monthStart, today, domain.PaymentStatusPaid)
		if err != nil {
			return err
		}
		for _, p := range payments {
			stats.MonthlyRevenue += p.Amount
		}
		return nil
	})

	g.Go(func() error {
		checkIns, err := s.checkInRepo.GetByDate(gCtx, today)
		if err != nil {
			return err
		}
		stats.TodayCheckIns = int64(len(checkIns))
		return nil
	})

	g.Go(func() error {
		expiring, err := s.membershipRepo.GetExpiringBetween(gCtx, today, horizon)
		if err != nil {
			return err
		}
		stats.ExpiringSoon = int64(len(expiring))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboardStats(ctx, stats, dashboardCacheTTL); err != nil {
			log.Printf("[Report] Failed to cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}

// ExpiringMemberships lists active memberships ending inside the window
// joined in memory with the member identity.
func (s *ReportService) ExpiringMemberships(ctx context.Context, withinDays int) ([]*domain.ExpiringMembership, error) {
	now := s.now()
	today := now.Format(domain.DateLayout)
	horizon := now.AddDate(0, 0, withinDays).Format(domain.DateLayout)

	memberships, err := s.membershipRepo.GetExpiringBetween(ctx, today, horizon)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ExpiringMembership, 0, len(memberships))
	for _, m := range memberships {
		member, err := s.memberRepo.GetByID(ctx, m.MemberID)
		if err != nil {
			// Orphan row (member deleted concurrently); skip it.
			log.Printf("[Report] Skipping membership %s, member lookup failed: %v", m.ID, err)
			continue
		}
		result = append(result, &domain.ExpiringMembership{Membership: m, Member: member})
	}
	return result, nil
}

// validateDateWindow rejects a report window whose bounds are missing
// or not calendar dates. Every windowed read goes through it so a bare
// query never degrades into a silently empty result.
func validateDateWindow(from, to string) error {
	if _, err := time.Parse(domain.DateLayout, from); err != nil {
		return fmt.Errorf("invalid from date %q: %w", from, domain.ErrValidation)
	}
	if _, err := time.Parse(domain.DateLayout, to); err != nil {
		return fmt.Errorf("invalid to date %q: %w", to, domain.ErrValidation)
	}
	return nil
}
