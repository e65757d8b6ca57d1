package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// In-memory repositories for service tests. They mirror the store
// semantics the services rely on, in particular the unique indexes on
// invoice_number and (member_id, check_in_date).

type fakeMemberRepo struct {
	mu      sync.Mutex
	seq     int
	members map[string]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*domain.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.MemberCode == m.MemberCode {
			return domain.ErrConflict
		}
	}
	r.seq++
	m.ID = fmt.Sprintf("member-%d", r.seq)
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) GetByCode(_ context.Context, code string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.MemberCode == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeMemberRepo) GetActiveMembers(_ context.Context) ([]*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Member
	for _, m := range r.members {
		if m.IsActive {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) GetAll(_ context.Context) ([]*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Member
	for _, m := range r.members {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMemberRepo) Search(_ context.Context, query string, limit int64) ([]*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*domain.Member
	for _, m := range r.members {
		if strings.Contains(strings.ToLower(m.FullName), q) ||
			strings.Contains(strings.ToLower(m.MemberCode), q) ||
			strings.Contains(m.Phone, query) {
			cp := *m
			out = append(out, &cp)
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

type fakePackageRepo struct {
	mu       sync.Mutex
	seq      int
	packages map[string]*domain.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: make(map[string]*domain.Package)}
}

func (r *fakePackageRepo) Create(_ context.Context, p *domain.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("package-%d", r.seq)
	cp := *p
	r.packages[p.ID] = &cp
	return nil
}

func (r *fakePackageRepo) GetByID(_ context.Context, id string) (*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePackageRepo) GetActivePackages(_ context.Context) ([]*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Package
	for _, p := range r.packages {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePackageRepo) GetAll(_ context.Context) ([]*domain.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Package
	for _, p := range r.packages {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePackageRepo) Update(_ context.Context, p *domain.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.packages[p.ID] = &cp
	return nil
}

func (r *fakePackageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.packages, id)
	return nil
}

type fakeMembershipRepo struct {
	mu          sync.Mutex
	seq         int
	memberships map[string]*domain.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[string]*domain.Membership)}
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	m.ID = fmt.Sprintf("membership-%d", r.seq)
	cp := *m
	r.memberships[m.ID] = &cp
	return nil
}

func (r *fakeMembershipRepo) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMembershipRepo) GetByMemberID(_ context.Context, memberID string) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Membership
	for _, m := range r.memberships {
		if m.MemberID == memberID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) GetActiveByMemberID(_ context.Context, memberID string, asOf string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.MemberID == memberID && m.Status == domain.MembershipStatusActive && m.EndDate >= asOf {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeMembershipRepo) CountActiveByPackageID(_ context.Context, packageID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.memberships {
		if m.PackageID == packageID && m.Status == domain.MembershipStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeMembershipRepo) GetExpiringBetween(_ context.Context, from, to string) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Membership
	for _, m := range r.memberships {
		if m.Status == domain.MembershipStatusActive && m.EndDate >= from && m.EndDate <= to {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) UpdateStatus(_ context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMembershipRepo) DeleteByMemberID(_ context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.memberships {
		if m.MemberID == memberID {
			delete(r.memberships, id)
		}
	}
	return nil
}

type fakeCheckInRepo struct {
	mu       sync.Mutex
	seq      int
	checkIns map[string]*domain.CheckIn
}

func newFakeCheckInRepo() *fakeCheckInRepo {
	return &fakeCheckInRepo{checkIns: make(map[string]*domain.CheckIn)}
}

func (r *fakeCheckInRepo) Create(_ context.Context, c *domain.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// unique (member_id, check_in_date), same as the store index
	for _, existing := range r.checkIns {
		if existing.MemberID == c.MemberID && existing.CheckInDate == c.CheckInDate {
			return domain.ErrAlreadyCheckedInToday
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("checkin-%d", r.seq)
	cp := *c
	r.checkIns[c.ID] = &cp
	return nil
}

func (r *fakeCheckInRepo) GetByID(_ context.Context, id string) (*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checkIns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCheckInRepo) GetByMemberAndDate(_ context.Context, memberID, date string) (*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.checkIns {
		if c.MemberID == memberID && c.CheckInDate == date {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCheckInRepo) GetByDate(_ context.Context, date string) ([]*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.CheckIn
	for _, c := range r.checkIns {
		if c.CheckInDate == date {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCheckInRepo) GetByDateRange(_ context.Context, from, to string, memberID string) ([]*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.CheckIn
	for _, c := range r.checkIns {
		if c.CheckInDate < from || c.CheckInDate > to {
			continue
		}
		if memberID != "" && c.MemberID != memberID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCheckInRepo) SetCheckOutTime(_ context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checkIns[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.CheckOutTime = &t
	return nil
}

func (r *fakeCheckInRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkIns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.checkIns, id)
	return nil
}

func (r *fakeCheckInRepo) DeleteByMemberID(_ context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.checkIns {
		if c.MemberID == memberID {
			delete(r.checkIns, id)
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	seq      int
	payments map[string]*domain.Payment

	// createErr makes every Create fail, simulating an unreachable
	// payment collection while memberships still persist.
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	// unique invoice_number, same as the store index
	for _, existing := range r.payments {
		if existing.InvoiceNumber == p.InvoiceNumber {
			return domain.ErrInvoiceNumberTaken
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("payment-%d", r.seq)
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) GetByMemberID(_ context.Context, memberID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.MemberID == memberID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) GetByDateRange(_ context.Context, from, to string, status string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.PaymentDate < from || p.PaymentDate > to {
			continue
		}
		if status != "" && p.PaymentStatus != status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PaymentStatus = status
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) DeleteByMemberID(_ context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.payments {
		if p.MemberID == memberID {
			delete(r.payments, id)
		}
	}
	return nil
}

type fakeCounterRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: make(map[string]int64)}
}

func (r *fakeCounterRepo) Next(_ context.Context, scope string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.counters[scope]++
	return r.counters[scope], nil
}

// fakeMembershipChecker stubs the active-membership precondition.
type fakeMembershipChecker struct {
	active bool
	err    error
}

func (c *fakeMembershipChecker) HasActiveMembership(context.Context, string, time.Time) (bool, error) {
	return c.active, c.err
}
