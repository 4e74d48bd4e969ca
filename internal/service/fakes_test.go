package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
)

// memCreditStore honors the CreditStore contract in memory: the balance
// check is re-evaluated under the lock at write time, and a rejected
// mutation leaves no entry behind.
type memCreditStore struct {
	mu       sync.Mutex
	balances map[string]int64
	entries  []domain.LedgerEntry

	applyErr error // injected failure: ApplyEntry fails atomically
}

func newMemCreditStore(balances map[string]int64) *memCreditStore {
	m := &memCreditStore{balances: make(map[string]int64)}
	for id, bal := range balances {
		m.balances[id] = bal
	}
	return m
}

func (m *memCreditStore) Balance(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return bal, nil
}

func (m *memCreditStore) ApplyEntry(_ context.Context, entry *domain.LedgerEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return 0, m.applyErr
	}
	bal, ok := m.balances[entry.UserID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if bal+entry.Amount < 0 {
		return 0, domain.ErrInsufficientCredits
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	m.balances[entry.UserID] = bal + entry.Amount
	m.entries = append(m.entries, *entry)
	return m.balances[entry.UserID], nil
}

func (m *memCreditStore) ListEntries(_ context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memCreditStore) entriesFor(userID string) []domain.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

type memListingRepo struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing

	createErr error
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: make(map[string]*domain.Listing)}
}

func (m *memListingRepo) Create(_ context.Context, listing *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	cp := *listing
	m.listings[listing.ID] = &cp
	return nil
}

func (m *memListingRepo) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memListingRepo) UpdatePayload(_ context.Context, id string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Payload = append([]byte(nil), payload...)
	l.UpdatedAt = time.Now()
	return nil
}

func (m *memListingRepo) SetStatus(_ context.Context, id string, status domain.ListingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	return nil
}

func (m *memListingRepo) SetModeration(_ context.Context, id string, status domain.AdminStatus, activate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.AdminStatus = status
	if activate {
		l.Status = domain.ListingStatusActive
	}
	l.UpdatedAt = time.Now()
	return nil
}

func (m *memListingRepo) ListPublic(_ context.Context, contentType domain.ContentType, limit int) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []domain.Listing
	for _, l := range m.listings {
		if !l.VisibleAt(now) {
			continue
		}
		if contentType != "" && l.ContentType != contentType {
			continue
		}
		out = append(out, *l)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memListingRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.listings {
		if l.Status == domain.ListingStatusActive && l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
			l.Status = domain.ListingStatusExpired
			n++
		}
	}
	return n, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	actions []domain.AdminAction

	appendErr error
}

func (m *memAuditRepo) Append(_ context.Context, action *domain.AdminAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	action.CreatedAt = time.Now()
	m.actions = append(m.actions, *action)
	return nil
}

func (m *memAuditRepo) ListRecent(_ context.Context, limit int) ([]domain.AdminAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AdminAction
	for i := len(m.actions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.actions[i])
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.UserAccount
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}
