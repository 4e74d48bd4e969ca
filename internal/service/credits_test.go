package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

func newCreditFixture(t *testing.T, balances map[string]int64) (*CreditService, *memCreditStore, *memAuditRepo) {
	t.Helper()
	store := newMemCreditStore(balances)
	audit := &memAuditRepo{}
	return NewCreditService(store, audit, zerolog.Nop()), store, audit
}

func TestDebitRecordsEntryAndBalance(t *testing.T) {
	svc, store, _ := newCreditFixture(t, map[string]int64{"u1": 40})

	newBalance, err := svc.Debit(context.Background(), "u1", 30, "marketplace listing, 30 days")
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if newBalance != 10 {
		t.Fatalf("balance mismatch: got %d want 10", newBalance)
	}
	entries := store.entriesFor("u1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Amount != -30 || entries[0].Kind != domain.LedgerKindDeduction {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestDebitInsufficientLeavesNoTrace(t *testing.T) {
	svc, store, _ := newCreditFixture(t, map[string]int64{"u1": 20})

	_, err := svc.Debit(context.Background(), "u1", 30, "marketplace listing, 30 days")
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	balance, err := svc.Balance(context.Background(), "u1")
	if err != nil {
		t.Fatalf("balance read failed: %v", err)
	}
	if balance != 20 {
		t.Fatalf("balance changed on failed debit: got %d want 20", balance)
	}
	if entries := store.entriesFor("u1"); len(entries) != 0 {
		t.Fatalf("ledger entry written for failed debit: %+v", entries)
	}
}

func TestDebitValidation(t *testing.T) {
	svc, _, _ := newCreditFixture(t, map[string]int64{"u1": 10})

	for _, amount := range []int64{0, -5} {
		if _, err := svc.Debit(context.Background(), "u1", amount, "x"); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("amount %d: expected ErrValidation, got %v", amount, err)
		}
	}
}

func TestApplyFailureLeavesNeitherEffect(t *testing.T) {
	svc, store, _ := newCreditFixture(t, map[string]int64{"u1": 40})
	store.applyErr = errors.New("connection reset")

	if _, err := svc.Debit(context.Background(), "u1", 10, "x"); err == nil {
		t.Fatal("expected injected failure")
	}

	store.applyErr = nil
	balance, _ := svc.Balance(context.Background(), "u1")
	if balance != 40 {
		t.Fatalf("balance mutated despite failure: got %d want 40", balance)
	}
	if entries := store.entriesFor("u1"); len(entries) != 0 {
		t.Fatalf("entry recorded despite failure: %+v", entries)
	}
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	svc, store, audit := newCreditFixture(t, map[string]int64{"u1": 10})

	_, err := svc.Adjust(context.Background(), "admin", "u1", -15, "penalty")
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	balance, _ := svc.Balance(context.Background(), "u1")
	if balance != 10 {
		t.Fatalf("balance changed on rejected adjustment: got %d want 10", balance)
	}
	if len(store.entriesFor("u1")) != 0 {
		t.Fatal("ledger entry written for rejected adjustment")
	}
	if len(audit.actions) != 0 {
		t.Fatal("audit row written for rejected adjustment")
	}
}

func TestAdjustAppendsAuditRecord(t *testing.T) {
	svc, store, audit := newCreditFixture(t, map[string]int64{"u1": 10})

	newBalance, err := svc.Adjust(context.Background(), "admin", "u1", 25, "support goodwill")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if newBalance != 35 {
		t.Fatalf("balance mismatch: got %d want 35", newBalance)
	}
	entries := store.entriesFor("u1")
	if len(entries) != 1 || entries[0].Kind != domain.LedgerKindPurchase {
		t.Fatalf("unexpected ledger entries: %+v", entries)
	}
	if len(audit.actions) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audit.actions))
	}
	action := audit.actions[0]
	if action.ActionType != domain.AdminActionAdjustCredits || action.TargetID != "u1" || action.AdminUserID != "admin" {
		t.Fatalf("unexpected audit row: %+v", action)
	}
}

func TestAdjustSurfacesAuditFailure(t *testing.T) {
	svc, _, audit := newCreditFixture(t, map[string]int64{"u1": 10})
	audit.appendErr = errors.New("disk full")

	if _, err := svc.Adjust(context.Background(), "admin", "u1", 5, "x"); err == nil {
		t.Fatal("expected audit failure to surface")
	}
}

func TestLedgerNewestFirstReconciles(t *testing.T) {
	svc, store, _ := newCreditFixture(t, map[string]int64{"u1": 100})

	if _, err := svc.Debit(context.Background(), "u1", 10, "first"); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if _, err := svc.Credit(context.Background(), "u1", 5, domain.LedgerKindRefund, "second"); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	entries, err := svc.Ledger(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("ledger read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "second" {
		t.Fatalf("expected newest first, got %q", entries[0].Description)
	}

	var sum int64
	for _, e := range store.entriesFor("u1") {
		sum += e.Amount
	}
	balance, _ := svc.Balance(context.Background(), "u1")
	if balance != 100+sum {
		t.Fatalf("ledger does not reconcile: balance %d, initial+sum %d", balance, 100+sum)
	}
}

func TestLedgerLimitClamped(t *testing.T) {
	svc, _, _ := newCreditFixture(t, map[string]int64{"u1": 1000})
	for i := 0; i < 60; i++ {
		if _, err := svc.Debit(context.Background(), "u1", 1, "tick"); err != nil {
			t.Fatalf("debit failed: %v", err)
		}
	}

	entries, err := svc.Ledger(context.Background(), "u1", 500)
	if err != nil {
		t.Fatalf("ledger read failed: %v", err)
	}
	if len(entries) != maxPageSize {
		t.Fatalf("limit not clamped: got %d want %d", len(entries), maxPageSize)
	}

	entries, err = svc.Ledger(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ledger read failed: %v", err)
	}
	if len(entries) != defaultPageSize {
		t.Fatalf("default limit not applied: got %d want %d", len(entries), defaultPageSize)
	}
}

// Randomized concurrent debits against one balance: the conditional
// check at write time must admit exactly one valid serialization, so
// the final balance equals the start minus the accepted amounts and is
// never negative.
func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	const start = int64(40)
	svc, store, _ := newCreditFixture(t, map[string]int64{"u1": start})

	rng := rand.New(rand.NewSource(1))
	amounts := make([]int64, 32)
	for i := range amounts {
		amounts[i] = 1 + rng.Int63n(7)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var accepted int64
	for _, amount := range amounts {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			if _, err := svc.Debit(context.Background(), "u1", amount, "concurrent"); err == nil {
				mu.Lock()
				accepted += amount
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientCredits) {
				t.Errorf("unexpected debit error: %v", err)
			}
		}(amount)
	}
	wg.Wait()

	balance, err := svc.Balance(context.Background(), "u1")
	if err != nil {
		t.Fatalf("balance read failed: %v", err)
	}
	if balance < 0 {
		t.Fatalf("balance went negative: %d", balance)
	}
	if balance != start-accepted {
		t.Fatalf("balance %d does not match start %d minus accepted %d", balance, start, accepted)
	}

	var sum int64
	for _, e := range store.entriesFor("u1") {
		sum += e.Amount
	}
	if balance != start+sum {
		t.Fatalf("ledger does not reconcile: balance %d, initial+sum %d", balance, start+sum)
	}
}
