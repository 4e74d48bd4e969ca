package domain

import "time"

// LedgerKind classifies a credit-affecting event.
type LedgerKind string

const (
	LedgerKindPurchase  LedgerKind = "purchase"
	LedgerKindDeduction LedgerKind = "deduction"
	LedgerKindRefund    LedgerKind = "refund"
)

// Valid reports whether the kind is one of the known values.
func (k LedgerKind) Valid() bool {
	switch k {
	case LedgerKindPurchase, LedgerKindDeduction, LedgerKindRefund:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of a single balance mutation.
// Amount is signed: positive entries add credits, negative entries spend
// them. One entry is appended per successful mutation, in the same
// transaction as the balance update, so the sum of a user's entries
// always reconciles with the current balance.
type LedgerEntry struct {
	ID          string
	UserID      string
	Amount      int64
	Kind        LedgerKind
	Description string
	CreatedAt   time.Time
}
