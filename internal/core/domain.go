package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	CategorySalary   Category = "salary"
	CategoryFixed    Category = "fixed"
	CategoryVariable Category = "variable"
	CategoryLeisure  Category = "leisure"
	CategoryFood     Category = "food"
	CategoryOther    Category = "other"
)

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// RecurrenceNote marks transactions created by materialization.
const RecurrenceNote = "(auto-generated from recurrence)"

type (
	Kind     string
	Category string
	Status   string

	// RecurrenceDefinition describes a monthly-repeating obligation owned by
	// a single user. It is a template: materialization copies its fields into
	// concrete transactions, one per eligible month.
	RecurrenceDefinition struct {
		ID             int64
		OwnerID        int64
		Title          string
		Kind           Kind
		Category       Category
		Amount         decimal.Decimal
		DueDay         int // day of month 1-31, clamped to short months
		Start          time.Time
		DurationMonths int // 0 means unbounded
		Active         bool
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Transaction is a single dated money movement. RecurrenceID links back
	// to the definition that generated it; nil means manually entered or a
	// one-off repeat copy.
	Transaction struct {
		ID           int64
		OwnerID      int64
		RecurrenceID *int64
		Title        string
		Kind         Kind
		Category     Category
		Amount       decimal.Decimal
		Date         time.Time
		Status       Status
		Note         string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// Account holds the single manually-edited balance per owner. It is never
	// derived from the ledger; the user reconciles it by hand.
	Account struct {
		OwnerID   int64
		Balance   decimal.Decimal
		UpdatedAt time.Time
	}

	// Goal is a savings target.
	Goal struct {
		ID           int64
		OwnerID      int64
		Title        string
		TargetAmount decimal.Decimal
		SavedAmount  decimal.Decimal
		Deadline     *time.Time
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// CryptoSnapshot is one persisted price observation for a symbol.
	CryptoSnapshot struct {
		ID        int64
		OwnerID   int64
		Symbol    string
		Name      string
		Price     decimal.Decimal
		Fiat      string
		Change24h decimal.Decimal
		FetchedAt time.Time
	}

	// ChatMessage is one side of a persisted assistant exchange.
	ChatMessage struct {
		ID        int64
		OwnerID   int64
		Role      string // "user" or "assistant"
		Content   string
		CreatedAt time.Time
	}

)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type (
	// Figures are the projection results for one viewed month.
	Figures struct {
		PaidIncome        decimal.Decimal
		PaidExpense       decimal.Decimal
		PendingTotal      decimal.Decimal
		HistoricalBalance decimal.Decimal
		CommittedBalance  decimal.Decimal
	}
)

var (
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDueDay   = errors.New("invalid due day")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 120 characters)")
	ErrZeroStart       = errors.New("start date cannot be zero")
	ErrZeroDate        = errors.New("date cannot be zero")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (c Category) Valid() bool {
	switch c {
	case CategorySalary, CategoryFixed, CategoryVariable, CategoryLeisure, CategoryFood, CategoryOther:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

func (r RecurrenceDefinition) Validate() error {
	if len(strings.TrimSpace(r.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(r.Title) > 120 {
		return ErrTitleTooLong
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}
	if r.DueDay < 1 || r.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if r.Start.IsZero() {
		return ErrZeroStart
	}
	if r.DurationMonths < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Normalize applies the write-time coercion rules: a salary recurrence is
// always income. Conflicting caller-supplied values are overwritten, never
// rejected.
func (r *RecurrenceDefinition) Normalize() {
	if r.Category == CategorySalary {
		r.Kind = Income
	}
}

// EligibleIn reports whether this definition should have a transaction in the
// given month. The window is expressed in month indexes (year*12 + month-1):
// eligible from the start month for DurationMonths consecutive months, or
// forever when DurationMonths is 0. An inactive definition is never eligible.
func (r RecurrenceDefinition) EligibleIn(year int, month time.Month) bool {
	if !r.Active {
		return false
	}
	idxStart := MonthIndex(r.Start.Year(), r.Start.Month())
	idxTarget := MonthIndex(year, month)
	if idxTarget < idxStart {
		return false
	}
	if r.DurationMonths > 0 && idxTarget > idxStart+r.DurationMonths-1 {
		return false
	}
	return true
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 120 {
		return ErrTitleTooLong
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Normalize applies the write-time coercion rules: a salary transaction is
// always paid income, whatever the caller submitted.
func (t *Transaction) Normalize() {
	if t.Category == CategorySalary {
		t.Kind = Income
		t.Status = StatusPaid
	}
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := ValidateAmount(g.TargetAmount); err != nil {
		return err
	}
	if g.SavedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns how much of the target has been saved, in [0, 1].
// A funded-beyond-target goal caps at 1.
func (g Goal) Progress() decimal.Decimal {
	one := decimal.NewFromInt(1)
	if g.TargetAmount.Sign() <= 0 {
		return one
	}
	p := g.SavedAmount.DivRound(g.TargetAmount, 4)
	if p.GreaterThan(one) {
		return one
	}
	return p
}

// ZeroFigures returns figures with every sum at exact zero. Absence of rows
// is zero, never null.
func ZeroFigures() Figures {
	zero := decimal.Zero
	return Figures{
		PaidIncome:        zero,
		PaidExpense:       zero,
		PendingTotal:      zero,
		HistoricalBalance: zero,
		CommittedBalance:  zero,
	}
}
