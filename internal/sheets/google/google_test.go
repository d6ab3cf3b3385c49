package google

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Ledger", 2025, "2025 Ledger"},
		{"2024 Ledger", 2025, "2024 Ledger"},
		{"  Ledger  ", 2025, "2025 Ledger"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestFindRowByID(t *testing.T) {
	column := [][]any{
		{"id"},
		{"17"},
		{},
		{" 42 "},
	}
	tests := []struct {
		id   int64
		want int
	}{
		{17, 2},
		{42, 4},
		{99, 0},
	}
	for _, tt := range tests {
		if got := findRowByID(column, tt.id); got != tt.want {
			t.Errorf("findRowByID(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestRowValues(t *testing.T) {
	tx := core.Transaction{
		ID:       7,
		Title:    "Rent",
		Kind:     core.Expense,
		Category: core.CategoryFixed,
		Amount:   decimal.RequireFromString("1200.50"),
		Date:     time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		Status:   core.StatusPaid,
		Note:     "june",
	}
	got := rowValues(tx)
	want := []any{"7", "2025-06-05", "Rent", "expense", "fixed", "1200.50", "paid", "june"}
	if len(got) != len(want) {
		t.Fatalf("rowValues returned %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, got[i], want[i])
		}
	}
}
