package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

type fakeRecurrenceSource struct {
	defs []core.RecurrenceDefinition
	err  error
}

func (f *fakeRecurrenceSource) ListActiveRecurrences(_ context.Context, ownerID int64) ([]core.RecurrenceDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.RecurrenceDefinition
	for _, d := range f.defs {
		if d.OwnerID == ownerID && d.Active {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeMaterializedWriter struct {
	created   []core.Transaction
	conflicts map[string]bool // key ownerID:recurrenceID:period
	createErr error
	nextID    int64
}

func matKey(ownerID, recurrenceID int64, period string) string {
	return fmt.Sprintf("%d:%d:%s", ownerID, recurrenceID, period)
}

func (f *fakeMaterializedWriter) HasMaterialized(_ context.Context, ownerID, recurrenceID int64, period string) (bool, error) {
	return f.conflicts[matKey(ownerID, recurrenceID, period)], nil
}

func (f *fakeMaterializedWriter) CreateMaterialized(_ context.Context, t *core.Transaction) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	key := matKey(t.OwnerID, *t.RecurrenceID, core.PeriodOf(t.Date))
	if f.conflicts == nil {
		f.conflicts = make(map[string]bool)
	}
	if f.conflicts[key] {
		return false, nil
	}
	f.conflicts[key] = true
	f.nextID++
	t.ID = f.nextID
	f.created = append(f.created, *t)
	return true, nil
}

func def(id int64, title string, dueDay int, startYear int, startMonth time.Month, duration int) core.RecurrenceDefinition {
	return core.RecurrenceDefinition{
		ID:             id,
		OwnerID:        1,
		Title:          title,
		Kind:           core.Expense,
		Category:       core.CategoryFixed,
		Amount:         decimal.RequireFromString("100.00"),
		DueDay:         dueDay,
		Start:          time.Date(startYear, startMonth, 1, 0, 0, 0, 0, time.UTC),
		DurationMonths: duration,
		Active:         true,
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Rent", 5, 2025, time.January, 0),
		def(2, "Gym", 10, 2025, time.January, 0),
	}}
	writer := &fakeMaterializedWriter{}
	m := NewMaterializer(source, writer)

	created, err := m.Materialize(context.Background(), 1, 2025, time.March)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 2 {
		t.Fatalf("first run created %d, want 2", created)
	}

	created, err = m.Materialize(context.Background(), 1, 2025, time.March)
	if err != nil {
		t.Fatalf("Materialize (second run): %v", err)
	}
	if created != 0 {
		t.Fatalf("second run created %d, want 0", created)
	}
	if len(writer.created) != 2 {
		t.Fatalf("stored %d transactions, want 2", len(writer.created))
	}
}

func TestMaterializeWindow(t *testing.T) {
	// Active 2025-01 through 2025-03 only.
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Course", 15, 2025, time.January, 3),
	}}

	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"month before start", 2024, time.December, 0},
		{"first month", 2025, time.January, 1},
		{"last month", 2025, time.March, 1},
		{"month after end", 2025, time.April, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeMaterializedWriter{}
			m := NewMaterializer(source, writer)
			created, err := m.Materialize(context.Background(), 1, tt.year, tt.month)
			if err != nil {
				t.Fatalf("Materialize: %v", err)
			}
			if created != tt.want {
				t.Fatalf("created %d, want %d", created, tt.want)
			}
		})
	}
}

func TestMaterializeUnboundedDuration(t *testing.T) {
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Rent", 1, 2020, time.June, 0),
	}}
	writer := &fakeMaterializedWriter{}
	m := NewMaterializer(source, writer)

	created, err := m.Materialize(context.Background(), 1, 2031, time.December)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 1 {
		t.Fatalf("created %d, want 1 for unbounded recurrence far in the future", created)
	}
}

func TestMaterializeClampsDueDay(t *testing.T) {
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Card bill", 31, 2025, time.January, 0),
	}}

	tests := []struct {
		name    string
		year    int
		month   time.Month
		wantDay int
	}{
		{"february non-leap", 2025, time.February, 28},
		{"february leap", 2028, time.February, 29},
		{"april", 2025, time.April, 30},
		{"full month", 2025, time.March, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeMaterializedWriter{}
			m := NewMaterializer(source, writer)
			if _, err := m.Materialize(context.Background(), 1, tt.year, tt.month); err != nil {
				t.Fatalf("Materialize: %v", err)
			}
			if len(writer.created) != 1 {
				t.Fatalf("stored %d transactions, want 1", len(writer.created))
			}
			if got := writer.created[0].Date.Day(); got != tt.wantDay {
				t.Fatalf("materialized day = %d, want %d", got, tt.wantDay)
			}
		})
	}
}

func TestMaterializeSalaryNormalization(t *testing.T) {
	salary := def(1, "Salary", 5, 2025, time.January, 0)
	salary.Kind = core.Expense // deliberately wrong on the definition
	salary.Category = core.CategorySalary
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{salary}}
	writer := &fakeMaterializedWriter{}
	m := NewMaterializer(source, writer)

	if _, err := m.Materialize(context.Background(), 1, 2025, time.June); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(writer.created) != 1 {
		t.Fatalf("stored %d transactions, want 1", len(writer.created))
	}
	got := writer.created[0]
	if got.Kind != core.Income {
		t.Errorf("salary kind = %q, want income", got.Kind)
	}
	if got.Status != core.StatusPaid {
		t.Errorf("salary status = %q, want paid", got.Status)
	}
	if got.Note != core.RecurrenceNote {
		t.Errorf("note = %q, want %q", got.Note, core.RecurrenceNote)
	}
}

func TestMaterializeSkipsOtherOwners(t *testing.T) {
	other := def(1, "Rent", 5, 2025, time.January, 0)
	other.OwnerID = 99
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{other}}
	writer := &fakeMaterializedWriter{}
	m := NewMaterializer(source, writer)

	created, err := m.Materialize(context.Background(), 1, 2025, time.June)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 0 {
		t.Fatalf("created %d transactions for the wrong owner, want 0", created)
	}
}

func TestMaterializeTreatsConflictAsExisting(t *testing.T) {
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Rent", 5, 2025, time.January, 0),
	}}
	// Row already present, as if a concurrent view materialized it first.
	writer := &fakeMaterializedWriter{conflicts: map[string]bool{
		matKey(1, 1, "2025-06"): true,
	}}
	m := NewMaterializer(source, writer)

	created, err := m.Materialize(context.Background(), 1, 2025, time.June)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 0 {
		t.Fatalf("created %d, want 0 when the row already exists", created)
	}
}

func TestMaterializeContinuesPastFailures(t *testing.T) {
	source := &fakeRecurrenceSource{defs: []core.RecurrenceDefinition{
		def(1, "Rent", 5, 2025, time.January, 0),
	}}
	writer := &fakeMaterializedWriter{createErr: errors.New("disk full")}
	m := NewMaterializer(source, writer)

	created, err := m.Materialize(context.Background(), 1, 2025, time.June)
	if err != nil {
		t.Fatalf("Materialize should not fail on per-row errors: %v", err)
	}
	if created != 0 {
		t.Fatalf("created %d, want 0", created)
	}
}
