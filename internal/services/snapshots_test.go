package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"financas/internal/core"
	"financas/internal/integrations/coinmarketcap"
)

type fakeQuoteFetcher struct {
	quotes map[string]coinmarketcap.Quote
	calls  int
}

func (f *fakeQuoteFetcher) FetchQuotes(_ context.Context, _ []string, _ string) (map[string]coinmarketcap.Quote, error) {
	f.calls++
	return f.quotes, nil
}

type fakeSnapshotStore struct {
	snapshots []core.CryptoSnapshot
}

func (f *fakeSnapshotStore) InsertSnapshot(_ context.Context, s *core.CryptoSnapshot) error {
	s.ID = int64(len(f.snapshots) + 1)
	f.snapshots = append(f.snapshots, *s)
	return nil
}

func (f *fakeSnapshotStore) ListSnapshots(_ context.Context, ownerID int64, limit int) ([]core.CryptoSnapshot, error) {
	var out []core.CryptoSnapshot
	for i := len(f.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		if f.snapshots[i].OwnerID == ownerID {
			out = append(out, f.snapshots[i])
		}
	}
	return out, nil
}

func TestSnapshotRefreshStoresOnePerSymbol(t *testing.T) {
	fetcher := &fakeQuoteFetcher{quotes: map[string]coinmarketcap.Quote{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: decimal.RequireFromString("350000.12"), Change24h: decimal.RequireFromString("-1.5")},
		"ETH": {Symbol: "ETH", Name: "Ethereum", Price: decimal.RequireFromString("18000.00"), Change24h: decimal.RequireFromString("2.1")},
	}}
	store := &fakeSnapshotStore{}
	svc := NewSnapshotService(fetcher, store)

	snaps, err := svc.Refresh(context.Background(), 1, []string{"btc", "ETH"}, "brl")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	for _, s := range snaps {
		if s.Fiat != "BRL" {
			t.Errorf("fiat = %q, want BRL", s.Fiat)
		}
		if s.OwnerID != 1 {
			t.Errorf("owner = %d, want 1", s.OwnerID)
		}
	}
	if len(store.snapshots) != 2 {
		t.Fatalf("stored %d snapshots, want 2", len(store.snapshots))
	}
}

func TestSnapshotRefreshUsesQuoteCache(t *testing.T) {
	fetcher := &fakeQuoteFetcher{quotes: map[string]coinmarketcap.Quote{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: decimal.RequireFromString("350000.12")},
	}}
	svc := NewSnapshotService(fetcher, &fakeSnapshotStore{})

	for i := 0; i < 3; i++ {
		if _, err := svc.Refresh(context.Background(), 1, []string{"BTC"}, "BRL"); err != nil {
			t.Fatalf("Refresh %d: %v", i, err)
		}
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, want 1 (cached)", fetcher.calls)
	}
}

func TestSnapshotHistoryNewestFirst(t *testing.T) {
	fetcher := &fakeQuoteFetcher{quotes: map[string]coinmarketcap.Quote{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: decimal.RequireFromString("1.00")},
	}}
	store := &fakeSnapshotStore{}
	svc := NewSnapshotService(fetcher, store)

	if _, err := svc.Refresh(context.Background(), 1, []string{"BTC"}, "BRL"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	history, err := svc.History(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Symbol != "BTC" {
		t.Fatalf("history = %+v, want one BTC snapshot", history)
	}
}

func TestNormalizeSymbols(t *testing.T) {
	got := normalizeSymbols([]string{" eth", "BTC", "btc", "", "Sol"})
	want := []string{"BTC", "ETH", "SOL"}
	if len(got) != len(want) {
		t.Fatalf("normalizeSymbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("normalizeSymbols = %v, want %v", got, want)
		}
	}
}
