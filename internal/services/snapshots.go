package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/integrations/coinmarketcap"
)

// QuoteFetcher retrieves current prices for a set of crypto symbols.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols []string, convert string) (map[string]coinmarketcap.Quote, error)
}

// SnapshotStore persists point-in-time crypto quotes.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, s *core.CryptoSnapshot) error
	ListSnapshots(ctx context.Context, ownerID int64, limit int) ([]core.CryptoSnapshot, error)
}

// SnapshotService fetches crypto quotes and records them as snapshots.
// Quotes are cached briefly so repeated refreshes within the cache window
// do not hit the upstream API again.
type SnapshotService struct {
	fetcher QuoteFetcher
	store   SnapshotStore
	quotes  *cache.LRUCache[map[string]coinmarketcap.Quote]
}

func NewSnapshotService(fetcher QuoteFetcher, store SnapshotStore) *SnapshotService {
	return &SnapshotService{
		fetcher: fetcher,
		store:   store,
		quotes:  cache.NewLRUCache[map[string]coinmarketcap.Quote](16, 60*time.Second),
	}
}

// Refresh fetches quotes for the given symbols and stores one snapshot per
// symbol for the owner. It returns the snapshots just recorded.
func (s *SnapshotService) Refresh(ctx context.Context, ownerID int64, symbols []string, fiat string) ([]core.CryptoSnapshot, error) {
	if len(symbols) == 0 {
		symbols = []string{"BTC", "ETH"}
	}
	if fiat == "" {
		fiat = "BRL"
	}
	fiat = strings.ToUpper(fiat)

	quotes, err := s.fetchCached(ctx, symbols, fiat)
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	now := time.Now().UTC()
	snapshots := make([]core.CryptoSnapshot, 0, len(quotes))
	for _, sym := range normalizeSymbols(symbols) {
		q, ok := quotes[sym]
		if !ok {
			slog.WarnContext(ctx, "no quote returned for symbol", "symbol", sym)
			continue
		}
		snap := core.CryptoSnapshot{
			OwnerID:   ownerID,
			Symbol:    q.Symbol,
			Name:      q.Name,
			Price:     q.Price,
			Fiat:      fiat,
			Change24h: q.Change24h,
			FetchedAt: now,
		}
		if err := s.store.InsertSnapshot(ctx, &snap); err != nil {
			slog.ErrorContext(ctx, "failed to store crypto snapshot",
				"symbol", sym,
				"error", err)
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// History returns the most recent snapshots for the owner, newest first.
func (s *SnapshotService) History(ctx context.Context, ownerID int64, limit int) ([]core.CryptoSnapshot, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.ListSnapshots(ctx, ownerID, limit)
}

func (s *SnapshotService) fetchCached(ctx context.Context, symbols []string, fiat string) (map[string]coinmarketcap.Quote, error) {
	key := quoteCacheKey(symbols, fiat)
	if cached, ok := s.quotes.Get(key); ok {
		return cached, nil
	}
	quotes, err := s.fetcher.FetchQuotes(ctx, symbols, fiat)
	if err != nil {
		return nil, err
	}
	s.quotes.Set(key, quotes)
	return quotes, nil
}

func quoteCacheKey(symbols []string, fiat string) string {
	norm := normalizeSymbols(symbols)
	return fiat + ":" + strings.Join(norm, ",")
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
