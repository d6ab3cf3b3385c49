package coinmarketcap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-CMC_PRO_API_KEY"); got != "test-key" {
			t.Errorf("api key header = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTC,ETH" {
			t.Errorf("symbol query = %q, want BTC,ETH", got)
		}
		if got := r.URL.Query().Get("convert"); got != "BRL" {
			t.Errorf("convert query = %q, want BRL", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": {"error_code": 0},
			"data": {
				"BTC": {"name": "Bitcoin", "quote": {"BRL": {"price": 350000.12, "percent_change_24h": -1.5}}},
				"ETH": {"name": "Ethereum", "quote": {"BRL": {"price": 18000.50, "percent_change_24h": 2.1}}}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	quotes, err := c.FetchQuotes(context.Background(), []string{"btc", " eth "}, "brl")
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}

	btc, ok := quotes["BTC"]
	if !ok {
		t.Fatal("missing BTC quote")
	}
	if btc.Name != "Bitcoin" {
		t.Errorf("Name = %q, want Bitcoin", btc.Name)
	}
	if btc.Price.String() != "350000.12" {
		t.Errorf("Price = %s, want 350000.12", btc.Price)
	}
	if btc.Change24h.String() != "-1.5" {
		t.Errorf("Change24h = %s, want -1.5", btc.Change24h)
	}
}

func TestFetchQuotesRequiresAPIKey(t *testing.T) {
	c := NewClient("http://localhost:0", "")
	if _, err := c.FetchQuotes(context.Background(), []string{"BTC"}, "USD"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestFetchQuotesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status": {"error_code": 1001, "error_message": "invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	if _, err := c.FetchQuotes(context.Background(), []string{"BTC"}, "USD"); err == nil {
		t.Error("expected error for API failure")
	}
}

func TestFetchQuotesSkipsUnknownSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": {"error_code": 0},
			"data": {"BTC": {"name": "Bitcoin", "quote": {"USD": {"price": 60000, "percent_change_24h": 0.3}}}}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	quotes, err := c.FetchQuotes(context.Background(), []string{"BTC", "NOPE"}, "USD")
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Errorf("got %d quotes, want 1", len(quotes))
	}
	if _, ok := quotes["NOPE"]; ok {
		t.Error("unknown symbol should be absent, not zero-valued")
	}
}

func TestFetchQuotesEmptyResultIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": {"error_code": 0}, "data": {}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.FetchQuotes(context.Background(), []string{"BTC"}, "USD"); err == nil {
		t.Error("expected error for empty result")
	}
}
