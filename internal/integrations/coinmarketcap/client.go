// Package coinmarketcap wraps the CoinMarketCap quotes endpoint. The rest of
// the system only sees symbols in, Quote values out; every failure mode
// (network, non-2xx, API-reported error, empty payload) surfaces as a wrapped
// error.
package coinmarketcap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://pro-api.coinmarketcap.com"

var ErrMissingAPIKey = errors.New("coinmarketcap api key not configured")

// Quote is one symbol's current price and 24h movement.
type Quote struct {
	Symbol    string
	Name      string
	Price     decimal.Decimal
	Change24h decimal.Decimal
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// quotesResponse mirrors the fields we read from
// /v1/cryptocurrency/quotes/latest.
type quotesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Name  string `json:"name"`
		Quote map[string]struct {
			Price            json.Number `json:"price"`
			PercentChange24h json.Number `json:"percent_change_24h"`
		} `json:"quote"`
	} `json:"data"`
}

// FetchQuotes returns the current quote for each requested symbol in the
// given fiat currency. Symbols are normalized to upper case; symbols the API
// does not know are simply absent from the result, and an entirely empty
// result is an error.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string, convert string) (map[string]Quote, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("no symbols requested")
	}
	convert = strings.ToUpper(strings.TrimSpace(convert))
	if convert == "" {
		convert = "USD"
	}

	endpoint := c.baseURL + "/v1/cryptocurrency/quotes/latest?" + url.Values{
		"symbol":  {strings.Join(cleaned, ",")},
		"convert": {convert},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build quotes request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read quotes response: %w", err)
	}

	var parsed quotesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("quotes request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode quotes response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quotes request failed with status %d: %s", resp.StatusCode, parsed.Status.ErrorMessage)
	}
	if parsed.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("quotes api error %d: %s", parsed.Status.ErrorCode, parsed.Status.ErrorMessage)
	}

	out := make(map[string]Quote, len(parsed.Data))
	for sym, payload := range parsed.Data {
		q, ok := payload.Quote[convert]
		if !ok || q.Price == "" {
			continue
		}
		price, err := decimal.NewFromString(q.Price.String())
		if err != nil {
			continue
		}
		change := decimal.Zero
		if q.PercentChange24h != "" {
			if d, err := decimal.NewFromString(q.PercentChange24h.String()); err == nil {
				change = d
			}
		}
		name := payload.Name
		if name == "" {
			name = sym
		}
		out[strings.ToUpper(sym)] = Quote{
			Symbol:    strings.ToUpper(sym),
			Name:      name,
			Price:     price,
			Change24h: change,
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no quotes returned (check symbols and convert currency)")
	}
	return out, nil
}
