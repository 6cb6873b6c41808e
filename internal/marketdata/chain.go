package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gexwatch/internal/gex"
)

const defaultChainHost = "https://query2.finance.yahoo.com"

// ChainClient fetches option chains from a Yahoo-finance-compatible
// endpoint (/v7/finance/options/{symbol}).
type ChainClient struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chain API error (%d): %s", e.Status, e.Body)
}

func NewChainClient(httpClient *http.Client, host string) *ChainClient {
	if host == "" {
		host = defaultChainHost
	}
	host = strings.TrimRight(host, "/")
	return &ChainClient{host: host, httpClient: httpClient}
}

// Quote values arrive as JSON numbers; decimal keeps them exact until the
// engine converts for the gamma math.
type chainContract struct {
	Strike            decimal.Decimal `json:"strike"`
	OpenInterest      decimal.Decimal `json:"openInterest"`
	ImpliedVolatility decimal.Decimal `json:"impliedVolatility"`
}

type chainResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				ExpirationDate int64           `json:"expirationDate"`
				Calls          []chainContract `json:"calls"`
				Puts           []chainContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

func (c *ChainClient) OptionChain(ctx context.Context, symbol string, maxExpiries int) ([]gex.Expiration, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if maxExpiries <= 0 {
		maxExpiries = 10
	}

	first, err := c.fetch(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	if len(first.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("no chain data for %s", symbol)
	}
	result := first.OptionChain.Result[0]

	dates := result.ExpirationDates
	if len(dates) > maxExpiries {
		dates = dates[:maxExpiries]
	}

	expirations := make([]gex.Expiration, 0, len(dates))
	for i, ts := range dates {
		// The first expiry rides along with the initial response.
		resp := first
		if i > 0 {
			resp, err = c.fetch(ctx, symbol, ts)
			if err != nil {
				return nil, err
			}
			if len(resp.OptionChain.Result) == 0 {
				continue
			}
		}
		for _, opt := range resp.OptionChain.Result[0].Options {
			if opt.ExpirationDate != ts && i > 0 {
				continue
			}
			expirations = append(expirations, gex.Expiration{
				Date:  time.Unix(opt.ExpirationDate, 0).UTC(),
				Calls: toContracts(opt.Calls),
				Puts:  toContracts(opt.Puts),
			})
			break
		}
	}
	return expirations, nil
}

func (c *ChainClient) fetch(ctx context.Context, symbol string, date int64) (*chainResponse, error) {
	path := "/v7/finance/options/" + url.PathEscape(symbol)
	if date > 0 {
		q := url.Values{}
		q.Set("date", strconv.FormatInt(date, 10))
		path += "?" + q.Encode()
	}
	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, err
	}
	var parsed chainResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding chain response: %w", err)
	}
	if parsed.OptionChain.Error != nil {
		return nil, fmt.Errorf("chain API: %s (%s)",
			parsed.OptionChain.Error.Description, parsed.OptionChain.Error.Code)
	}
	return &parsed, nil
}

func (c *ChainClient) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func toContracts(rows []chainContract) []gex.OptionContract {
	out := make([]gex.OptionContract, 0, len(rows))
	for _, r := range rows {
		out = append(out, gex.OptionContract{
			Strike:     r.Strike.InexactFloat64(),
			OpenInt:    r.OpenInterest.InexactFloat64(),
			ImpliedVol: r.ImpliedVolatility.InexactFloat64(),
		})
	}
	return out
}
