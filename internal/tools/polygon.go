package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stocksage/stocksage/internal/errs"
)

const defaultPolygonBaseURL = "https://api.polygon.io"

// PolygonTool fetches company fundamentals from the Polygon.io financials
// endpoint.
type PolygonTool struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type PolygonConfig struct {
	APIKey  string
	BaseURL string // override for tests
	Timeout time.Duration
}

func NewPolygonTool(cfg PolygonConfig) (*PolygonTool, error) {
	if cfg.APIKey == "" {
		return nil, errs.New(errs.KindEnvironment, "missing environment variables: [POLYGON_API_KEY]")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultPolygonBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PolygonTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (t *PolygonTool) Name() string { return "stock_financials" }

func (t *PolygonTool) Description() string {
	return "Get financial data and fundamentals for publicly traded companies. " +
		"Use this for earnings, revenue, balance sheets, and other financial metrics."
}

func (t *PolygonTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ticker": map[string]any{
				"type":        "string",
				"description": "The stock ticker symbol, e.g. AAPL.",
			},
		},
		"required": []string{"ticker"},
	}
}

func (t *PolygonTool) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", errs.Wrap(err, errs.KindInput, "invalid stock_financials arguments")
	}
	ticker := strings.ToUpper(strings.TrimSpace(input.Ticker))
	if ticker == "" {
		return "", errs.New(errs.KindInput, "stock_financials requires a ticker")
	}

	query := url.Values{}
	query.Set("ticker", ticker)
	query.Set("limit", "4")
	query.Set("apiKey", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/vX/reference/financials?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build polygon request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "polygon financials request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "failed to read polygon response")
	}
	if resp.StatusCode >= 300 {
		return "", errs.New(errs.KindProvider, "polygon financials failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Results []struct {
			FiscalPeriod string          `json:"fiscal_period"`
			FiscalYear   string          `json:"fiscal_year"`
			CompanyName  string          `json:"company_name"`
			Financials   json.RawMessage `json:"financials"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "failed to decode polygon response")
	}
	if len(parsed.Results) == 0 {
		return fmt.Sprintf("No financial data found for %s.", ticker), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Financials for %s:\n", ticker)
	for _, result := range parsed.Results {
		fmt.Fprintf(&sb, "\n%s %s %s:\n%s\n", result.CompanyName, result.FiscalYear, result.FiscalPeriod, string(result.Financials))
	}
	return strings.TrimSpace(sb.String()), nil
}
