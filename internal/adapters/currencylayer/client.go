package currencylayer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikeoc61/currency-monitor/internal/apperrors"
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

const defaultBaseURL = "http://api.currencylayer.com"

// HTTPClient describes the subset of http.Client the quote source
// client needs, so tests can substitute a double.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the currencylayer web service. It implements
// ports.QuoteSource.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient HTTPClient
}

// Option is a configuration option for the currencylayer client.
type Option func(*Client)

// WithBaseURL overrides the service base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a currencylayer client for the given access key.
func NewClient(accessKey string, options ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// apiError is the provider's error object on success=false responses.
type apiError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// liveResponse mirrors the /live endpoint payload. Quotes decode into
// json.Number so the provider's exact decimal text reaches the
// normalizer without passing through binary floating point.
type liveResponse struct {
	Success   bool                   `json:"success"`
	Timestamp int64                  `json:"timestamp"`
	Source    string                 `json:"source"`
	Quotes    map[string]json.Number `json:"quotes"`
	Error     *apiError              `json:"error"`
}

// listResponse mirrors the /list endpoint payload.
type listResponse struct {
	Success    bool              `json:"success"`
	Currencies map[string]string `json:"currencies"`
	Error      *apiError         `json:"error"`
}

// FetchLive returns the latest quote table for the given currency
// codes, or for every supported currency when codes is empty.
func (c *Client) FetchLive(ctx context.Context, codes []string) (domain.QuoteTable, error) {
	query := url.Values{}
	if len(codes) > 0 {
		query.Set("currencies", strings.Join(codes, ","))
	}

	var payload liveResponse
	if err := c.get(ctx, "/live", query, &payload); err != nil {
		return domain.QuoteTable{}, err
	}
	if !payload.Success {
		return domain.QuoteTable{}, providerError(payload.Error)
	}

	table := domain.QuoteTable{
		AsOf:   payload.Timestamp,
		Quotes: make(map[string]string, len(payload.Quotes)),
	}
	for pair, raw := range payload.Quotes {
		table.Quotes[strings.ToUpper(pair)] = raw.String()
	}
	return table, nil
}

// FetchList returns the provider's code -> currency name listing.
func (c *Client) FetchList(ctx context.Context) (map[string]string, error) {
	var payload listResponse
	if err := c.get(ctx, "/list", url.Values{}, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, providerError(payload.Error)
	}
	return payload.Currencies, nil
}

// get performs one API call and decodes the JSON payload into out.
// Transport failures and non-200 statuses surface as
// apperrors.ErrSourceUnavailable.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("access_key", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", apperrors.ErrSourceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", apperrors.ErrSourceUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", apperrors.ErrSourceUnavailable, err)
	}
	return nil
}

func providerError(e *apiError) error {
	if e == nil {
		return fmt.Errorf("%w: provider reported failure without detail", apperrors.ErrSourceUnavailable)
	}
	return fmt.Errorf("%w: code %d (%s): %s", apperrors.ErrSourceUnavailable, e.Code, e.Type, e.Info)
}
