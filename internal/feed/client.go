package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// PerPage is the fixed page size requested from the feed. A page shorter than
// this signals end-of-feed.
const PerPage = 50

type Client struct {
	baseURL    string
	storeID    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a feed client. The user agent is mandatory: the platform
// rejects anonymous API consumers.
func NewClient(baseURL, storeID, token, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		storeID:   storeID,
		token:     token,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// two pages per second keeps us well under the platform's limit
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

// pageEnvelope covers the wrapped response shape; some platform versions
// return a bare array instead.
type pageEnvelope struct {
	Result []RawProduct `json:"result"`
}

// FetchAll pages through the complete product feed and returns every record.
// Any non-2xx page or transport failure aborts the whole fetch: the caller
// records the error on the sync run rather than working with a partial list.
func (c *Client) FetchAll(ctx context.Context) ([]RawProduct, error) {
	var products []RawProduct
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		batch, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		products = append(products, batch...)
		if len(batch) < PerPage {
			break
		}
	}
	return products, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]RawProduct, error) {
	url := fmt.Sprintf("%s/%s/products?page=%d&per_page=%d", c.baseURL, c.storeID, page, PerPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch error: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed page %d: %w", page, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("feed API error: %d - %s", res.StatusCode, bytes.TrimSpace(body))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []RawProduct
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decoding feed page %d: %w", page, err)
		}
		return batch, nil
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decoding feed page %d: %w", page, err)
	}
	return envelope.Result, nil
}
