package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	maxResponseBytes = 5 << 20 // food detail payloads can be large
	maxErrorBytes    = 1 << 10
	baseBackoff      = 500 * time.Millisecond
)

// defaultDataTypes are searched when the caller does not filter by type
var defaultDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)", "Branded"}

// Client handles communication with the USDA FoodData Central API.
// It implements domain.FoodLookup.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string) *Client {
	// USDA allows 1000 requests per hour
	// rate.Limit is requests per second, so 1000/3600 ≈ 0.278 requests/sec
	return NewClientWithLimit(apiKey, baseURL, 1000)
}

// NewClientWithLimit creates a client allowing requestsPerHour requests
func NewClientWithLimit(apiKey, baseURL string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[USDA] "+format, args...)
	}
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query domain.SearchQuery) ([]domain.FoodSearchResult, error) {
	c.debugLog("SearchFoods called with query: %q", query.Query)

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	dataTypes := query.DataTypes
	if len(dataTypes) == 0 {
		dataTypes = defaultDataTypes
	}

	params := url.Values{}
	params.Add("query", query.Query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", strings.Join(dataTypes, ","))
	params.Add("pageSize", strconv.Itoa(limit))
	params.Add("pageNumber", strconv.Itoa(query.Offset/limit+1))
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		log.Printf("[USDA] Search failed for query %q: %v", query.Query, err)
		return nil, err
	}

	var searchResp fdcSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		log.Printf("[USDA] JSON decode error: %v", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.debugLog("Found %d foods (total hits %d) for query: %q", len(searchResp.Foods), searchResp.TotalHits, query.Query)
	return mapSearchResults(searchResp.Foods), nil
}

// GetFoodDetails retrieves nutrients and portions for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID int) (*domain.FoodRecord, error) {
	c.debugLog("GetFoodDetails called with id: %d", fdcID)

	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%d?%s", c.baseURL, fdcID, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var food fdcFood
	if err := json.Unmarshal(body, &food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return MapToFoodRecord(&food), nil
}

// getWithRetry executes a GET, retrying network errors, 429 and 5xx responses
// with exponential backoff. A 404 maps to ErrFoodNotFound; other 4xx fail at once.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Calcthie/1.0")
	req.Header.Set("Accept", "application/json")

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Printf("[USDA] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err := readLimitedBody(resp.Body, maxResponseBytes)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: read body: %v", domain.ErrUSDAAPIFailure, err)
			}
			return body, nil
		}

		body, _ := readLimitedBody(resp.Body, maxErrorBytes)
		resp.Body.Close()
		c.debugLog("API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrFoodNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
		}
	}

	log.Printf("[USDA] All %d attempts failed", maxAttempts)
	return nil, lastErr
}

// doRequest executes a prepared request
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req.Clone(req.Context()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}
	return resp, nil
}

// exponentialBackoff returns the wait before retry number attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return baseBackoff * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
