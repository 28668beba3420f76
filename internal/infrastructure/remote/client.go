package remote

import (
	"bytes"
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
)

const (
	maxResponseBytes = 2 << 20
	maxErrorBytes    = 1 << 10
	dateLayout       = "2006-01-02"
)

// TokenSource returns the bearer token for the signed-in user, or "" when signed out
type TokenSource func() string

// Client talks to the user backend that mirrors meal, favorites and food log state.
// It implements domain.RemoteStore.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource
	debug      bool
}

// NewClient creates a remote store client
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type currentMealBody struct {
	CurrentMeal []domain.MealItem `json:"currentMeal"`
}

type favoritesBody struct {
	Favorites []int `json:"favorites"`
}

// GetCurrentMeal fetches the stored in-progress meal. A user with no stored meal gets an empty slice.
func (c *Client) GetCurrentMeal(ctx context.Context, userID string) ([]domain.MealItem, error) {
	var items []domain.MealItem
	if err := c.do(ctx, http.MethodGet, "/user/current-meal", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MealItem{}
	}
	return items, nil
}

// PutCurrentMeal replaces the stored in-progress meal
func (c *Client) PutCurrentMeal(ctx context.Context, userID string, items []domain.MealItem) error {
	if items == nil {
		items = []domain.MealItem{}
	}
	return c.do(ctx, http.MethodPut, "/user/current-meal", currentMealBody{CurrentMeal: items}, nil)
}

// GetFavorites fetches the user's favorite food ids
func (c *Client) GetFavorites(ctx context.Context, userID string) ([]int, error) {
	var ids []int
	if err := c.do(ctx, http.MethodGet, "/user/favorites", nil, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// PutFavorites replaces the user's favorite food ids
func (c *Client) PutFavorites(ctx context.Context, userID string, foodIDs []int) error {
	if foodIDs == nil {
		foodIDs = []int{}
	}
	return c.do(ctx, http.MethodPut, "/user/favorites", favoritesBody{Favorites: foodIDs}, nil)
}

// CreateConsumedMeal logs a meal for the user
func (c *Client) CreateConsumedMeal(ctx context.Context, userID string, req domain.ConsumedMealRequest) (*domain.ConsumedMeal, error) {
	var meal domain.ConsumedMeal
	path := "/consumedmeal/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodPost, path, req, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListConsumedMeals lists the user's logged meals, restricted to one calendar day when date is set
func (c *Client) ListConsumedMeals(ctx context.Context, userID string, date *time.Time) ([]domain.ConsumedMeal, error) {
	path := "/consumedmeal/user/" + url.PathEscape(userID)
	if date != nil {
		path += "/date/" + date.Format(dateLayout)
	}

	var meals []domain.ConsumedMeal
	if err := c.do(ctx, http.MethodGet, path, nil, &meals); err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.ConsumedMeal{}
	}
	return meals, nil
}

// DeleteConsumedMeal removes a logged meal
func (c *Client) DeleteConsumedMeal(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/consumedmeal/"+strconv.FormatInt(id, 10), nil, nil)
}

// do sends a JSON request and decodes a JSON response into dest when dest is non-nil
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		log.Printf("[API] %s %s", method, path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteStoreFailure, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s %s returned %d", domain.ErrNotAuthenticated, method, path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return fmt.Errorf("%w: %s %s returned %d: %s", domain.ErrRemoteStoreFailure, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if dest == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", domain.ErrRemoteStoreFailure, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrRemoteStoreFailure, err)
	}
	return nil
}
