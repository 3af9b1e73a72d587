package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shareit/internal/converter"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

const searchCachePrefix = "shareit:search:"

// Client calls the shareit REST API on behalf of a user.
type Client struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// NewClient constructs a client with baseURL, API key and extra header.
func NewClient(baseURL, apiKey, apiExtra string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiExtra:   apiExtra,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache enables caching of item search results.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

func (c *Client) CreateBooking(ctx context.Context, userID int64, req converter.BookingRequest) (*converter.BookingDTO, error) {
	var out converter.BookingDTO
	if err := c.do(ctx, http.MethodPost, "/bookings", userID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*converter.BookingDTO, error) {
	path := fmt.Sprintf("/bookings/%d?approved=%s", bookingID, strconv.FormatBool(approved))
	var out converter.BookingDTO
	if err := c.do(ctx, http.MethodPatch, path, ownerID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, userID, bookingID int64) (*converter.BookingDTO, error) {
	var out converter.BookingDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", bookingID), userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context, userID int64, state models.StateFilter) ([]converter.BookingDTO, error) {
	return c.listBookings(ctx, "/bookings", userID, state)
}

func (c *Client) ListOwnerBookings(ctx context.Context, ownerID int64, state models.StateFilter) ([]converter.BookingDTO, error) {
	return c.listBookings(ctx, "/bookings/owner", ownerID, state)
}

func (c *Client) listBookings(ctx context.Context, path string, userID int64, state models.StateFilter) ([]converter.BookingDTO, error) {
	if state != "" {
		path += "?state=" + url.QueryEscape(string(state))
	}
	out := []converter.BookingDTO{}
	if err := c.do(ctx, http.MethodGet, path, userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetItem(ctx context.Context, userID, itemID int64) (*converter.ItemWithBookingsDTO, error) {
	var out converter.ItemWithBookingsDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%d", itemID), userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchItems finds available items; results are served from Redis when caching is on.
func (c *Client) SearchItems(ctx context.Context, userID int64, text string) ([]converter.ItemDTO, error) {
	cacheKey := searchCachePrefix + text
	out := []converter.ItemDTO{}

	if c.readCache(ctx, cacheKey, &out) {
		return out, nil
	}

	if err := c.do(ctx, http.MethodGet, "/items/search?text="+url.QueryEscape(text), userID, nil, &out); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, out)
	return out, nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) do(ctx context.Context, method, path string, userID int64, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(models.HeaderUserID, strconv.FormatInt(userID, 10))
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set("x-api-extra", c.apiExtra)
	}
}
