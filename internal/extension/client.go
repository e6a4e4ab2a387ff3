// Package extension is the HTTP client of the extension-side word list service.
package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every call made to the list service.
const DefaultTimeout = 5 * time.Second

// StatusError is returned when the list service answers with anything but 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("list service returned %d: %s", e.Code, e.Body)
}

type wordRequest struct {
	Word   string `json:"word"`
	UserID int64  `json:"user_id"`
}

// Client calls the list service's /api/vocabulary endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a Client for baseURL. A non-positive timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// AddWord mirrors a newly added word.
func (c *Client) AddWord(ctx context.Context, userID int64, word string) error {
	return c.send(ctx, http.MethodPost, userID, word)
}

// RemoveWord mirrors a deleted word.
func (c *Client) RemoveWord(ctx context.Context, userID int64, word string) error {
	return c.send(ctx, http.MethodDelete, userID, word)
}

// ListWords fetches the user's list. Items that are not strings are dropped.
func (c *Client) ListWords(ctx context.Context, userID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	words := make([]string, 0, len(items))
	for _, raw := range items {
		var v any
		if json.Unmarshal(raw, &v) != nil {
			continue
		}
		if w, ok := v.(string); ok {
			words = append(words, w)
		}
	}
	return words, nil
}

func (c *Client) send(ctx context.Context, method string, userID int64, word string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(wordRequest{Word: word, UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s word: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) endpoint() string {
	return c.baseURL + "/api/vocabulary"
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
