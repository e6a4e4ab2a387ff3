// Package api is the HTTP client the CLI uses to drive the main application API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/LangHelper/internal/models"
)

// DefaultTimeout bounds a single API call. Quiz and feedback calls wait on the
// completion backend, so it is generous.
const DefaultTimeout = 60 * time.Second

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Session is the answer to register and login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
	Imported  int          `json:"imported"`
}

// AddWordResult is the answer to adding a word.
type AddWordResult struct {
	models.AddResult
	Message string `json:"message"`
}

// RemoveWordResult is the answer to removing a word.
type RemoveWordResult struct {
	models.RemoveResult
	Message string `json:"message"`
}

// Client talks to one API server. It is not safe to change the token while
// requests are in flight.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New returns a Client for baseURL. A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken sets the bearer token sent with authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and opens a session for it.
func (c *Client) Register(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/register", credentials{username, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Login opens a session for an existing account.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/login", credentials{username, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Settings returns the current user's profile.
func (c *Client) Settings(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateSettings changes the non-empty fields of s and returns the updated profile.
func (c *Client) UpdateSettings(ctx context.Context, s models.Settings) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/api/settings", s, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Words lists the vocabulary, optionally only the starred entries.
func (c *Client) Words(ctx context.Context, starredOnly bool) ([]models.VocabularyEntry, error) {
	path := "/api/vocabulary"
	if starredOnly {
		path += "?" + url.Values{"starred": {"true"}}.Encode()
	}
	var entries []models.VocabularyEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddWord adds a word. A duplicate is not an error; see AddWordResult.Added.
func (c *Client) AddWord(ctx context.Context, word string) (*AddWordResult, error) {
	var res AddWordResult
	if err := c.do(ctx, http.MethodPost, "/api/vocabulary", map[string]string{"word": word}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RemoveWord deletes the entry with the given id.
func (c *Client) RemoveWord(ctx context.Context, id int64) (*RemoveWordResult, error) {
	var res RemoveWordResult
	if err := c.do(ctx, http.MethodDelete, entryPath(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ToggleStar flips the starred flag of an entry and returns the new value.
func (c *Client) ToggleStar(ctx context.Context, id int64) (bool, error) {
	var res struct {
		Starred bool `json:"starred"`
	}
	if err := c.do(ctx, http.MethodPost, entryPath(id)+"/star", nil, &res); err != nil {
		return false, err
	}
	return res.Starred, nil
}

// Import pulls words from the extension list into the vocabulary.
func (c *Client) Import(ctx context.Context) (int, error) {
	var res struct {
		Imported int `json:"imported"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/vocabulary/import", nil, &res); err != nil {
		return 0, err
	}
	return res.Imported, nil
}

// Quiz asks for a question about a random starred word.
func (c *Client) Quiz(ctx context.Context) (models.Quiz, error) {
	var q models.Quiz
	err := c.do(ctx, http.MethodPost, "/api/quiz", nil, &q)
	return q, err
}

// QuizFeedback grades an answer to q.
func (c *Client) QuizFeedback(ctx context.Context, q models.Quiz, answer string) (string, error) {
	body := map[string]string{"word": q.Word, "question": q.Question, "answer": answer}
	return c.feedback(ctx, "/api/quiz/feedback", body)
}

// WritingFeedback reviews free text.
func (c *Client) WritingFeedback(ctx context.Context, text string) (string, error) {
	return c.feedback(ctx, "/api/writing/feedback", map[string]string{"text": text})
}

func (c *Client) feedback(ctx context.Context, path string, body any) (string, error) {
	var res struct {
		Feedback string `json:"feedback"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return "", err
	}
	return res.Feedback, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func entryPath(id int64) string {
	return "/api/vocabulary/" + strconv.FormatInt(id, 10)
}
