package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://api.local/", &http.Client{Transport: fn})
}

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestLogin(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "http://api.local/api/login", req.URL.String())
		assert.Empty(t, req.Header.Get("Authorization"))

		var got credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		assert.Equal(t, credentials{"ana", "pw"}, got)
		return response(http.StatusOK, `{"token":"tok","user":{"id":3,"username":"ana"},"imported":2}`), nil
	})

	s, err := c.Login(context.Background(), "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, int64(3), s.User.ID)
	assert.Equal(t, 2, s.Imported)
}

func TestAuthorizedCalls(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		body       string
	}{
		{
			name: "words starred",
			call: func(c *Client) error {
				entries, err := c.Words(context.Background(), true)
				if err == nil {
					assert.Len(t, entries, 1)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/vocabulary?starred=true",
			body:       `[{"id":1,"word":"gato","starred":true}]`,
		},
		{
			name: "toggle star",
			call: func(c *Client) error {
				starred, err := c.ToggleStar(context.Background(), 9)
				assert.True(t, starred)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/vocabulary/9/star",
			body:       `{"id":9,"starred":true}`,
		},
		{
			name: "remove",
			call: func(c *Client) error {
				res, err := c.RemoveWord(context.Background(), 9)
				if err == nil {
					assert.Equal(t, "gato", res.Word)
					assert.True(t, res.Sync.OK)
				}
				return err
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/api/vocabulary/9",
			body:       `{"word":"gato","removed":true,"sync":{"attempted":true,"ok":true},"message":"'gato' has been removed!"}`,
		},
		{
			name: "import",
			call: func(c *Client) error {
				n, err := c.Import(context.Background())
				assert.Equal(t, 4, n)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/vocabulary/import",
			body:       `{"imported":4}`,
		},
		{
			name: "logout",
			call: func(c *Client) error {
				return c.Logout(context.Background())
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/logout",
			body:       `{"status":"ok"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, tc.wantMethod, req.Method)
				assert.Equal(t, tc.wantPath, req.URL.RequestURI())
				assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
				return response(http.StatusOK, tc.body), nil
			})
			c.SetToken("tok")
			require.NoError(t, tc.call(c))
		})
	}
}

func TestAddWord_Warning(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusCreated, `{"entry":{"id":5,"word":"luna"},"added":true,
			"sync":{"attempted":true,"ok":false,"warning":"Failed to sync with vocabulary server"},
			"message":"Added 'luna' to your vocabulary!"}`), nil
	})

	res, err := c.AddWord(context.Background(), "luna")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, int64(5), res.Entry.ID)
	assert.Equal(t, "Failed to sync with vocabulary server", res.Sync.Warning)
	assert.Equal(t, "Added 'luna' to your vocabulary!", res.Message)
}

func TestQuizFeedback_SendsQuiz(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/quiz/feedback", req.URL.Path)
		var got map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		assert.Equal(t, map[string]string{"word": "gato", "question": "Q", "answer": "A"}, got)
		return response(http.StatusOK, `{"feedback":"Good"}`), nil
	})

	fb, err := c.QuizFeedback(context.Background(), models.Quiz{Word: "gato", Question: "Q"}, "A")
	require.NoError(t, err)
	assert.Equal(t, "Good", fb)
}

func TestStatusErrors(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusConflict, "no starred words\n"), nil
	})

	_, err := c.Quiz(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.False(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "server returned 409: no starred words", err.Error())
}

func TestNetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Settings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, IsStatus(err, http.StatusInternalServerError))
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `not json`), nil
	})

	_, err := c.Register(context.Background(), "ana", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
