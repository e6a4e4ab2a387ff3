package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_Success(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  ¿Qué hace el gato?  "}}]}`))
	}))
	defer srv.Close()

	c := New("sk-test", WithURL(srv.URL))
	reply, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "tutor"},
		{Role: "user", Content: "ask"},
	})
	require.NoError(t, err)
	assert.Equal(t, "¿Qué hace el gato?", reply)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"bad json", http.StatusOK, `not json`},
		{"bad status", http.StatusBadGateway, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", WithURL(srv.URL)).Complete(context.Background(), nil)
			assert.Error(t, err)
		})
	}
}

func TestComplete_NotConfigured(t *testing.T) {
	c := New("")
	assert.False(t, c.Configured())
	_, err := c.Complete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestComplete_ModelOverride(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := New("k", WithURL(srv.URL), WithModel("gpt-4o-mini"), WithRateLimit(100, 1)).
		Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}
