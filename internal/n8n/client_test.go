package n8n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/n8n-timings/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.Config{
		BaseURL:      srv.URL,
		APIKey:       "secret",
		Timeout:      5 * time.Second,
		RetryTimeout: time.Second,
		LogFormat:    "text",
	}, nil)
	require.NoError(t, err)
	return client
}

func TestFetchExecution(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/executions/4821", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("includeData"))
		assert.Equal(t, "secret", r.Header.Get("X-N8N-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"4821","data":{"resultData":{"runData":{}}}}`))
	})

	body, err := client.FetchExecution(context.Background(), "4821")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"4821","data":{"resultData":{"runData":{}}}}`, string(body))
}

func TestFetchExecutionNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})

	_, err := client.FetchExecution(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Contains(t, err.Error(), "execution 9 not found")
}

func TestFetchExecutionServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchExecution(context.Background(), "9")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.NotFound))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Body)
}

func TestFetchExecutionEmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.FetchExecution(context.Background(), " ")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(&config.Config{BaseURL: "https://n8n.example.com", LogFormat: "text"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestRetriable(t *testing.T) {
	ctx := context.Background()
	assert.True(t, retriable(ctx, &StatusError{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, retriable(ctx, &StatusError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, retriable(ctx, &StatusError{StatusCode: http.StatusNotFound}))
	assert.False(t, retriable(ctx, errors.New("dial tcp: refused")))
}
