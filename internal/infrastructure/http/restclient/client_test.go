package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_RetriesServerErrors(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer server.Close()
	client := NewClient(Config{RetryMaxAttempts: 2, RetryBackoff: time.Millisecond})

	// Act
	resp, err := client.Get(context.Background(), server.URL, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Do_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	client := NewClient(Config{RetryMaxAttempts: 3, RetryBackoff: time.Millisecond})

	resp, err := client.Get(context.Background(), server.URL, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	client := NewClient(Config{RetryMaxAttempts: 1, RetryBackoff: time.Millisecond})

	_, err := client.Get(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestClient_Do_HeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()
	client := NewClient(Config{})

	resp, err := client.Post(context.Background(), server.URL, map[string]string{"apikey": "secret"}, []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
