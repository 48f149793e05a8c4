package restclient

import (
	"fmt"
	"net/http"
	"time"
)

// Request is one HTTP call. Body is kept as bytes so it can be replayed on retry.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Request    *Request
}

type Config struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	RetryMaxAttempts    int
	RetryBackoff        time.Duration
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
