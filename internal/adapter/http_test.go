package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealHTTPClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"name":"corduroy"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second)
	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"corduroy"}`, string(body))
}

func TestRealHTTPClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second)
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRealHTTPClient_PostJSONRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := &RealHTTPClient{client: &http.Client{Timeout: time.Second}, maxElapsedTime: 30 * time.Second}
	body, err := client.PostJSON(context.Background(), srv.URL, map[string]string{"Authorization": "Bearer jwt"}, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRealHTTPClient_GetRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name":"corduroy"}`))
	}))
	defer srv.Close()

	client := &RealHTTPClient{client: &http.Client{Timeout: time.Second}, maxElapsedTime: 30 * time.Second}
	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"corduroy"}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRealHTTPClient_ServerErrorAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &RealHTTPClient{client: &http.Client{Timeout: time.Second}, maxElapsedTime: time.Millisecond}
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}
