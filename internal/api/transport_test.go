package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soracom-sdk/soracom-go/internal/apierrors"
)

func TestRestyTransport_Send(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v", r.Header.Get("X-Test"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(body))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer server.Close()

	tr := NewRestyTransport(TransportConfig{HTTPClient: server.Client()})
	resp, err := tr.Send(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    server.URL + "/x",
		Header: http.Header{"X-Test": []string{"v"}},
		Body:   []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", string(resp.Body))
}

func TestRestyTransport_DoesNotInterpretStatus(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	tr := NewRestyTransport(TransportConfig{HTTPClient: server.Client()})
	resp, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "boom", string(resp.Body))
}

func TestRestyTransport_Timeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	tr := NewRestyTransport(TransportConfig{HTTPClient: server.Client(), Timeout: 20 * time.Millisecond})
	_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindTransport))
}

func TestRestyTransport_CircuitBreakerOpens(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	httpClient := server.Client()
	server.Close()

	tr := NewRestyTransport(TransportConfig{
		HTTPClient:       httpClient,
		BreakerThreshold: 2,
		BreakerTimeout:   time.Minute,
	})
	assert.Equal(t, gobreaker.StateClosed, tr.BreakerState())

	for i := 0; i < 2; i++ {
		_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: url})
		require.Error(t, err)
		assert.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}
	assert.Equal(t, gobreaker.StateOpen, tr.BreakerState())

	_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: url})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.True(t, apierrors.IsKind(err, apierrors.KindTransport))
}

func TestRestyTransport_BreakerIgnoresHTTPStatus(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tr := NewRestyTransport(TransportConfig{HTTPClient: server.Client(), BreakerThreshold: 1})
	for i := 0; i < 3; i++ {
		resp, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, tr.BreakerState())
}

func TestNewRestyTransport_LeavesCallerClientUntouched(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}

	tr := NewRestyTransport(TransportConfig{HTTPClient: hc, Timeout: 30 * time.Second})
	require.NotNil(t, tr)
	assert.Equal(t, 5*time.Second, hc.Timeout)
}

func TestNewRestyTransport_TimeoutAppliesToCopy(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	hc := server.Client()
	tr := NewRestyTransport(TransportConfig{HTTPClient: hc, Timeout: 20 * time.Millisecond})
	_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindTransport))
	assert.Zero(t, hc.Timeout)
}
