package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/apierrors"
)

// Request is a fully assembled HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw outcome of a request. StatusCode is not interpreted.
type Response struct {
	StatusCode int
	Body       []byte
}

//go:generate mockgen -source=transport.go -destination=../mocks/mock_transport.go -package=mocks

// Transport sends a request and returns the raw response. Implementations
// return an error only for network-level failures.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// DefaultBreakerTimeout is how long an open breaker waits before probing.
const DefaultBreakerTimeout = 30 * time.Second

// TransportConfig configures the resty-backed transport.
type TransportConfig struct {
	// HTTPClient is used as the underlying client when set.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero keeps the HTTP client's own timeout.
	Timeout time.Duration
	// BreakerThreshold enables the circuit breaker when > 0: that many
	// consecutive transport failures open it for BreakerTimeout.
	BreakerThreshold uint32
	BreakerTimeout   time.Duration
	// Logger receives breaker state changes.
	Logger *zap.Logger
}

// RestyTransport is the default Transport.
type RestyTransport struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker
}

// NewRestyTransport creates a transport from cfg.
func NewRestyTransport(cfg TransportConfig) *RestyTransport {
	var rc *resty.Client
	if cfg.HTTPClient != nil {
		// resty writes Timeout into the client it wraps; keep the caller's untouched.
		hc := *cfg.HTTPClient
		rc = resty.NewWithClient(&hc)
	} else {
		rc = resty.New()
	}
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	t := &RestyTransport{client: rc}
	if cfg.BreakerThreshold > 0 {
		t.cb = newBreaker(cfg)
	}
	return t
}

func newBreaker(cfg TransportConfig) *gobreaker.CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	threshold := cfg.BreakerThreshold

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "soracom-api",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a canceled caller is not a remote failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Warn("circuit breaker opened", zap.String("cb_name", name))
			case gobreaker.StateHalfOpen:
				logger.Info("circuit breaker half-open", zap.String("cb_name", name))
			case gobreaker.StateClosed:
				logger.Info("circuit breaker closed", zap.String("cb_name", name))
			}
		},
	})
}

// BreakerState reports the circuit breaker state, or StateClosed when disabled.
func (t *RestyTransport) BreakerState() gobreaker.State {
	if t.cb == nil {
		return gobreaker.StateClosed
	}
	return t.cb.State()
}

// Send implements Transport.
func (t *RestyTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	if t.cb == nil {
		return t.send(ctx, req)
	}

	result, err := t.cb.Execute(func() (interface{}, error) {
		return t.send(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apierrors.NewTransportError(err)
		}
		return nil, err
	}
	return result.(*Response), nil
}

func (t *RestyTransport) send(ctx context.Context, req *Request) (*Response, error) {
	r := t.client.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header)
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, apierrors.NewTransportError(err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
