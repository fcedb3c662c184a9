package soracom

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/api"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultTokenTimeout = 60 * time.Second
)

// MaxTokenTimeout is the longest token lifetime /v1/auth accepts.
const MaxTokenTimeout = 86400 * time.Second

// Transport sends one fully built request and returns the raw response.
// Implementations must not interpret the status code.
type Transport = api.Transport

// Request is a single outgoing API request.
type Request = api.Request

// Response is the status and body of an API response.
type Response = api.Response

// clientConfig holds configuration for the client.
type clientConfig struct {
	endpoint     string
	httpClient   *http.Client
	transport    Transport
	timeout      time.Duration
	logger       *zap.Logger
	tokenTimeout time.Duration

	breakerThreshold uint32
	breakerTimeout   time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

func newClientConfig(endpoint string, opts []Option) *clientConfig {
	cfg := &clientConfig{
		endpoint:     endpoint,
		timeout:      defaultTimeout,
		tokenTimeout: defaultTokenTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithEndpoint overrides the API host. NewSandboxClient uses it in place of EndpointSandbox.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client. Ignored when WithTransport is given.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
// Default: 30 seconds. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithTransport replaces the HTTP transport entirely, typically with a test double.
func WithTransport(t Transport) Option {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTokenTimeout sets the token lifetime requested by Auth.
// The value is sent in whole seconds. Default: 60 seconds.
func WithTokenTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.tokenTimeout = timeout
	}
}

// WithCircuitBreaker opens the circuit after threshold consecutive transport
// failures and keeps it open for timeout before probing again.
// HTTP error statuses never count as failures.
func WithCircuitBreaker(threshold uint32, timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.breakerThreshold = threshold
		c.breakerTimeout = timeout
	}
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	transport := cfg.transport
	if transport == nil {
		transport = api.NewRestyTransport(api.TransportConfig{
			HTTPClient:       cfg.httpClient,
			Timeout:          cfg.timeout,
			BreakerThreshold: cfg.breakerThreshold,
			BreakerTimeout:   cfg.breakerTimeout,
			Logger:           cfg.logger,
		})
	}

	return api.New(cfg.endpoint,
		api.WithTransport(transport),
		api.WithLogger(cfg.logger),
	)
}
