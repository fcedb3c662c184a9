package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/apierrors"
	"github.com/soracom-sdk/soracom-go/internal/logging"
)

// SORACOM credential headers.
const (
	HeaderAPIKey      = "X-Soracom-API-Key"
	HeaderToken       = "X-Soracom-Token"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Credentials is the api key and token pair issued by /v1/auth or /v1/sandbox/init.
type Credentials struct {
	APIKey string
	Token  string
}

// Valid reports whether both halves are present.
func (c *Credentials) Valid() bool {
	return c != nil && c.APIKey != "" && c.Token != ""
}

// Client is the HTTP API client bound to one endpoint.
type Client struct {
	endpoint  string
	transport Transport
	logger    *zap.Logger
}

// Option configures the API client.
type Option func(*Client)

// WithTransport sets the transport used to send requests.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a new API client for endpoint, a plain host name such as
// "api.soracom.io". An https:// prefix or trailing slash is tolerated; any
// other scheme, path, query or fragment is a URL parse error.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, apierrors.ErrMissingEndpoint
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint: endpoint,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(TransportConfig{Logger: c.logger})
	}

	return c, nil
}

// validateEndpoint requires endpoint to parse as exactly the host of an https URL.
func validateEndpoint(endpoint string) error {
	raw := "https://" + endpoint
	u, err := url.Parse(raw)
	if err != nil {
		return apierrors.NewURLParseError(err)
	}
	if u.Host != endpoint || u.User != nil || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return apierrors.NewURLParseError(&url.Error{
			Op:  "parse",
			URL: raw,
			Err: fmt.Errorf("endpoint %q is not a bare host", endpoint),
		})
	}
	return nil
}

// Endpoint returns the host the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// BuildURL assembles https://{endpoint}{path}[?query].
func (c *Client) BuildURL(path, rawQuery string) (string, error) {
	raw := "https://" + c.endpoint + path
	if rawQuery != "" {
		raw += "?" + rawQuery
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", apierrors.NewURLParseError(err)
	}
	if u.Host == "" {
		return "", apierrors.NewURLParseError(&url.Error{Op: "parse", URL: raw, Err: errors.New("missing host")})
	}
	return u.String(), nil
}

// Call describes one API request.
type Call struct {
	Method      string
	Path        string
	Query       string
	Credentials *Credentials
	Body        any
	// LogPath replaces Path in log lines when the path carries an identifier.
	LogPath string
}

// Do sends call and decodes a 200 response body into result. A nil result
// discards the body. Any other status becomes an HTTP error carrying the raw body.
func (c *Client) Do(ctx context.Context, call Call, result any) error {
	target, err := c.BuildURL(call.Path, call.Query)
	if err != nil {
		return err
	}

	var body []byte
	if call.Body != nil {
		body, err = json.Marshal(call.Body)
		if err != nil {
			return apierrors.NewDecodeError(err)
		}
	}

	header := make(http.Header)
	header.Set(HeaderContentType, ContentTypeJSON)
	header.Set("Accept", ContentTypeJSON)
	if call.Credentials != nil {
		header.Set(HeaderAPIKey, call.Credentials.APIKey)
		header.Set(HeaderToken, call.Credentials.Token)
	}

	logPath := call.LogPath
	if logPath == "" {
		logPath = call.Path
	}
	log := c.logger.With(
		zap.String(logging.FieldRequestID, uuid.NewString()),
		zap.String(logging.FieldMethod, call.Method),
		zap.String(logging.FieldPath, logPath),
	)

	start := time.Now()
	resp, err := c.transport.Send(ctx, &Request{
		Method: call.Method,
		URL:    target,
		Header: header,
		Body:   body,
	})
	latency := time.Since(start).Milliseconds()
	if err != nil {
		log.Debug("api request failed", zap.Error(err), zap.Int64(logging.FieldLatencyMS, latency))
		var apiErr *apierrors.Error
		if errors.As(err, &apiErr) {
			return err
		}
		return apierrors.NewTransportError(err)
	}

	log.Debug("api request",
		zap.Int(logging.FieldStatus, resp.StatusCode),
		zap.Int64(logging.FieldLatencyMS, latency),
	)

	if resp.StatusCode != http.StatusOK {
		return apierrors.NewHTTPError(resp.StatusCode, string(resp.Body))
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return apierrors.NewDecodeError(err)
		}
	}

	return nil
}
