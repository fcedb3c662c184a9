package soracom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/api"
	"github.com/soracom-sdk/soracom-go/internal/logging"
)

// Credentials is the api key and token pair attached to authenticated requests.
type Credentials = api.Credentials

// Client talks to one SORACOM API endpoint on behalf of one operator.
// It is safe for concurrent use once authenticated.
type Client struct {
	apiClient    *api.Client
	logger       *zap.Logger
	tokenTimeout time.Duration

	mu         sync.RWMutex
	creds      *Credentials
	operatorID string
}

// NewClient creates an unauthenticated client for endpoint, a host name such
// as EndpointGlobal. Call Auth or AuthToken before issuing requests.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	cfg := newClientConfig(endpoint, opts)

	if cfg.tokenTimeout < time.Second || cfg.tokenTimeout > MaxTokenTimeout {
		return nil, fmt.Errorf("token timeout %s out of range [1s, %s]", cfg.tokenTimeout, MaxTokenTimeout)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient:    apiClient,
		logger:       cfg.logger.With(zap.String(logging.FieldEndpoint, apiClient.Endpoint())),
		tokenTimeout: cfg.tokenTimeout,
	}, nil
}

// Endpoint returns the API host.
func (c *Client) Endpoint() string {
	return c.apiClient.Endpoint()
}

// IsAuthenticated reports whether credentials are present.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.Valid()
}

// OperatorID returns the operator id issued by Auth. It is empty after AuthToken.
func (c *Client) OperatorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operatorID
}

// Credentials returns a copy of the current credentials.
func (c *Client) Credentials() (Credentials, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.creds == nil {
		return Credentials{}, false
	}
	return *c.creds, c.creds.Valid()
}

// Auth exchanges an auth key for an api key and token and stores them.
// On any non-200 response the client keeps its previous state.
func (c *Client) Auth(ctx context.Context, authKeyID, authKey string) error {
	resp, err := c.apiClient.Auth(ctx, &api.AuthRequest{
		AuthKeyID:           authKeyID,
		AuthKey:             authKey,
		TokenTimeoutSeconds: int(c.tokenTimeout / time.Second),
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind() == KindHTTP {
			c.logger.Warn("authentication rejected",
				zap.Int(logging.FieldStatus, apiErr.StatusCode),
				zap.String("body", apiErr.Body),
			)
		}
		return err
	}

	c.mu.Lock()
	c.creds = &Credentials{APIKey: resp.APIKey, Token: resp.Token}
	c.operatorID = resp.OperatorID
	c.mu.Unlock()

	c.logger.Debug("authenticated",
		zap.String(logging.FieldOperator, resp.OperatorID),
		zap.String("api_key", logging.MaskSecret(resp.APIKey)),
	)
	return nil
}

// AuthToken installs an api key and token obtained elsewhere, such as from
// a sandbox operator. No request is made.
func (c *Client) AuthToken(apiKey, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = &Credentials{APIKey: apiKey, Token: token}
	c.operatorID = ""
}

func (c *Client) credentials() (*Credentials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.creds.Valid() {
		return nil, ErrNotAuthenticated
	}
	creds := *c.creds
	return &creds, nil
}

// ListSubscribers returns the subscribers matching opts. A nil opts lists
// without filters. An empty result is an empty, non-nil slice.
func (c *Client) ListSubscribers(ctx context.Context, opts *ListSubscribersOptions) ([]Subscriber, error) {
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}

	rawQuery, _ := opts.QueryParams()
	dtos, err := c.apiClient.ListSubscribers(ctx, creds, rawQuery)
	if err != nil {
		return nil, err
	}

	subs := make([]Subscriber, 0, len(dtos))
	for i := range dtos {
		sub, err := subscriberFromDTO(&dtos[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// GetSubscriber returns the subscriber with the given IMSI.
// An unknown IMSI yields an HTTP error matching ErrNotFound.
func (c *Client) GetSubscriber(ctx context.Context, imsi string) (*Subscriber, error) {
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}
	if imsi == "" {
		return nil, ErrMissingIMSI
	}

	dto, err := c.apiClient.GetSubscriber(ctx, creds, imsi)
	if err != nil {
		return nil, err
	}
	return subscriberFromDTO(dto)
}

// RegisterSubscriber registers a SIM to the authenticated operator.
// Only IMSI, RegistrationSecret, GroupID and Tags are used.
func (c *Client) RegisterSubscriber(ctx context.Context, reg *SubscriberRegistration) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("register subscriber: registration is nil")
	}
	if reg.IMSI == "" {
		return ErrMissingIMSI
	}

	err = c.apiClient.RegisterSubscriber(ctx, creds, reg.IMSI, &api.RegisterSubscriberRequest{
		RegistrationSecret: reg.RegistrationSecret,
		GroupID:            reg.GroupID,
		Tags:               reg.Tags,
	})
	if err != nil {
		return err
	}

	c.logger.Debug("subscriber registered", zap.String(logging.FieldIMSI, logging.MaskIMSI(reg.IMSI)))
	return nil
}
