package soracom

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/soracom-sdk/soracom-go/internal/api"
	"github.com/soracom-sdk/soracom-go/internal/logging"
)

// SandboxInitCredential is the production account used to create a sandbox operator.
type SandboxInitCredential struct {
	Email     string
	Password  string
	AuthKeyID string
	AuthKey   string
}

// SandboxToken identifies a sandbox operator and authenticates requests made as it.
type SandboxToken struct {
	OperatorID string
	APIKey     string
	Token      string
}

func (t *SandboxToken) credentials() *Credentials {
	return &Credentials{APIKey: t.APIKey, Token: t.Token}
}

// SandboxClient drives the API sandbox: creating disposable operators,
// minting test SIMs and deleting operators again.
type SandboxClient struct {
	apiClient *api.Client
	logger    *zap.Logger
	opts      []Option

	mu    sync.RWMutex
	token *SandboxToken
}

// NewSandboxClient creates a client for EndpointSandbox, or for the host
// given with WithEndpoint.
func NewSandboxClient(opts ...Option) (*SandboxClient, error) {
	opts = append([]Option{WithEndpoint(EndpointSandbox)}, opts...)
	cfg := newClientConfig("", opts)

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &SandboxClient{
		apiClient: apiClient,
		logger:    cfg.logger.With(zap.String(logging.FieldEndpoint, apiClient.Endpoint())),
		opts:      opts,
	}, nil
}

// Endpoint returns the sandbox API host.
func (s *SandboxClient) Endpoint() string {
	return s.apiClient.Endpoint()
}

// Token returns the token stored by the last successful Init, or nil.
func (s *SandboxClient) Token() *SandboxToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// UseToken installs a token from an earlier Init, typically one made by
// another process. A nil token returns the client to its uninitialized state.
func (s *SandboxClient) UseToken(token *SandboxToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == nil {
		s.token = nil
		return
	}
	t := *token
	s.token = &t
}

// Init creates a sandbox operator linked to cred and stores its token.
// Calling Init again replaces the stored token; the earlier operator is left in place.
func (s *SandboxClient) Init(ctx context.Context, cred *SandboxInitCredential) (*SandboxToken, error) {
	if cred == nil {
		cred = &SandboxInitCredential{}
	}
	resp, err := s.apiClient.SandboxInit(ctx, &api.SandboxInitRequest{
		Email:     cred.Email,
		Password:  cred.Password,
		AuthKeyID: cred.AuthKeyID,
		AuthKey:   cred.AuthKey,
	})
	if err != nil {
		return nil, err
	}

	token := &SandboxToken{
		OperatorID: resp.OperatorID,
		APIKey:     resp.APIKey,
		Token:      resp.Token,
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("sandbox operator created", zap.String(logging.FieldOperator, token.OperatorID))

	t := *token
	return &t, nil
}

// CreateSubscriber mints a new unregistered sandbox SIM owned by the
// initialized operator.
func (s *SandboxClient) CreateSubscriber(ctx context.Context) (*SubscriberRegistration, error) {
	token := s.Token()
	if token == nil {
		return nil, ErrSandboxNotInitialized
	}

	dto, err := s.apiClient.SandboxCreateSubscriber(ctx, token.credentials())
	if err != nil {
		return nil, err
	}

	s.logger.Debug("sandbox subscriber created", zap.String(logging.FieldIMSI, logging.MaskIMSI(dto.IMSI)))
	return registrationFromSandboxDTO(dto), nil
}

// DeleteOperator deletes the sandbox operator identified by token, using
// token's own credentials. The stored token is cleared when it names the
// same operator.
func (s *SandboxClient) DeleteOperator(ctx context.Context, token *SandboxToken) error {
	if token == nil {
		return ErrMissingSandboxToken
	}

	if err := s.apiClient.SandboxDeleteOperator(ctx, token.credentials(), token.OperatorID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.token != nil && s.token.OperatorID == token.OperatorID {
		s.token = nil
	}
	s.mu.Unlock()

	s.logger.Info("sandbox operator deleted", zap.String(logging.FieldOperator, token.OperatorID))
	return nil
}

// Provision initializes a sandbox operator and returns a handle that owns it.
// The caller must Release the handle, typically with defer.
func (s *SandboxClient) Provision(ctx context.Context, cred *SandboxInitCredential) (*SandboxOperator, error) {
	token, err := s.Init(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &SandboxOperator{sandbox: s, token: token}, nil
}

// SandboxOperator is a sandbox operator scoped to the caller. Release deletes it.
type SandboxOperator struct {
	sandbox *SandboxClient
	token   *SandboxToken

	mu       sync.Mutex
	released bool
}

// Token returns the operator's token.
func (o *SandboxOperator) Token() *SandboxToken {
	t := *o.token
	return &t
}

// Client returns a Client bound to the sandbox endpoint and already
// authenticated as this operator. opts are applied after the sandbox
// client's own options.
func (o *SandboxOperator) Client(opts ...Option) (*Client, error) {
	all := append(append([]Option{}, o.sandbox.opts...), opts...)
	c, err := NewClient(o.sandbox.Endpoint(), all...)
	if err != nil {
		return nil, err
	}
	c.AuthToken(o.token.APIKey, o.token.Token)
	return c, nil
}

// Release deletes the operator. It is safe to call more than once; after
// the first success it does nothing. An operator the API no longer knows
// counts as released. A failed Release may be retried.
func (o *SandboxOperator) Release(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.released {
		return nil
	}

	err := o.sandbox.DeleteOperator(ctx, o.token)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	o.released = true
	return nil
}
