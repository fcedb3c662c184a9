package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soracom-sdk/soracom-go/internal/logging"
)

// Auth exchanges an auth key for an api key and token. No credentials are sent.
func (c *Client) Auth(ctx context.Context, req *AuthRequest) (*AuthResponse, error) {
	var result AuthResponse
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/v1/auth",
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSubscribers lists subscribers. rawQuery is appended verbatim when non-empty.
func (c *Client) ListSubscribers(ctx context.Context, creds *Credentials, rawQuery string) ([]SubscriberDTO, error) {
	var result []SubscriberDTO
	err := c.Do(ctx, Call{
		Method:      http.MethodGet,
		Path:        "/v1/subscribers",
		Query:       rawQuery,
		Credentials: creds,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSubscriber retrieves a single subscriber by IMSI.
func (c *Client) GetSubscriber(ctx context.Context, creds *Credentials, imsi string) (*SubscriberDTO, error) {
	var result SubscriberDTO
	err := c.Do(ctx, Call{
		Method:      http.MethodGet,
		Path:        fmt.Sprintf("/v1/subscribers/%s", url.PathEscape(imsi)),
		LogPath:     fmt.Sprintf("/v1/subscribers/%s", logging.MaskIMSI(imsi)),
		Credentials: creds,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterSubscriber registers the subscriber identified by imsi. The response body is discarded.
func (c *Client) RegisterSubscriber(ctx context.Context, creds *Credentials, imsi string, req *RegisterSubscriberRequest) error {
	return c.Do(ctx, Call{
		Method:      http.MethodPost,
		Path:        fmt.Sprintf("/v1/subscribers/%s/register", url.PathEscape(imsi)),
		LogPath:     fmt.Sprintf("/v1/subscribers/%s/register", logging.MaskIMSI(imsi)),
		Credentials: creds,
		Body:        req,
	}, nil)
}

// SandboxInit creates a disposable sandbox operator.
func (c *Client) SandboxInit(ctx context.Context, req *SandboxInitRequest) (*SandboxTokenDTO, error) {
	var result SandboxTokenDTO
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/v1/sandbox/init",
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SandboxCreateSubscriber provisions a new unregistered sandbox subscriber.
func (c *Client) SandboxCreateSubscriber(ctx context.Context, creds *Credentials) (*SandboxSubscriberDTO, error) {
	var result SandboxSubscriberDTO
	err := c.Do(ctx, Call{
		Method:      http.MethodPost,
		Path:        "/v1/sandbox/subscribers/create",
		Credentials: creds,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SandboxDeleteOperator deletes a sandbox operator.
func (c *Client) SandboxDeleteOperator(ctx context.Context, creds *Credentials, operatorID string) error {
	return c.Do(ctx, Call{
		Method:      http.MethodDelete,
		Path:        fmt.Sprintf("/v1/sandbox/operators/%s", url.PathEscape(operatorID)),
		Credentials: creds,
	}, nil)
}
