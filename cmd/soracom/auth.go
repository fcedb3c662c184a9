package main

import (
	"context"

	"github.com/spf13/cobra"

	soracom "github.com/soracom-sdk/soracom-go"
	"github.com/soracom-sdk/soracom-go/internal/config"
)

type authOutput struct {
	OperatorID string `json:"operatorId"`
	APIKey     string `json:"apiKey"`
	Token      string `json:"token"`
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Exchange the configured auth key for an api key and token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.authenticatedClient(ctx, "", "")
			if err != nil {
				return err
			}
			creds, _ := client.Credentials()
			return a.printJSON(authOutput{
				OperatorID: client.OperatorID(),
				APIKey:     creds.APIKey,
				Token:      creds.Token,
			})
		},
	}
}

// authenticatedClient returns a client for the configured endpoint. A given
// api key and token pair is installed as is; otherwise the auth key from the
// environment is exchanged.
func (a *app) authenticatedClient(ctx context.Context, apiKey, token string) (*soracom.Client, error) {
	client, err := soracom.NewClient(a.cfg.Endpoint, a.options()...)
	if err != nil {
		return nil, err
	}

	if apiKey != "" && token != "" {
		client.AuthToken(apiKey, token)
		return client, nil
	}

	if err := a.cfg.Require(config.EnvAuthKeyID, config.EnvAuthKey); err != nil {
		return nil, err
	}
	if err := client.Auth(ctx, a.cfg.AuthKeyID, a.cfg.AuthKey); err != nil {
		return nil, err
	}
	return client, nil
}
