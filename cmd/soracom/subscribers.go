package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	soracom "github.com/soracom-sdk/soracom-go"
)

// tokenFlags lets a command reuse credentials printed by "auth".
type tokenFlags struct {
	apiKey string
	token  string
}

func (f *tokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key from a previous auth")
	cmd.Flags().StringVar(&f.token, "token", "", "Token from a previous auth")
}

func newSubscribersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscribers",
		Aliases: []string{"subs"},
		Short:   "List, inspect and register subscribers",
	}
	cmd.AddCommand(
		newSubscribersListCmd(a),
		newSubscribersGetCmd(a),
		newSubscribersRegisterCmd(a),
	)
	return cmd
}

func newSubscribersListCmd(a *app) *cobra.Command {
	var (
		creds tokenFlags
		opts  soracom.ListSubscribersOptions
		match string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscribers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMatchMode(match)
			if err != nil {
				return err
			}
			opts.TagValueMatchMode = mode

			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.authenticatedClient(ctx, creds.apiKey, creds.token)
			if err != nil {
				return err
			}
			subs, err := client.ListSubscribers(ctx, &opts)
			if err != nil {
				return err
			}
			return a.printJSON(subs)
		},
	}

	creds.register(cmd)
	cmd.Flags().StringVar(&opts.TagName, "tag-name", "", "Tag name to filter by")
	cmd.Flags().StringVar(&opts.TagValue, "tag-value", "", "Tag value to filter by")
	cmd.Flags().StringVar(&match, "match", "", "Tag value match mode: exact or prefix")
	cmd.Flags().StringVar(&opts.StatusFilter, "status", "", "Status filter, e.g. active|ready")
	cmd.Flags().StringVar(&opts.TypeFilter, "type", "", "Speed class filter")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of subscribers")
	cmd.Flags().StringVar(&opts.LastEvaluatedKey, "last-key", "", "IMSI to continue after")
	return cmd
}

func parseMatchMode(s string) (soracom.TagValueMatchMode, error) {
	switch mode := soracom.TagValueMatchMode(strings.ToLower(s)); mode {
	case soracom.TagValueMatchUnspecified, soracom.TagValueMatchExact, soracom.TagValueMatchPrefix:
		return mode, nil
	}
	return "", fmt.Errorf("invalid match mode %q (want exact or prefix)", s)
}

func newSubscribersGetCmd(a *app) *cobra.Command {
	var creds tokenFlags

	cmd := &cobra.Command{
		Use:   "get <imsi>",
		Short: "Show one subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.authenticatedClient(ctx, creds.apiKey, creds.token)
			if err != nil {
				return err
			}
			sub, err := client.GetSubscriber(ctx, args[0])
			if err != nil {
				return err
			}
			return a.printJSON(sub)
		},
	}

	creds.register(cmd)
	return cmd
}

func newSubscribersRegisterCmd(a *app) *cobra.Command {
	var (
		creds   tokenFlags
		secret  string
		groupID string
		tags    map[string]string
	)

	cmd := &cobra.Command{
		Use:   "register <imsi>",
		Short: "Register a SIM to the operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.authenticatedClient(ctx, creds.apiKey, creds.token)
			if err != nil {
				return err
			}
			reg := &soracom.SubscriberRegistration{
				IMSI:               args[0],
				RegistrationSecret: secret,
				GroupID:            groupID,
				Tags:               tags,
			}
			if err := client.RegisterSubscriber(ctx, reg); err != nil {
				return err
			}
			return a.printJSON(map[string]any{"imsi": args[0], "registered": true})
		},
	}

	creds.register(cmd)
	cmd.Flags().StringVar(&secret, "secret", "", "Registration secret (PASSCODE)")
	cmd.Flags().StringVar(&groupID, "group-id", "", "Group to join")
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "Tag to set, as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}
