package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	soracom "github.com/soracom-sdk/soracom-go"
	"github.com/soracom-sdk/soracom-go/internal/config"
)

type sandboxTokenFlags struct {
	operatorID string
	apiKey     string
	token      string
}

func (f *sandboxTokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.operatorID, "operator-id", "", "Sandbox operator id")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Sandbox API key")
	cmd.Flags().StringVar(&f.token, "token", "", "Sandbox token")
	_ = cmd.MarkFlagRequired("api-key")
	_ = cmd.MarkFlagRequired("token")
}

func (f *sandboxTokenFlags) sandboxToken() *soracom.SandboxToken {
	return &soracom.SandboxToken{OperatorID: f.operatorID, APIKey: f.apiKey, Token: f.token}
}

func newSandboxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Manage API sandbox operators and test SIMs",
	}
	cmd.AddCommand(
		newSandboxInitCmd(a),
		newSandboxCreateSubscriberCmd(a),
		newSandboxDeleteOperatorCmd(a),
	)
	return cmd
}

func (a *app) sandboxClient() (*soracom.SandboxClient, error) {
	opts := append([]soracom.Option{soracom.WithEndpoint(a.cfg.SandboxEndpoint)}, a.options()...)
	return soracom.NewSandboxClient(opts...)
}

func newSandboxInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a sandbox operator linked to the configured production account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Require(config.EnvAuthKeyID, config.EnvAuthKey, config.EnvSandboxEmail); err != nil {
				return err
			}

			password := a.cfg.SandboxPassword
			if password == "" {
				p, err := readPassword(a.io.Stdin, a.io.Stderr)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}
			if password == "" {
				return a.cfg.Require(config.EnvSandboxPassword)
			}

			sb, err := a.sandboxClient()
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			token, err := sb.Init(ctx, &soracom.SandboxInitCredential{
				Email:     a.cfg.SandboxEmail,
				Password:  password,
				AuthKeyID: a.cfg.AuthKeyID,
				AuthKey:   a.cfg.AuthKey,
			})
			if err != nil {
				return err
			}
			return a.printJSON(authOutput{
				OperatorID: token.OperatorID,
				APIKey:     token.APIKey,
				Token:      token.Token,
			})
		},
	}
}

func newSandboxCreateSubscriberCmd(a *app) *cobra.Command {
	var (
		flags sandboxTokenFlags
		count int
	)

	cmd := &cobra.Command{
		Use:   "create-subscriber",
		Short: "Create unregistered sandbox SIMs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			sb, err := a.sandboxClient()
			if err != nil {
				return err
			}
			sb.UseToken(flags.sandboxToken())

			ctx, cancel := a.context(cmd)
			defer cancel()

			regs := make([]*soracom.SubscriberRegistration, 0, count)
			for i := 0; i < count; i++ {
				reg, err := sb.CreateSubscriber(ctx)
				if err != nil {
					return err
				}
				regs = append(regs, reg)
			}
			return a.printJSON(regs)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of SIMs to create")
	return cmd
}

func newSandboxDeleteOperatorCmd(a *app) *cobra.Command {
	var flags sandboxTokenFlags

	cmd := &cobra.Command{
		Use:   "delete-operator",
		Short: "Delete a sandbox operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.operatorID == "" {
				return fmt.Errorf("--operator-id is required")
			}
			sb, err := a.sandboxClient()
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := sb.DeleteOperator(ctx, flags.sandboxToken()); err != nil {
				return err
			}
			return a.printJSON(map[string]any{"operatorId": flags.operatorID, "deleted": true})
		},
	}

	flags.register(cmd)
	return cmd
}

// readPassword prompts without echo when in is a terminal and otherwise
// reads one line.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Sandbox password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		return string(b), err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
