package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	soracom "github.com/soracom-sdk/soracom-go"
	"github.com/soracom-sdk/soracom-go/internal/config"
)

// IOConfig holds the streams used by the command.
type IOConfig struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() IOConfig {
	return IOConfig{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// app carries state shared by all subcommands.
type app struct {
	io IOConfig

	envFile  string
	endpoint string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger

	clientOpts []soracom.Option
}

// newRootCmd builds the command tree. opts are applied to every client after
// the options derived from configuration.
func newRootCmd(streams IOConfig, opts ...soracom.Option) *cobra.Command {
	a := &app{io: streams, clientOpts: opts}

	root := &cobra.Command{
		Use:           "soracom",
		Short:         "Query and provision SORACOM subscribers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetIn(streams.Stdin)
	root.SetOut(streams.Stdout)
	root.SetErr(streams.Stderr)

	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "Path to .env file")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "API host (overrides SORACOM_ENDPOINT)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides SORACOM_LOG_LEVEL)")

	root.AddCommand(
		newAuthCmd(a),
		newSubscribersCmd(a),
		newSandboxCmd(a),
	)

	return root
}

func (a *app) load() error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if a.endpoint != "" {
		cfg.Endpoint = a.endpoint
		cfg.SandboxEndpoint = a.endpoint
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.logger = cfg.Logger(a.io.Stderr)
	return nil
}

func (a *app) options() []soracom.Option {
	opts := []soracom.Option{
		soracom.WithTimeout(a.cfg.Timeout),
		soracom.WithLogger(a.logger),
	}
	return append(opts, a.clientOpts...)
}

// context returns a context bounded by the configured timeout plus headroom
// for commands that issue several requests.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, 4*a.cfg.Timeout+5*time.Second)
}

// printJSON writes v to stdout as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.io.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
