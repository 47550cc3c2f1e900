// Package cmd implements the contractgen command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// Exit codes
const (
	ExitOK    = 0
	ExitFail  = 1 // generate failed, or verify found drift
	ExitError = 2 // verify could not complete
)

var (
	configPath string
	verbosity  int
	jsonLogs   bool
)

// RootCmd is the contractgen command
var RootCmd = &cobra.Command{
	Use:   "contractgen",
	Short: "Generate cross-language contracts from a canonical schema",
	Long: `contractgen reads one canonical schema document and emits equivalent
type, enum and model definitions for every configured target language.

Generated files carry a DO NOT EDIT header; "contractgen verify" fails
whenever they drift from the schema.

Configuration is read from contractgen.toml, searched upward from the
working directory. CONTRACTGEN_* environment variables override it.

Examples:
  contractgen generate                  # Write every enabled backend
  contractgen generate --watch          # Regenerate on every schema change
  contractgen verify                    # Fail if generated files are stale
  contractgen verify --against-head     # Compare against the last commit
  contractgen config                    # Show the effective configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("NO_COLOR") != "" {
			pterm.DisableColor()
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest contractgen.toml)")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(VerifyCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Cleanup()
	return execute(ctx, RootCmd)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	reportError(cmd.ErrOrStderr(), err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFail
}

// loadConfig loads the project configuration and applies its log settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Log.JSON && !logger.JSONOutput {
		if err := logger.Initialize(true, verbosity); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	logger.ComponentLogger("config").Debugw("configuration loaded",
		logger.FieldPath, cfg.File,
		"root", cfg.Root,
		"backends", cfg.EnabledBackends())
	return cfg, nil
}
