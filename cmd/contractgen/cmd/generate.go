package cmd

import (
	"context"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/output"
	"github.com/teranos/contractgen/schema"
)

var (
	generateWatch    bool
	generateBackends []string
)

// GenerateCmd writes every enabled backend's artifact
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate contract files from the schema",
	Long: `Load the canonical schema, emit one artifact per enabled backend and
write each atomically to its configured output path.

A schema load or validation failure aborts before any file is touched.
A backend that cannot map a type or write its file fails on its own; the
other backends still complete, but the command exits non-zero.

Exit codes:
  0 - All artifacts written or already up to date
  1 - Any load, validation, emission or write failure

Examples:
  contractgen generate                         # All enabled backends
  contractgen generate --backend rust,go       # Selected backends only
  contractgen generate --watch                 # Regenerate on schema changes`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever the schema changes")
	GenerateCmd.Flags().StringSliceVarP(&generateBackends, "backend", "b", nil, "Backends to generate (default: enabled backends)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !generateWatch {
		return generateOnce(cmd.Context(), cfg, generateBackends, out)
	}
	return watch(cmd.Context(), cfg, generateBackends, out, cmd.ErrOrStderr())
}

// generateOnce runs one load, emit and write cycle.
func generateOnce(ctx context.Context, cfg *config.Config, only []string, out io.Writer) error {
	ctx = newRun(ctx)
	log := logger.LoggerFromContext(ctx)
	start := time.Now()

	doc, artifacts, genErr := regenerate(ctx, cfg, only)
	if doc == nil {
		log.Warnw("generation aborted before emission",
			logger.FieldSchema, cfg.SchemaPath(),
			logger.FieldStatus, status(genErr))
		return genErr
	}

	outcomes, writeErr := output.NewWriter(cfg.Root).WriteAll(ctx, artifacts)
	for _, o := range outcomes {
		switch o.Status {
		case output.StatusWritten:
			pterm.Success.WithWriter(out).Printfln("%-10s %s", o.Backend, o.Path)
		case output.StatusUnchanged:
			pterm.Info.WithWriter(out).Printfln("%-10s %s (unchanged)", o.Backend, o.Path)
		}
	}

	err := errors.Combine(genErr, writeErr)
	log.Infow("generation finished",
		logger.FieldSchema, doc.Source,
		logger.FieldVersion, doc.Version,
		logger.FieldCount, len(outcomes),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		logger.FieldStatus, status(err))
	return err
}

// watch generates once, then again after every debounced schema change,
// until ctx is cancelled. Failures are reported and watching continues.
func watch(ctx context.Context, cfg *config.Config, only []string, out, errOut io.Writer) error {
	w, err := schema.NewWatcher(cfg.SchemaPath(), time.Duration(cfg.Generate.WatchDebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()

	cycle := func() {
		if err := generateOnce(ctx, cfg, only, out); err != nil {
			reportError(errOut, err)
		}
	}

	cycle()
	pterm.Info.WithWriter(out).Printfln("Watching %s (Ctrl+C to stop)", cfg.SchemaPath())
	return w.Run(ctx, cycle)
}

// status classifies a run result for logging.
func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsFatal(err):
		return "rejected"
	case errors.IsBackendFailure(err):
		return "partial"
	default:
		return "failed"
	}
}
