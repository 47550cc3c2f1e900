package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/contractgen/drift"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

var (
	verifyAgainstHead bool
	verifyBackends    []string
)

// VerifyCmd checks that generated files are up to date
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that generated files match the schema",
	Long: `Regenerate every enabled backend into a scratch directory and compare
the result byte-for-byte with the checked-in files. Nothing in the project
is modified.

With --against-head the checked-in files are read from the HEAD commit
instead of the working tree, so uncommitted regeneration does not pass.

Exit codes:
  0 - Generated files are up to date
  1 - Generated files are stale or missing (diff shown)
  2 - Verification could not complete

Examples:
  contractgen verify                   # Compare with the working tree
  contractgen verify --against-head    # Compare with the last commit`,
	RunE: runVerify,
}

func init() {
	VerifyCmd.Flags().BoolVar(&verifyAgainstHead, "against-head", false, "Compare with files committed at HEAD")
	VerifyCmd.Flags().StringSliceVarP(&verifyBackends, "backend", "b", nil, "Backends to verify (default: enabled backends)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return withExitCode(ExitError, err)
	}
	ctx := newRun(cmd.Context())
	out := cmd.OutOrStdout()

	_, artifacts, err := regenerate(ctx, cfg, verifyBackends)
	if err != nil {
		return withExitCode(ExitError, err)
	}

	var source drift.Source = drift.DirSource{Root: cfg.Root}
	if verifyAgainstHead {
		gs, err := drift.NewGitSource(cfg.Root)
		if err != nil {
			return withExitCode(ExitError, err)
		}
		source = gs
	}

	results, err := drift.NewDetector(source).Check(ctx, artifacts)
	if err != nil && !errors.Is(err, errors.ErrDrift) {
		return withExitCode(ExitError, err)
	}

	for _, r := range results {
		switch r.Status {
		case drift.StatusMatch:
			pterm.Success.WithWriter(out).Printfln("%-10s %s", r.Backend, r.Path)
		case drift.StatusMissing:
			pterm.Warning.WithWriter(out).Printfln("%-10s %s (missing from %s)", r.Backend, r.Path, source.Describe())
		case drift.StatusDiffers:
			pterm.Warning.WithWriter(out).Printfln("%-10s %s (differs from %s)", r.Backend, r.Path, source.Describe())
			pterm.Fprintln(out, r.Diff)
		}
	}

	logger.LoggerFromContext(ctx).Infow("verification finished",
		logger.FieldCount, len(results),
		logger.FieldStatus, status(err))
	return withExitCode(ExitFail, err)
}
