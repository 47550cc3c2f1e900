// Package drift checks that checked-in generated artifacts match what the
// current schema produces.
//
// Regenerated artifacts are persisted to a scratch directory through the
// same output.Writer used by generate, then compared byte-for-byte with the
// artifact a Source reports as checked in.
package drift

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/output"
	"github.com/teranos/contractgen/typegen"
)

// Status is the drift state of one artifact.
type Status string

const (
	StatusMatch   Status = "match"
	StatusDiffers Status = "differs"
	StatusMissing Status = "missing"
)

// Source reads the checked-in version of an artifact. Implementations
// return an error satisfying errors.Is(err, fs.ErrNotExist) when the
// artifact does not exist.
type Source interface {
	Read(path string) ([]byte, error)
	// Describe names the source in reports, e.g. "working tree" or "HEAD".
	Describe() string
}

// DirSource reads artifacts from the working tree below Root.
type DirSource struct {
	Root string
}

func (s DirSource) Read(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Root, path)
	}
	return os.ReadFile(path)
}

func (s DirSource) Describe() string { return "working tree" }

// Result is the comparison for one artifact.
type Result struct {
	Backend string
	Path    string
	Status  Status
	Diff    string // line diff (-checked-in +regenerated), set for StatusDiffers
}

// Error reports every artifact that does not match.
type Error struct {
	Source  string
	Results []Result
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Results))
	for i, r := range e.Results {
		parts[i] = fmt.Sprintf("%s (%s)", r.Path, r.Status)
	}
	return fmt.Sprintf("%d generated artifact(s) differ from %s: %s",
		len(e.Results), e.Source, strings.Join(parts, ", "))
}

// Is reports Error as errors.ErrDrift.
func (e *Error) Is(target error) bool { return target == errors.ErrDrift }

// Detector compares regenerated artifacts against a Source.
type Detector struct {
	Source Source
	// Scratch is the directory regenerated artifacts are written to. Empty
	// means a fresh temporary directory per Check, removed afterwards.
	Scratch string
}

// NewDetector creates a Detector reading checked-in artifacts from source.
func NewDetector(source Source) *Detector {
	return &Detector{Source: source}
}

// Check compares every artifact and returns one Result per artifact in
// input order. The error is a *Error when anything drifted, or a plain
// error when the comparison itself could not run.
func (d *Detector) Check(ctx context.Context, artifacts []typegen.Artifact) ([]Result, error) {
	log := logger.LoggerFromContext(ctx).Named("drift")

	scratch := d.Scratch
	if scratch == "" {
		dir, err := os.MkdirTemp("", "contractgen-verify-*")
		if err != nil {
			return nil, errors.Wrap(err, "failed to create scratch directory")
		}
		defer os.RemoveAll(dir)
		scratch = dir
	}

	staged := make([]typegen.Artifact, len(artifacts))
	for i, a := range artifacts {
		staged[i] = a
		staged[i].Path = filepath.Join(a.Backend, filepath.Base(a.Path))
	}
	writer := output.NewWriter(scratch)
	outcomes, err := writer.WriteAll(ctx, staged)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stage regenerated artifacts")
	}

	results := make([]Result, len(artifacts))
	var drifted []Result
	for i, a := range artifacts {
		regenerated, err := os.ReadFile(outcomes[i].Path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read staged %s artifact", a.Backend)
		}

		r := Result{Backend: a.Backend, Path: a.Path, Status: StatusMatch}
		checkedIn, err := d.Source.Read(a.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.Status = StatusMissing
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read %s from %s", a.Path, d.Source.Describe())
		case !bytes.Equal(checkedIn, regenerated):
			r.Status = StatusDiffers
			r.Diff = LineDiff(checkedIn, regenerated)
		}

		results[i] = r
		log.Debugw("artifact compared",
			logger.FieldBackend, a.Backend,
			logger.FieldPath, a.Path,
			logger.FieldStatus, string(r.Status))
		if r.Status != StatusMatch {
			drifted = append(drifted, r)
		}
	}

	if len(drifted) > 0 {
		return results, errors.WithHint(
			&Error{Source: d.Source.Describe(), Results: drifted},
			"run 'contractgen generate' and commit the result")
	}
	return results, nil
}

// LineDiff renders a line-oriented diff of two artifact versions.
func LineDiff(checkedIn, regenerated []byte) string {
	return cmp.Diff(strings.Split(string(checkedIn), "\n"), strings.Split(string(regenerated), "\n"))
}
