// Package output persists generated artifacts.
//
// Every artifact is written to a temporary file beside its destination and
// renamed into place, so a reader never observes a partially written file
// and a failed write leaves the previous artifact untouched.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen"
)

// Status describes what a write did.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Outcome reports the result of writing one artifact.
type Outcome struct {
	Backend string
	Path    string // resolved destination
	Status  Status
}

// WriteError reports an artifact that could not be persisted.
type WriteError struct {
	Backend string
	Path    string
	Cause   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: failed to write %s: %v", e.Backend, e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// Is reports WriteError as errors.ErrWrite.
func (e *WriteError) Is(target error) bool { return target == errors.ErrWrite }

const defaultMode fs.FileMode = 0o644

// Writer writes artifacts below Root. Artifact paths that are already
// absolute are used as-is.
type Writer struct {
	Root string
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{Root: root}
}

// Resolve returns the destination for an artifact path.
func (w *Writer) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.Root, path)
}

// Write persists a single artifact. An artifact whose destination already
// holds identical bytes is left alone.
func (w *Writer) Write(a typegen.Artifact) (Outcome, error) {
	dest := w.Resolve(a.Path)
	out := Outcome{Backend: a.Backend, Path: dest, Status: StatusFailed}

	fail := func(err error) (Outcome, error) {
		return out, &WriteError{Backend: a.Backend, Path: dest, Cause: err}
	}

	mode := defaultMode
	if info, err := os.Stat(dest); err == nil {
		if info.IsDir() {
			return fail(errors.New("destination is a directory"))
		}
		mode = info.Mode().Perm()
		if existing, err := os.ReadFile(dest); err == nil && bytes.Equal(existing, a.Content) {
			out.Status = StatusUnchanged
			return out, nil
		}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(errors.Wrap(err, "failed to create output directory"))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fail(errors.Wrap(err, "failed to create temp file"))
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(a.Content); err != nil {
		cleanup()
		return fail(errors.Wrap(err, "failed to write temp file"))
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fail(errors.Wrap(err, "failed to sync temp file"))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Wrap(err, "failed to close temp file"))
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Wrap(err, "failed to set file mode"))
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Wrap(err, "failed to rename temp file"))
	}

	out.Status = StatusWritten
	return out, nil
}

// WriteAll writes every artifact. A failure is recorded and the remaining
// artifacts are still written; the returned error combines every
// *WriteError.
func (w *Writer) WriteAll(ctx context.Context, artifacts []typegen.Artifact) ([]Outcome, error) {
	log := logger.LoggerFromContext(ctx).Named("output")

	outcomes := make([]Outcome, 0, len(artifacts))
	var errs []error
	for _, a := range artifacts {
		out, err := w.Write(a)
		outcomes = append(outcomes, out)
		if err != nil {
			log.Errorw("write failed",
				logger.FieldBackend, a.Backend,
				logger.FieldPath, out.Path,
				logger.FieldError, err)
			errs = append(errs, err)
			continue
		}
		log.Debugw("artifact persisted",
			logger.FieldBackend, a.Backend,
			logger.FieldPath, out.Path,
			logger.FieldStatus, string(out.Status),
			logger.FieldSize, len(a.Content))
	}
	return outcomes, errors.Combine(errs...)
}
