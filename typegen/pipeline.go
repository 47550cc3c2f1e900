package typegen

import (
	"context"
	"runtime"
	"time"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/schema"
	"golang.org/x/sync/errgroup"
)

// Target pairs an emitter with its destination path.
type Target struct {
	Emitter Emitter
	Output  string
}

// Generate runs every target's emitter over doc on at most workers
// goroutines (0 means GOMAXPROCS). Each backend succeeds or fails on its
// own: the returned artifacts hold every successful backend in target
// order, and the error combines every failure.
func Generate(ctx context.Context, doc *schema.Document, targets []Target, workers int) ([]Artifact, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logger.LoggerFromContext(ctx).Named("typegen")

	type slot struct {
		artifact Artifact
		err      error
	}
	slots := make([]slot, len(targets))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			start := time.Now()
			content, err := t.Emitter.Emit(doc)
			if err != nil {
				slots[i].err = errors.Wrapf(err, "emit %s", t.Emitter.Name())
				log.Errorw("emission failed",
					logger.FieldBackend, t.Emitter.Name(),
					logger.FieldError, err)
				return nil
			}
			slots[i].artifact = Artifact{
				Backend: t.Emitter.Name(),
				Path:    t.Output,
				Content: content,
				Version: doc.Version,
			}
			log.Debugw("artifact emitted",
				logger.FieldBackend, t.Emitter.Name(),
				logger.FieldSize, len(content),
				logger.FieldDurationMS, time.Since(start).Milliseconds())
			return nil
		})
	}
	// Workers never return errors so one failure cannot cancel the others
	_ = g.Wait()

	var (
		artifacts []Artifact
		errs      []error
	)
	for _, s := range slots {
		if s.err != nil {
			errs = append(errs, s.err)
			continue
		}
		artifacts = append(artifacts, s.artifact)
	}
	return artifacts, errors.Combine(errs...)
}
