package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/backend"
)

// newRun tags ctx with a fresh run ID for log correlation.
func newRun(ctx context.Context) context.Context {
	return logger.WithRunID(ctx, uuid.NewString())
}

func schemaOptions(cfg *config.Config) schema.Options {
	return schema.Options{
		RootType:          cfg.Schema.RootType,
		DefaultVersion:    cfg.Schema.DefaultVersion,
		StrictVersion:     cfg.Schema.StrictVersion,
		VersionConstraint: cfg.Schema.VersionConstraint,
	}
}

// regenerate loads the schema and runs the selected emitters. A nil
// document means the schema itself failed and nothing was emitted;
// otherwise artifacts holds every backend that succeeded and err combines
// the ones that did not.
func regenerate(ctx context.Context, cfg *config.Config, only []string) (*schema.Document, []typegen.Artifact, error) {
	log := logger.LoggerFromContext(ctx)

	targets, err := backend.Targets(cfg, only...)
	if err != nil {
		return nil, nil, err
	}

	doc, err := schema.Load(cfg.SchemaPath(), schemaOptions(cfg))
	if err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			for _, v := range ve.Violations {
				log.Debugw("schema violation",
					logger.FieldPath, v.Path,
					logger.FieldRule, v.Rule)
			}
		}
		return nil, nil, err
	}
	log.Infow("schema loaded",
		logger.FieldSchema, doc.Source,
		logger.FieldVersion, doc.Version,
		logger.FieldCount, len(doc.Properties))

	artifacts, err := typegen.Generate(ctx, doc, targets, cfg.Generate.Workers)
	return doc, artifacts, err
}
