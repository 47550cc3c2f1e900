// Package backend maps backend names to emitters and builds the emission
// targets for a configuration.
package backend

import (
	"path/filepath"

	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/golang"
	"github.com/teranos/contractgen/typegen/markdown"
	"github.com/teranos/contractgen/typegen/python"
	"github.com/teranos/contractgen/typegen/rust"
	"github.com/teranos/contractgen/typegen/typescript"
)

// Options carries the settings emitters share.
type Options struct {
	Command   []string
	GoPackage string
}

// New returns the emitter registered under name.
func New(name string, opts Options) (typegen.Emitter, error) {
	prov := typegen.Provenance{Command: opts.Command}
	switch name {
	case config.BackendTypeScript:
		return typescript.NewGenerator(prov), nil
	case config.BackendPython:
		return python.NewGenerator(prov), nil
	case config.BackendRust:
		return rust.NewGenerator(prov), nil
	case config.BackendGo:
		return golang.NewGenerator(prov, opts.GoPackage), nil
	case config.BackendMarkdown:
		return markdown.NewGenerator(prov), nil
	}
	return nil, errors.WithHintf(errors.Newf("unknown backend %q", name),
		"supported backends: %v", config.BackendNames)
}

// Targets builds one target per enabled backend in canonical order. When
// only is non-empty it selects backends by name instead, whether or not
// they are enabled. An output path whose extension does not match the
// backend is kept but logged.
func Targets(cfg *config.Config, only ...string) ([]typegen.Target, error) {
	names := cfg.EnabledBackends()
	if len(only) > 0 {
		names = only
	}

	opts := Options{
		Command:   cfg.Generate.Command,
		GoPackage: cfg.Backends.Go.Package,
	}

	seen := make(map[string]bool, len(names))
	targets := make([]typegen.Target, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		emitter, err := New(name, opts)
		if err != nil {
			return nil, err
		}
		b, _ := cfg.Backend(name)
		if b.Output == "" {
			return nil, errors.Newf("backends.%s.output is not set", name)
		}
		if ext := filepath.Ext(b.Output); ext != "."+emitter.FileExtension() {
			logger.ComponentLogger("backend").Warnw("output extension does not match backend",
				logger.FieldBackend, name,
				logger.FieldPath, b.Output,
				"expected", "."+emitter.FileExtension())
		}
		targets = append(targets, typegen.Target{Emitter: emitter, Output: b.Output})
	}
	return targets, nil
}
