package config

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/contractgen/errors"
)

var (
	majorMinorPattern = regexp.MustCompile(`^\d+\.\d+$`)
	identPattern      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	goPackagePattern  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Schema.Path == "" {
		return errors.New("schema.path cannot be empty")
	}
	if !identPattern.MatchString(c.Schema.RootType) {
		return errors.Newf("schema.root_type must be an identifier, got %q", c.Schema.RootType)
	}
	if !majorMinorPattern.MatchString(c.Schema.DefaultVersion) {
		return errors.Newf("schema.default_version must look like <major>.<minor>, got %q", c.Schema.DefaultVersion)
	}
	if c.Schema.VersionConstraint != "" {
		if _, err := semver.NewConstraint(c.Schema.VersionConstraint); err != nil {
			return errors.Wrapf(err, "schema.version_constraint %q is not a valid constraint", c.Schema.VersionConstraint)
		}
	}

	if len(c.Generate.Command) == 0 {
		return errors.New("generate.command cannot be empty")
	}
	// Workers: 0 = GOMAXPROCS, negative = invalid
	if c.Generate.Workers < 0 {
		return errors.Newf("generate.workers must be >= 0, got %d", c.Generate.Workers)
	}
	if c.Generate.WatchDebounceMS < 0 {
		return errors.Newf("generate.watch_debounce_ms must be >= 0, got %d", c.Generate.WatchDebounceMS)
	}

	enabled := c.EnabledBackends()
	if len(enabled) == 0 {
		return errors.New("at least one backend must be enabled")
	}

	outputs := make(map[string]string, len(enabled))
	for _, name := range enabled {
		b, _ := c.Backend(name)
		if b.Output == "" {
			return errors.Newf("backends.%s.output cannot be empty when enabled", name)
		}
		resolved := c.Resolve(b.Output)
		if other, ok := outputs[resolved]; ok {
			return errors.Newf("backends.%s.output and backends.%s.output both point at %s", other, name, b.Output)
		}
		outputs[resolved] = name
	}

	if c.Backends.Go.Enabled && !goPackagePattern.MatchString(c.Backends.Go.Package) {
		return errors.Newf("backends.go.package must be a lowercase Go package name, got %q", c.Backends.Go.Package)
	}

	return nil
}
