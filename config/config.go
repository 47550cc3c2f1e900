package config

import "path/filepath"

// Config represents the contractgen configuration
type Config struct {
	Schema   SchemaConfig   `mapstructure:"schema" toml:"schema"`
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`
	Backends BackendsConfig `mapstructure:"backends" toml:"backends"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`

	// Root is the directory relative paths resolve against: the directory
	// holding the config file, or the working directory when there is none.
	Root string `mapstructure:"-" toml:"-"`
	// File is the config file that was read, empty when defaults only.
	File string `mapstructure:"-" toml:"-"`
}

// SchemaConfig locates the canonical schema and controls version handling
type SchemaConfig struct {
	Path              string `mapstructure:"path" toml:"path"`
	RootType          string `mapstructure:"root_type" toml:"root_type"`             // name of the root composite type when the schema has no title
	DefaultVersion    string `mapstructure:"default_version" toml:"default_version"` // used when the annotation carries no vX.Y
	StrictVersion     bool   `mapstructure:"strict_version" toml:"strict_version"`   // missing version fails the load instead of falling back
	VersionConstraint string `mapstructure:"version_constraint" toml:"version_constraint,omitempty"`
}

// GenerateConfig configures a generation run
type GenerateConfig struct {
	Command         []string `mapstructure:"command" toml:"command"`                     // regeneration command written into headers
	Workers         int      `mapstructure:"workers" toml:"workers"`                     // 0 = GOMAXPROCS
	WatchDebounceMS int      `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms"` // --watch debounce window
}

// BackendsConfig holds one entry per supported target language
type BackendsConfig struct {
	TypeScript BackendConfig `mapstructure:"typescript" toml:"typescript"`
	Python     BackendConfig `mapstructure:"python" toml:"python"`
	Rust       BackendConfig `mapstructure:"rust" toml:"rust"`
	Go         BackendConfig `mapstructure:"go" toml:"go"`
	Markdown   BackendConfig `mapstructure:"markdown" toml:"markdown"`
}

// BackendConfig configures a single backend
type BackendConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Output  string `mapstructure:"output" toml:"output"`
	Package string `mapstructure:"package" toml:"package,omitempty"` // Go package clause
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// Backend names in canonical emission order
const (
	BackendTypeScript = "typescript"
	BackendPython     = "python"
	BackendRust       = "rust"
	BackendGo         = "go"
	BackendMarkdown   = "markdown"
)

// BackendNames lists every backend contractgen knows, in canonical order.
var BackendNames = []string{BackendTypeScript, BackendPython, BackendRust, BackendGo, BackendMarkdown}

// Backend returns the configuration for the named backend.
func (c *Config) Backend(name string) (BackendConfig, bool) {
	switch name {
	case BackendTypeScript:
		return c.Backends.TypeScript, true
	case BackendPython:
		return c.Backends.Python, true
	case BackendRust:
		return c.Backends.Rust, true
	case BackendGo:
		return c.Backends.Go, true
	case BackendMarkdown:
		return c.Backends.Markdown, true
	}
	return BackendConfig{}, false
}

// EnabledBackends returns the names of enabled backends in canonical order.
func (c *Config) EnabledBackends() []string {
	var names []string
	for _, name := range BackendNames {
		if b, _ := c.Backend(name); b.Enabled {
			names = append(names, name)
		}
	}
	return names
}

// Resolve makes p absolute against Root. Absolute paths are returned cleaned.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// SchemaPath returns the resolved schema document path.
func (c *Config) SchemaPath() string {
	return c.Resolve(c.Schema.Path)
}
