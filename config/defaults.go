package config

import "github.com/spf13/viper"

// FileName is the project config file searched for upward from the working directory
const FileName = "contractgen.toml"

// EnvPrefix prefixes environment overrides, e.g. CONTRACTGEN_SCHEMA_PATH
const EnvPrefix = "CONTRACTGEN"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schema.path", "packages/schema/prompt.schema.json")
	v.SetDefault("schema.root_type", "PromptSchema")
	v.SetDefault("schema.default_version", "1.0")
	v.SetDefault("schema.strict_version", false)
	v.SetDefault("schema.version_constraint", "")

	v.SetDefault("generate.command", []string{"contractgen", "generate"})
	v.SetDefault("generate.workers", 0)             // GOMAXPROCS
	v.SetDefault("generate.watch_debounce_ms", 500) // editors emit bursts of writes

	v.SetDefault("backends.typescript.enabled", true)
	v.SetDefault("backends.typescript.output", "packages/contracts/src/types.generated.ts")
	v.SetDefault("backends.python.enabled", true)
	v.SetDefault("backends.python.output", "packages/py-contracts/promptforge_contracts/models.generated.py")
	v.SetDefault("backends.rust.enabled", false)
	v.SetDefault("backends.rust.output", "crates/contracts/src/generated.rs")
	v.SetDefault("backends.go.enabled", false)
	v.SetDefault("backends.go.output", "contracts/contracts.gen.go")
	v.SetDefault("backends.go.package", "contracts")
	v.SetDefault("backends.markdown.enabled", false)
	v.SetDefault("backends.markdown.output", "docs/contracts/schema.md")

	v.SetDefault("log.json", false)
}
