package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/contractgen/config"
)

// ConfigCmd prints the effective configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration contractgen would use, after defaults, the
config file and CONTRACTGEN_* environment overrides are applied, as TOML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cfg.File != "" {
			fmt.Fprintf(out, "# %s\n", cfg.File)
		}
		_, err = out.Write(data)
		return err
	},
}

// ConfigInitCmd writes a default contractgen.toml
var ConfigInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default contractgen.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			dir = wd
		}

		cfg, err := config.Default()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, config.FileName)
		if err := cfg.WriteFile(path); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(ConfigInitCmd)
}
