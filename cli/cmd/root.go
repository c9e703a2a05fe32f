package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "ddlfmt",
		Short:        "ddlfmt",
		SilenceUsage: true,
		Long:         `CLI tool for rewriting SQL DDL files into the canonical warehouse form, in an opinionated way. See README.md.`,
	}

	configFile  string
	templateVar string
	indentWidth int
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "ddlfmt.yaml", "path to the configuration file; a missing file just means defaults")
	rootCmd.PersistentFlags().StringVar(&templateVar, "template-var", "", "template variable owning the database qualifier slot; overrides the config file")
	rootCmd.PersistentFlags().IntVar(&indentWidth, "indent", 0, "column list indentation width; overrides the config file")
	return rootCmd.Execute()
}
