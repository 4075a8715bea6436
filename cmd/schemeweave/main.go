// Command schemeweave composes linked-data metadata documents (DOAP, FOAF,
// ...) from a schema catalog and previews or exports them as JSON, JSON-LD,
// XML or Turtle.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "schemeweave"
)

func main() {
	if err := rootCmd(newApp(os.Stdout, os.Stderr)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Compose linked-data metadata documents",
		Long: `Schemeweave composes metadata documents from a catalog of schema
definitions (DOAP, FOAF, ...). Pick a schema and template, fill the fields,
reorder them, and preview or export the result as JSON, JSON-LD, XML or Turtle.

Workspace state is persisted between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&a.statePath, "state", "", "State file path (default from config)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		schemasCmd(a),
		useCmd(a),
		setCmd(a),
		fieldsCmd(a),
		addFieldCmd(a),
		removeFieldCmd(a),
		moveCmd(a),
		moveItemCmd(a),
		resetOrderCmd(a),
		previewCmd(a),
		exportCmd(a),
		saveCmd(a),
		documentsCmd(a),
		loadCmd(a),
		deleteCmd(a),
		validateCmd(a),
		fillCmd(a),
		serveCmd(a),
		versionCmd(a.stdout),
	)
	return cmd
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "%s version %s\n", appName, Version)
		},
	}
}
