package main

import (
	"fmt"
	"os"

	"github.com/aretw0/hpgraph/internal/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hpgraph",
	Short: "hpgraph builds object graphs from hyperparameter YAML",
	Long: `hpgraph resolves hyperparameter documents: YAML files whose nodes reference
each other (!ref), construct objects (!new:, !apply:), capture factories (!name:)
and leave placeholders for the command line (!PLACEHOLDER).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./hpgraph.yaml when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("store", "", "Manifest store: none, memory, file or redis")
}

// newEnv loads the configuration for cmd, applying the persistent flags.
func newEnv(cmd *cobra.Command, reg prometheus.Registerer) (*cli.Env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	store, _ := cmd.Flags().GetString("store")

	opts := cli.EnvOptions{
		ConfigPath: configPath,
		Debug:      debug,
		Store:      store,
		Registerer: reg,
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		seed, _ := cmd.Flags().GetInt64("seed")
		opts.Seed = &seed
	}
	return cli.NewEnv(opts)
}

// addDocumentFlags registers the flags that select a document and its overrides.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().String("recipe", "", "Use a document of the recipe catalog instead of a file")
	cmd.Flags().StringArrayP("override", "o", nil, "YAML override document (repeatable)")
	cmd.Flags().StringArray("set", nil, "Override a single node or mapping key: name=value or name.key=value (repeatable)")
}

func documentOptions(cmd *cobra.Command, args []string) cli.DocumentOptions {
	opts := cli.DocumentOptions{}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	opts.Recipe, _ = cmd.Flags().GetString("recipe")
	opts.Overrides, _ = cmd.Flags().GetStringArray("override")
	opts.Sets, _ = cmd.Flags().GetStringArray("set")
	return opts
}
