package main

import (
	"context"
	"errors"
	"os"

	"github.com/aretw0/hpgraph/internal/cli"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [FILE]",
	Short: "Build every node of a document",
	Long: `Parses the document, applies the overrides, then constructs every node in
dependency order and prints a summary of the resulting graph.

--set name=value replaces a top-level node. A dotted name reaches into
mappings and constructor arguments (--set model.d_model=128); list items
cannot be addressed, override the whole list instead.

Examples:
  hpgraph resolve hparams/train.yaml --set data_folder=/data
  hpgraph resolve --recipe transformer_lm -o "d_model: 128" --seed 7 --save
  hpgraph resolve hparams.yaml --set data_folder=/data --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		opts := cli.RunOptions{DocumentOptions: documentOptions(cmd, args)}
		opts.Save, _ = cmd.Flags().GetBool("save")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if opts.Watch {
			if opts.Path == "" || opts.Path == "-" {
				return errWatchNeedsFile
			}
			return cli.Watch(ctx, os.Stdout, opts.Path, func(ctx context.Context) error {
				return env.Resolve(ctx, os.Stdout, opts)
			})
		}
		return env.Resolve(ctx, os.Stdout, opts)
	},
}

var errWatchNeedsFile = errors.New("--watch needs a document file")

func init() {
	rootCmd.AddCommand(resolveCmd)
	addDocumentFlags(resolveCmd)
	resolveCmd.Flags().Int64("seed", 0, "Override the document seed")
	resolveCmd.Flags().Bool("save", false, "Record a manifest of the build in the configured store")
	resolveCmd.Flags().Bool("json", false, "Print the summary as JSON")
	resolveCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the file changes")
}
