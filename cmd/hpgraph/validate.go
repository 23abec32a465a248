package main

import (
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Check a document without constructing anything",
	Long: `Reports unfilled placeholders, unknown references, unknown targets, cycles
and argument mismatches, then prints the construction order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()
		return env.Validate(os.Stdout, documentOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addDocumentFlags(validateCmd)
}
