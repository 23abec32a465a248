package main

import (
	"os"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [FILE]",
	Short: "Print the effective document",
	Long: `Prints the document with every override applied, in canonical form. The
output resolves to the same graph as the original plus overrides.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()
		return env.Format(os.Stdout, documentOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	addDocumentFlags(fmtCmd)
}
