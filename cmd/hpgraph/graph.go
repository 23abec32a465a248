package main

import (
	"os"

	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [FILE]",
	Short: "Export the dependency graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the document: one node per entry and
an edge from every node to the nodes that reference it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		build, _ := cmd.Flags().GetBool("build")
		return env.Graph(cmd.Context(), os.Stdout, documentOptions(cmd, args), build)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addDocumentFlags(graphCmd)
	graphCmd.Flags().Bool("build", false, "Resolve the document and highlight built and failed nodes")
}
