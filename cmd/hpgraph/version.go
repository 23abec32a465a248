package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hpgraph",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(os.Stdout)
		}
		fmt.Printf("hpgraph version %s\n", strings.TrimSpace(hpgraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
