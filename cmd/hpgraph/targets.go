package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the constructible targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		infos := env.Builder.Registry().Describe()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TARGET\tMODE\tPARAMS\tDOC")
		for _, info := range infos {
			params := make([]string, 0, len(info.Params))
			for name, p := range info.Params {
				params = append(params, name+":"+p.Name())
			}
			sort.Strings(params)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Target, info.Mode, strings.Join(params, " "), info.Doc)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().Bool("json", false, "Print as JSON")
}
