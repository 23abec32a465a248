package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/hpgraph/internal/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoStore = errors.New("no manifest store configured (use --store or store.backend)")

var manifestsCmd = &cobra.Command{
	Use:   "manifests",
	Short: "Inspect recorded builds",
	Long:  `Manifests are recorded by 'hpgraph resolve --save': the effective document, seed, overrides and a summary of every node.`,
}

var manifestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manifest IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env) error {
			ids, err := env.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		})
	},
}

var manifestsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env) error {
			m, err := env.Store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc, _ := cmd.Flags().GetBool("document"); doc {
				_, err = fmt.Print(m.Document)
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(m)
		})
	},
}

var manifestsDeleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete manifests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env) error {
			for _, id := range args {
				if err := env.Store.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
			}
			return nil
		})
	},
}

var manifestsDiffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two manifests",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env) error {
			return env.DiffManifests(cmd.Context(), os.Stdout, args[0], args[1])
		})
	},
}

func withStore(cmd *cobra.Command, fn func(env *cli.Env) error) error {
	env, err := newEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer env.Close()
	if env.Store == nil {
		return errNoStore
	}
	return fn(env)
}

func init() {
	rootCmd.AddCommand(manifestsCmd)
	manifestsCmd.AddCommand(manifestsListCmd, manifestsShowCmd, manifestsDiffCmd, manifestsDeleteCmd)
	manifestsShowCmd.Flags().Bool("document", false, "Print only the recorded document")
}
