package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes [NAME]",
	Short: "List the recipe catalog, or print one recipe",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(args) == 1 {
			data, err := env.Recipes.GetDocument(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		names, err := env.Recipes.ListDocuments()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}
