package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/recipekit/codec"
)

func newRunCommand(a *app) *cobra.Command {
	var recipesFile, interactionsFile, outFile string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify and rank in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipes, err := readWith(recipesFile, codec.ReadRecipes)
			if err != nil {
				return err
			}
			interactions, err := readWith(interactionsFile, codec.ReadInteractions)
			if err != nil {
				return err
			}
			e, closeFn, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := e.Run(cmd.Context(), recipes, interactions)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outFile, out)
		},
	}
	cmd.Flags().StringVar(&recipesFile, "recipes", "", "recipes JSON file")
	cmd.Flags().StringVar(&interactionsFile, "interactions", "", "interactions JSON file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("recipes")
	_ = cmd.MarkFlagRequired("interactions")
	return cmd
}
