package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/recipekit/codec"
)

func newClassifyCommand(a *app) *cobra.Command {
	var recipesFile, outFile string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify recipes into main, dessert or beverage",
		Long: `Read a JSON array of recipes and write one classification result per
recipe, in input order. Nutrition may be an object or the 7-value array
[calories, fat, sugar, sodium, protein, saturated_fat, carbohydrates].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipes, err := readWith(recipesFile, codec.ReadRecipes)
			if err != nil {
				return err
			}
			e, closeFn, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			results, err := e.Classify(cmd.Context(), recipes)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outFile, results)
		},
	}
	cmd.Flags().StringVar(&recipesFile, "recipes", "-", "recipes JSON file ('-' for stdin)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}
