package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/recipekit/codec"
	"github.com/rushteam/recipekit/rank"
)

type rankOutput struct {
	*rank.Report
	Leaders      []rank.Leader     `json:"leaders,omitempty"`
	Distribution []rank.Share      `json:"distribution,omitempty"`
	Enrichment   []rank.Enrichment `json:"enrichment,omitempty"`
}

func newRankCommand(a *app) *cobra.Command {
	var (
		resultsFile, interactionsFile, outFile string
		leaders, distribution, enrich          bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank classified recipes per category and season",
		Long: `Read classification results (from 'recipekit classify') and user
interactions, then compute seasonal baselines and the Bayesian ranking.
When redis.addr is configured the rankings are also published there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := readWith(resultsFile, codec.ReadResults)
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

			rep, err := e.Rank(cmd.Context(), results, interactions)
			if err != nil {
				return err
			}
			out := rankOutput{Report: rep}
			if leaders {
				cfg, err := a.engineConfig()
				if err != nil {
					return err
				}
				if out.Leaders, err = rank.ReviewLeaders(results, interactions, cfg.Rank.LeadersTopN); err != nil {
					return err
				}
			}
			if distribution {
				out.Distribution = rank.Distribution(results, interactions)
			}
			if enrich {
				if out.Enrichment, err = e.Enrich(cmd.Context(), results, interactions); err != nil {
					return err
				}
			}
			return writeOutput(cmd, outFile, out)
		},
	}
	cmd.Flags().StringVar(&resultsFile, "results", "", "classification results JSON file")
	cmd.Flags().StringVar(&interactionsFile, "interactions", "", "interactions JSON file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&leaders, "leaders", false, "include per-season review-count leaders")
	cmd.Flags().BoolVar(&distribution, "distribution", false, "include seasonal review distribution")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "include per-recipe rating counts and Bayesian mean across seasons")
	_ = cmd.MarkFlagRequired("results")
	_ = cmd.MarkFlagRequired("interactions")
	return cmd
}
