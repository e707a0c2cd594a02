package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gamify-hexad/internal/affinity"
	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/service"
)

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Affinity matrix tooling",
	}

	var file string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load a matrix file (JSON or YAML) and report its weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			matrix, err := affinity.NewFileSource(file).Load()
			if err != nil {
				return err
			}
			printMatrix(cmd.OutOrStdout(), matrix)
			return nil
		},
	}
	validate.Flags().StringVarP(&file, "file", "f", "", "matrix file; empty uses the embedded default")
	cmd.AddCommand(validate)
	return cmd
}

func printMatrix(w io.Writer, matrix domain.AffinityMatrix) {
	for _, e := range domain.AllElementTypes() {
		fmt.Fprintf(w, "%-9s", e)
		for _, t := range domain.AllTraits() {
			if v, ok := matrix.Weight(e, t); ok {
				fmt.Fprintf(w, " %s=%.2f", t, v)
			}
		}
		fmt.Fprintln(w)
	}
}

func newRankCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
		scores = make(map[domain.Trait]*float64)
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank game elements for a set of trait scores without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			matrix, err := affinity.NewFileSource(file).Load()
			if err != nil {
				return err
			}
			var traits domain.TraitScores
			for t, v := range scores {
				if err := traits.Add(t, *v); err != nil {
					return err
				}
			}
			ranked := service.RankElements(traits, matrix)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ranked)
			}
			for i, es := range ranked {
				fmt.Fprintf(out, "%d. %-9s %.2f\n", i+1, es.Element, es.Score)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "matrix", "m", "", "matrix file; empty uses the embedded default")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as JSON")
	for _, t := range domain.AllTraits() {
		v := new(float64)
		scores[t] = v
		cmd.Flags().Float64Var(v, string(t), 0, fmt.Sprintf("%s score", t))
	}
	return cmd
}
