package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hexadctl",
		Short: "Operator tooling for the HEXAD suggestion service",
		Long: `Operator tooling for the HEXAD suggestion service.

Examples:
  hexadctl matrix validate --file configs/affinity_matrix.json
  hexadctl rank --achiever 12 --player 4
  hexadctl suggest --user u1 --course c1
  hexadctl elements add --course c1 --type badge
  hexadctl token --user u1 --course c1`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMatrixCmd(),
		newRankCmd(),
		newSuggestCmd(),
		newElementsCmd(),
		newTokenCmd(),
	)
	return root
}
