package commands

import (
	"fmt"
	"leopardweb/cmd/leopardweb/globals"
	"leopardweb/internal/scrapers/banner"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(termsCmd)
}

var termsCmd = &cobra.Command{
	Use:   "terms [query]",
	Short: "Lists the available terms, ranked by similarity to query when one is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTerms(cmd, strings.Join(args, " "))
	},
}

func printTerms(cmd *cobra.Command, query string) error {
	g := globals.Get(cmd.Context())

	terms, err := g.Client.ListTerms(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list terms: %w", err)
	}
	if query != "" {
		terms = banner.RankTerms(terms, query)
	}
	if len(terms) == 0 {
		g.Console.Warn("No terms available")
		return nil
	}
	g.Console.Terms(terms)
	return nil
}
