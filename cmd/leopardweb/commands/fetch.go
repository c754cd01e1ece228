package commands

import (
	"errors"
	"fmt"
	"leopardweb/cmd/leopardweb/globals"
	"leopardweb/internal/export"
	"leopardweb/internal/scrapers/banner"
	"time"

	"github.com/spf13/cobra"
)

var (
	format    *string
	output    *string
	quick     *bool
	listTerms *bool
)

var creatingMessage = map[export.Format]string{
	export.FormatExcel:  "Creating Excel workbook...",
	export.FormatCsv:    "Writing CSV file...",
	export.FormatJson:   "Writing JSON document...",
	export.FormatSqlite: "Writing SQLite database...",
}

func init() {
	flags := rootCmd.Flags()
	format = flags.StringP("format", "f", string(export.FormatExcel), "Output format: excel, csv, json or sqlite.")
	output = flags.StringP("output", "o", "", "Output file, defaults to courses_<term>.<ext>.")
	quick = flags.Bool("quick", false, "Skip fetching class details and faculty meeting times.")
	listTerms = flags.Bool("list-terms", false, "List the available terms and exit.")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	g := globals.Get(ctx)

	if *listTerms {
		return printTerms(cmd, "")
	}
	if len(args) == 0 {
		if cmd.Flags().NFlag() == 0 {
			return cmd.Help()
		}
		return errors.New("a term code is required (see --list-terms)")
	}
	term := args[0]

	parsed, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	writer, err := export.New(parsed, g.Tel)
	if err != nil {
		return err
	}

	start := time.Now()
	courses, err := g.Client.FetchCatalog(ctx, term, banner.FetchOptions{
		EnrichDetails: !*quick,
		Observer:      g.Console,
	})
	if err != nil {
		return err
	}
	g.Console.Success("Fetched %d courses in %s", len(courses), time.Since(start).Round(time.Millisecond))

	path := *output
	if path == "" {
		path = parsed.DefaultOutput(term)
	}
	g.Console.Info("%s", creatingMessage[parsed])

	err = writer.Write(ctx, term, courses, path)
	if errors.Is(err, export.ErrNoCourses) {
		g.Console.Warn("No courses to save")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	g.Console.Success("Saved %d courses to %s", len(courses), path)
	return nil
}
