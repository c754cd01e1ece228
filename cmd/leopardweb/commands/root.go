package commands

import (
	"context"
	"fmt"
	"leopardweb/cmd/leopardweb/globals"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/console"
	"leopardweb/internal/scrapers/banner"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  *string
	verbose     *bool
	quiet       *bool
	baseUrl     *string
	pageSize    *int
	concurrency *int
	dumpHttp    *string
)

var rootCmd = &cobra.Command{
	Use:   "leopardweb [term]",
	Short: "leopardweb fetches the course catalog of a term from LeopardWeb and saves it to a file.",
	Example: `  leopardweb 202510
  leopardweb 202510 -f csv -o fall.csv
  leopardweb 202510 --quick -f json
  leopardweb 202510 -f sqlite --concurrency 8
  leopardweb --list-terms`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runFetch,
}

var tel telemetry.Telemetry

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", "leopardweb.json5", "The config file to read defaults from.")
	verbose = flags.BoolP("verbose", "v", false, "Log every request and absorbed failure to stderr.")
	quiet = flags.BoolP("quiet", "q", false, "Suppress progress output.")
	baseUrl = flags.String("base-url", "", "Override the Banner SSB base url.")
	pageSize = flags.Int("page-size", 0, "Number of records requested per catalog page.")
	concurrency = flags.Int("concurrency", 0, "Number of courses enriched at the same time.")
	dumpHttp = flags.String("dump-http", "", "Write a transcript of every http exchange into this directory.")
}

// setup loads the config and stores the shared client in the command context.
func setup(cmd *cobra.Command, args []string) error {
	telemetry.InitSlog(telemetry.Level(*verbose))

	config, err := loadConfig(*configPath, Config{
		BaseUrl:     *baseUrl,
		PageSize:    *pageSize,
		Concurrency: *concurrency,
		DumpHttp:    *dumpHttp,
	})
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	tel, err = telemetry.Setup(cmd.Context(), "leopardweb", config.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}

	api := telemetry.SlogAPI{}
	client, err := banner.NewClient(config.clientOptions(), api)
	if err != nil {
		return err
	}

	cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
		Client:  client,
		Console: console.New(os.Stdout, os.Stderr, *quiet),
		Tel:     api,
	}))
	return nil
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("failed to shutdown telemetry", "err", shutdownErr)
	}

	if err != nil {
		console.New(os.Stdout, os.Stderr, false).Error(err)
		os.Exit(1)
	}
}
