package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/nctirs/nctirs-stack/cli/internal/seeder"
	"github.com/nctirs/nctirs-stack/cli/pkg/output"
)

var (
	seedURL      string
	seedIndex    string
	seedUsername string
	seedPassword string
	seedInsecure bool
	seedCount    int
	seedSeed     int64
	seedSpread   time.Duration
	seedWorkers  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-index generated threat alerts into OpenSearch",
	Long: `Generate threat alerts and bulk-index them into OpenSearch.

Connection settings default to the active profile; flags override them.
Alert timestamps are spread evenly across --spread ending now so
time-series dashboards have history to draw.

Examples:
  nctirs seed --count 5000
  nctirs seed --url https://localhost:9200 --insecure --username admin --password admin
  nctirs seed --index nctirs-threats-test --spread 168h --seed 7`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedURL, "url", "", "OpenSearch URL (default: profile opensearch_url)")
	seedCmd.Flags().StringVar(&seedIndex, "index", "", "target index (default: profile index)")
	seedCmd.Flags().StringVar(&seedUsername, "username", "", "OpenSearch username")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "OpenSearch password")
	seedCmd.Flags().BoolVar(&seedInsecure, "insecure", false, "skip TLS certificate verification")
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 1000, "number of alerts to index")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed for reproducible alerts (0 = random)")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", 24*time.Hour, "time span to spread alert timestamps over (0 = keep generated times)")
	seedCmd.Flags().IntVar(&seedWorkers, "workers", 2, "bulk indexer workers")
}

func seedConfig(cmd *cobra.Command) (seeder.OpenSearchConfig, error) {
	profile, err := activeProfile()
	if err != nil {
		return seeder.OpenSearchConfig{}, err
	}

	osCfg := seeder.OpenSearchConfig{
		URL:      profile.OpenSearchURL,
		Index:    profile.Index,
		Username: profile.OpenSearchUsername,
		Password: profile.OpenSearchPassword,
		Insecure: profile.Insecure,
		Workers:  seedWorkers,
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		osCfg.URL = seedURL
	}
	if flags.Changed("index") {
		osCfg.Index = seedIndex
	}
	if flags.Changed("username") {
		osCfg.Username = seedUsername
	}
	if flags.Changed("password") {
		osCfg.Password = seedPassword
	}
	if flags.Changed("insecure") {
		osCfg.Insecure = seedInsecure
	}
	return osCfg, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	osCfg, err := seedConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ix, err := seeder.NewIndexer(osCfg)
	if err != nil {
		return err
	}
	if err := ix.EnsureIndex(ctx); err != nil {
		return err
	}

	gen := newGenerator(seedSeed)
	alerts := generateAlerts(gen, seedCount)
	jitter := gofakeit.New(seedSeed)
	seeder.Spread(alerts, seedSpread, time.Now(), jitter)

	output.Info("Indexing %d alerts into %s (%s)", len(alerts), osCfg.Index, osCfg.URL)
	start := time.Now()

	res, err := ix.IndexAlerts(ctx, alerts)
	if res != nil {
		reportSeed(res, time.Since(start))
	}
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d alerts failed to index", res.Failed, len(alerts))
	}
	return nil
}

func reportSeed(res *seeder.Result, elapsed time.Duration) {
	if res.Indexed > 0 {
		output.Success("Indexed %d alerts in %s", res.Indexed, elapsed.Round(time.Millisecond))
	}
	if res.Failed > 0 {
		output.Warn("%d alerts failed", res.Failed)
		for _, e := range res.Errors {
			output.Warn("  %s", e)
		}
	}
}
