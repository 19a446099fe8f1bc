package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopscope/shopscope/internal/utils"
	"github.com/shopscope/shopscope/pkg/classify"
	"github.com/shopscope/shopscope/pkg/domains"
	"github.com/shopscope/shopscope/pkg/pipeline"
	"github.com/shopscope/shopscope/pkg/storage"
	"github.com/shopscope/shopscope/pkg/whttp"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run the analysis pipeline over the domain list",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyOutputFlag(cmd)
		outputDir := viper.GetString("crawler.output_dir")

		lock, err := utils.NewCrawlLock(outputDir)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		return runCrawl(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	crawlCmd.Flags().StringP("domains", "d", "", "Domain list file (one domain per line, # for comments)")
	crawlCmd.Flags().IntP("concurrency", "c", 0, "Concurrent domain analyses")
	crawlCmd.Flags().String("output", "", "Output directory for JSON/CSV exports")

	viper.BindPFlag("crawler.domains_file", crawlCmd.Flags().Lookup("domains"))
	viper.BindPFlag("crawler.concurrency", crawlCmd.Flags().Lookup("concurrency"))
}

// applyOutputFlag copies a command's local --output flag into the config.
// Both crawl and export carry the flag, and binding one viper key to two
// pflags would leave only the last registration visible.
func applyOutputFlag(cmd *cobra.Command) {
	if out, err := cmd.Flags().GetString("output"); err == nil && out != "" {
		viper.Set("crawler.output_dir", out)
	}
}

// runCrawl loads the domain list, analyzes every domain, persists the run,
// and refreshes the JSON/CSV exports. Callers are responsible for the crawl
// lock.
func runCrawl(ctx context.Context) error {
	domainList, err := domains.Load(viper.GetString("crawler.domains_file"))
	if err != nil {
		return err
	}
	utils.Log.Infof("Loaded %d domains", len(domainList))

	classifier, err := classify.New(classify.NewHashEmbedder())
	if err != nil {
		return fmt.Errorf("initializing classifier: %w", err)
	}

	started := time.Now()
	profiles := pipeline.Run(ctx, pipeline.Config{
		Fetcher:     whttp.NewClient(whttp.DefaultTimeout),
		Classifier:  classifier,
		Concurrency: viper.GetInt("crawler.concurrency"),
		Log:         utils.Log,
	}, domainList)
	finished := time.Now()

	stores := 0
	for i := range profiles {
		if profiles[i].Qualifying() {
			stores++
		}
	}
	utils.Log.Infof("Crawl finished: %d domains analyzed, %d qualifying stores", len(profiles), stores)

	db, err := storage.Open(viper.GetString("db.path"))
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, started, finished, profiles)
	if err != nil {
		return fmt.Errorf("persisting run: %w", err)
	}
	utils.Log.Debugf("Run %d saved", runID)

	return exportRun(db, runID)
}

// exportRun rewrites the JSON and CSV snapshots for a stored run.
func exportRun(db *storage.DB, runID int64) error {
	ctx := context.Background()
	qualifying, err := db.ProfilesForRun(ctx, runID, true)
	if err != nil {
		return err
	}

	outputDir := viper.GetString("crawler.output_dir")
	jsonPath := filepath.Join(outputDir, "shopify_data.json")
	csvPath := filepath.Join(outputDir, "results.csv")

	if err := storage.WriteJSON(jsonPath, qualifying); err != nil {
		return err
	}
	if err := storage.WriteCSV(csvPath, qualifying); err != nil {
		return err
	}
	utils.Log.Infof("Results written to %s and %s", jsonPath, csvPath)
	return nil
}
