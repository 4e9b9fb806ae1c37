package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/survkit/survbayes/internal/dataset"
	"github.com/survkit/survbayes/internal/db"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the built-in datasets and their group summaries",
	RunE:  runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	database, err := db.GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	heart, err := dataset.LoadHeart(database)
	if err != nil {
		return err
	}
	printDataset(heart, database)

	fetcher, err := dataset.NewFetcher(dataset.FetchConfig{})
	if err != nil {
		return err
	}

	mastectomy, err := dataset.LoadMastectomy(cmd.Context(), database, fetcher)
	if err != nil {
		fmt.Printf("mastectomy: unavailable (%v)\n", err)
		return nil
	}
	printDataset(mastectomy, database)

	return nil
}

func printDataset(ds *dataset.Dataset, database *sql.DB) {
	fmt.Printf("%s: %d observations (%d events, %d censored), time in %s, covariate %q\n",
		ds.Name, ds.N(), ds.Events(), ds.Censored(), ds.TimeUnit, ds.CovariateName)

	groups, err := dataset.Summary(database, ds)
	if err != nil {
		fmt.Printf("  summary unavailable: %v\n", err)
		return
	}
	for _, g := range groups {
		fmt.Printf("  %-18s n=%-3d events=%-3d censored=%.0f%%  median time %.1f\n",
			g.Label, g.N, g.Events, g.CensorRate*100, g.MedianTime)
	}
}
