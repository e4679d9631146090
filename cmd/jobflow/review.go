package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhtran99/jobflow/internal/review"
	"github.com/minhtran99/jobflow/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse stored jobs interactively (TUI)",
	Long:  "Launches the split-pane review view over the jobs already loaded into the store.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	allJobs, err := review.RunLoader(cfg.Store.Path, func() ([]store.StoredJob, error) {
		return sqlStore.ListJobs(false)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load jobs: %v\n", err)
		os.Exit(1)
	}
	if len(allJobs) == 0 {
		fmt.Println("Store is empty. Run `jobflow run -q \"<query>\"` first.")
		return nil
	}

	var relevantJobs []store.StoredJob
	for _, j := range allJobs {
		if j.IsRelevant {
			relevantJobs = append(relevantJobs, j)
		}
	}

	return review.RunReviewTUI(allJobs, relevantJobs)
}
