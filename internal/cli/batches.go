package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var batchesLimit int

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List recent fusion batches",
	RunE:  runBatches,
}

func init() {
	batchesCmd.Flags().IntVarP(&batchesLimit, "limit", "n", 20, "Maximum number of batches")
}

func runBatches(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	batches, err := db.RecentBatches(batchesLimit)
	if err != nil {
		return fmt.Errorf("list batches: %w", err)
	}

	if len(batches) == 0 {
		fmt.Println("No batches stored yet.")
		return nil
	}

	for _, b := range batches {
		ts := time.UnixMilli(b.CreatedAt).Format("2006-01-02 15:04")
		fmt.Printf("%s  %s\n", ts, b.BatchID)
		fmt.Printf("  evidence %d/%d, coherence %.3f, conflicts %d\n",
			b.IntegratedCount, b.OriginalCount, b.Coherence, b.ConflictCount)
		if len(b.Errors) > 0 {
			fmt.Printf("  errors: %d\n", len(b.Errors))
		}
	}

	return nil
}
