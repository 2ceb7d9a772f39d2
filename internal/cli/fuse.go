package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/molfuse/molfuse/internal/config"
	"github.com/molfuse/molfuse/internal/fusion"
	"github.com/spf13/cobra"
)

var (
	fuseJSON bool
	fuseSave bool
)

var fuseCmd = &cobra.Command{
	Use:   "fuse [evidence.json]",
	Short: "Fuse an evidence batch from a JSON file",
	Long:  "Run one fusion pass over a JSON array of evidence records. Use '-' to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuse,
}

func init() {
	fuseCmd.Flags().BoolVar(&fuseJSON, "json", false, "Print the full result as JSON")
	fuseCmd.Flags().BoolVar(&fuseSave, "save", false, "Persist the batch to the database")
}

func runFuse(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read evidence: %w", err)
	}

	var evidence []fusion.RawEvidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		return fmt.Errorf("parse evidence: %w", err)
	}
	if len(evidence) == 0 {
		return fmt.Errorf("no evidence records in input")
	}

	cfg := config.Load()
	integrator := fusion.NewIntegrator(fusion.Config{
		ConfidenceThreshold:     cfg.Fusion.ConfidenceThreshold,
		PredictionThreshold:     cfg.Fusion.PredictionThreshold,
		MaxPredictionIterations: cfg.Fusion.MaxPredictionIterations,
		EnableTemporalDecay:     cfg.Fusion.EnableTemporalDecay,
		EnableNetworkLearning:   cfg.Fusion.EnableNetworkLearning,
	})
	result := integrator.IntegrateEvidence(evidence)

	if fuseSave {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		batchID := uuid.New().String()
		if err := db.SaveBatch(batchID, evidence, result); err != nil {
			return fmt.Errorf("save batch: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved batch %s\n", batchID)
	}

	if fuseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(result *fusion.Result) {
	fmt.Printf("## Fusion Result\n\n")
	fmt.Printf("evidence:  %d of %d integrated\n",
		result.IntegratedEvidenceCount, result.OriginalEvidenceCount)
	fmt.Printf("coherence: %.3f\n", result.NetworkCoherenceScore)
	fmt.Printf("edges:     %d (%d conflicts)\n\n",
		result.Stats.EdgeCount, result.Stats.ConflictCount)

	ids := make([]string, 0, len(result.EnhancedConfidences))
	for id := range result.EnhancedConfidences {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ec := result.EnhancedConfidences[id]
		fmt.Printf("  %-20s %.3f -> %.3f  (fuzzy %.3f, posterior %.3f, influence %+.3f)\n",
			id, ec.Original, ec.Final, ec.Fuzzy, ec.BayesianPosterior, ec.NetworkInfluence)
	}

	if len(result.Predictions) > 0 {
		fmt.Printf("\n## Predictions\n\n")
		for _, p := range result.Predictions {
			fmt.Printf("  %-20s value %.3f, confidence %.3f (%s)\n",
				p.NodeID, p.PredictedValue, p.Confidence, p.Reasoning)
		}
	}

	if len(result.IntegrationErrors) > 0 {
		fmt.Printf("\n## Errors\n\n")
		for _, e := range result.IntegrationErrors {
			fmt.Printf("  %s\n", e)
		}
	}
}
