package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/molfuse/molfuse/internal/config"
	"github.com/molfuse/molfuse/internal/fusion"
	"github.com/molfuse/molfuse/internal/llm"
	"github.com/molfuse/molfuse/internal/server"
	"github.com/molfuse/molfuse/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	// Resolve database path
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	integrator := fusion.NewIntegrator(fusionConfig(cfg))

	// Confidence review is optional; without an LLM the server still fuses.
	var reviewer *llm.Reviewer
	if cfg.LLM.EnableReview {
		llmClient, err := llm.NewClient(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: LLM not configured (%v), review disabled\n", err)
		} else {
			reviewer = llm.NewReviewer(llmClient)
			fmt.Fprintf(os.Stderr, "  llm: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
	}

	srv := server.New(db, integrator, reviewer, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "molfuse serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

func fusionConfig(cfg config.Config) fusion.Config {
	return fusion.Config{
		ConfidenceThreshold:     cfg.Fusion.ConfidenceThreshold,
		PredictionThreshold:     cfg.Fusion.PredictionThreshold,
		MaxPredictionIterations: cfg.Fusion.MaxPredictionIterations,
		EnableTemporalDecay:     cfg.Fusion.EnableTemporalDecay,
		EnableNetworkLearning:   cfg.Fusion.EnableNetworkLearning,
	}
}

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("MOLFUSE_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
