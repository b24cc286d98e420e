// PRD Store
// Hierarchical, versioned PRD storage with update reconciliation
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nainya/prdstore/internal/config"
	"github.com/nainya/prdstore/internal/logger"
	"github.com/nainya/prdstore/internal/metrics"
	"github.com/nainya/prdstore/internal/server"
	"github.com/nainya/prdstore/pkg/blob"
	"github.com/nainya/prdstore/pkg/genai"
	"github.com/nainya/prdstore/pkg/hierarchy"
	"github.com/nainya/prdstore/pkg/markdown"
	"github.com/nainya/prdstore/pkg/planner"
	"github.com/nainya/prdstore/pkg/prd"
)

var (
	dbPath     = flag.String("db", "", "Database directory path (overrides PRDSTORE_DB_PATH)")
	planPrompt = flag.String("plan", "", "Generate a project plan for this description and exit")
	submitPath = flag.String("submit", "", "Submit a markdown file as a PRD candidate and exit")
	title      = flag.String("title", "", "Title for -submit (defaults to the file's first heading)")
	origin     = flag.String("origin", "manual", "Origin tag for -submit")
	stats      = flag.Bool("stats", false, "Print collection statistics and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(cfg.MetricsPort, cfg.DBPath)

	blobs, err := blob.OpenBadger(blob.DefaultBadgerConfig(cfg.DBPath))
	if err != nil {
		log.Fatal("failed to open database").Err(err).Send()
	}
	defer blobs.Close()

	m := metrics.NewMetrics()
	store := hierarchy.New(blobs,
		hierarchy.WithLogger(log),
		hierarchy.WithMetrics(m),
	)

	switch {
	case *planPrompt != "":
		runPlan(cfg, log, m, store, *planPrompt)
	case *submitPath != "":
		runSubmit(log, store, *submitPath, *title, *origin)
	case *stats:
		printStats(store)
	default:
		runServer(cfg, log)
	}
}

// runPlan drives one planning pass and prints the resulting document.
func runPlan(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, store *hierarchy.Store, description string) {
	gen := genai.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	p := planner.New(gen, store,
		planner.WithLogger(log),
		planner.WithMetrics(m),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result, err := p.Plan(ctx, description)
	if err != nil {
		log.Fatal("planning failed").Err(err).Send()
	}

	fmt.Printf("Created %s (%s): %s\n", result.PRD.ID, result.Outcome, result.PRD.Title)
	fmt.Printf("Mindmap: %d nodes, %d connections\n", len(result.Nodes), len(result.Connections))
	fmt.Println()
	fmt.Println(result.PRD.Content)
}

// runSubmit reconciles a markdown file against the collection.
func runSubmit(log *logger.Logger, store *hierarchy.Store, path, title, originTag string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("failed to read file").Err(err).Send()
	}
	content := string(raw)

	if title == "" {
		title = markdown.Scan(content).Title
		if title == "" {
			log.Fatal("no title given and no heading found in file").Send()
		}
	}

	result, err := store.Submit(prd.Candidate{
		Title:   title,
		Content: content,
		Origin:  prd.ManualOrigin(originTag),
	})
	if err != nil {
		log.Fatal("submit failed").Err(err).Send()
	}

	switch result.Outcome {
	case hierarchy.OutcomePending:
		fmt.Printf("Queued update for %s (%s); apply or dismiss to resolve\n", result.PRD.ID, result.PRD.Title)
	case hierarchy.OutcomeDuplicate:
		fmt.Printf("Duplicate of %s (%s); nothing stored\n", result.PRD.ID, result.PRD.Title)
	default:
		fmt.Printf("%s %s v%d: %s\n", result.Outcome, result.PRD.ID, result.PRD.Version, result.PRD.Title)
	}
}

func printStats(store *hierarchy.Store) {
	st := store.CollectionStats()
	fmt.Printf("Documents: %d (%d roots, %d versions, %d sub-PRDs)\n",
		st.TotalDocuments, st.Roots, st.Versions, st.SubPRDs)
	fmt.Printf("Trees:     %d\n", st.Trees)
	fmt.Printf("Pending:   %d\n", len(store.PendingUpdates()))
	fmt.Printf("Size:      %d bytes\n", st.TotalSizeBytes)
	if !st.Oldest.IsZero() {
		fmt.Printf("Oldest:    %s\n", st.Oldest.Format(time.RFC3339))
		fmt.Printf("Newest:    %s\n", st.Newest.Format(time.RFC3339))
	}
}

// runServer keeps the observability endpoints up until interrupted.
func runServer(cfg *config.Config, log *logger.Logger) {
	obs := server.NewObservabilityServer(cfg.MetricsPort, log)
	obs.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.LogServerShutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := obs.Shutdown(ctx); err != nil {
		log.Error("shutdown failed").Err(err).Send()
	}
}
