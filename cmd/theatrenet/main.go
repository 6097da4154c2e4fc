package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/elena2notti/theatreNet/internal/config"
	"github.com/elena2notti/theatreNet/internal/data/graph"
	"github.com/elena2notti/theatreNet/internal/pipeline"
	"github.com/elena2notti/theatreNet/internal/platform/embedder"
	"github.com/elena2notti/theatreNet/internal/platform/logger"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// Steps that only read and write local tables run without a database or an
// embedding endpoint.
var needsGraph = map[string]bool{
	"load-regio":      true,
	"load-fondazione": true,
	"embed-persons":   true,
	"embed-works":     true,
	"link-merge":      true,
}

var needsEmbedder = map[string]bool{
	"embed-persons": true,
	"embed-works":   true,
}

func main() {
	var (
		configPath = flag.String("config", "", "path to the pipeline YAML config")
		stepsFlag  = flag.String("steps", "", "comma-separated steps to run (default: all)")
		reset      = flag.Bool("reset", false, "wipe all nodes and relationships before loading")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nSteps: %s\n\nFlags:\n",
			os.Args[0], strings.Join(pipeline.Names(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Config load failed", "error", err.Error())
	}

	names := pipeline.Names()
	if *stepsFlag != "" {
		names = names[:0]
		for _, s := range strings.Split(*stepsFlag, ",") {
			if s = strings.TrimSpace(s); s != "" {
				names = append(names, s)
			}
		}
	}

	ctx := context.Background()
	deps := &pipeline.Deps{Log: log, Cfg: cfg}

	if anyStep(names, needsGraph) || *reset {
		log.Info("Connecting to Neo4j...")
		client, err := neo4jdb.NewFromEnv(log)
		if err != nil {
			log.Fatal("Neo4j init failed", "error", err.Error())
		}
		defer client.Close(ctx)
		deps.Graph = client

		if *reset {
			log.Info("Resetting database...")
			if err := graph.Reset(ctx, client); err != nil {
				log.Fatal("Database reset failed", "error", err.Error())
			}
		}
	}

	if anyStep(names, needsEmbedder) {
		emb, err := embedder.NewFromEnv(log)
		if err != nil {
			log.Fatal("Embedder init failed", "error", err.Error())
		}
		deps.Embedder = emb
	}

	results, err := pipeline.Run(ctx, deps, names)
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		}
		log.Info("Step summary",
			"step", r.Name, "status", status,
			"rows", r.Rows, "nodes", r.Nodes, "edges", r.Edges)
	}
	if err != nil {
		log.Error("Pipeline finished with failures", "error", err.Error())
		os.Exit(1)
	}
	log.Info("Pipeline finished")
}

func anyStep(names []string, want map[string]bool) bool {
	for _, n := range names {
		if want[n] {
			return true
		}
	}
	return false
}
