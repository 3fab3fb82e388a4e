package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mini-jeepney/network/internal/config"
	"github.com/mini-jeepney/network/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	csvPath := flag.String("csv", "", "Route table CSV (overrides ROUTES_CSV)")
	maxRows := flag.Int("max-rows", -1, "Read at most this many rows, 0 for all (overrides MAX_ROWS)")
	dbPath := flag.String("db", "", "Export the network into this SQLite file (overrides EXPORT_DATABASE)")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *csvPath != "" {
		cfg.RoutesCSV = *csvPath
	}
	if *maxRows >= 0 {
		cfg.MaxRows = *maxRows
	}
	if *dbPath != "" {
		cfg.ExportDatabase = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 1: Load routes and build the graph
	// ═══════════════════════════════════════════════════════
	res, err := pipeline.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 2: Optional database export
	// ═══════════════════════════════════════════════════════
	if err := pipeline.Export(context.Background(), cfg, res); err != nil {
		log.Fatalf("Failed to export network: %v", err)
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 3: Summary
	// ═══════════════════════════════════════════════════════
	log.Printf("Graph Information: %d nodes, %d edges", res.Graph.NodeCount(), res.Graph.EdgeCount())
	if _, err := res.Summary.WriteTo(os.Stdout); err != nil {
		log.Fatalf("Failed to print summary: %v", err)
	}
}
