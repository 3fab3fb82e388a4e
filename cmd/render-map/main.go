package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mini-jeepney/network/internal/config"
	"github.com/mini-jeepney/network/internal/pipeline"
	"github.com/mini-jeepney/network/internal/render"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	csvPath := flag.String("csv", "", "Route table CSV (overrides ROUTES_CSV)")
	osmPath := flag.String("osm", "", "OSM extract (.osm or .osm.pbf) for street snapping (overrides OSM_FILE)")
	outputDir := flag.String("output", "", "Output directory (overrides OUTPUT_DIR)")
	noCluster := flag.Bool("no-cluster", false, "Disable marker clustering")
	dbPath := flag.String("db", "", "Also export the network into this SQLite file")
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
	if *osmPath != "" {
		cfg.OSMFile = *osmPath
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *noCluster {
		cfg.ClusterStops = false
	}
	if *dbPath != "" {
		cfg.ExportDatabase = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	ctx := context.Background()

	// ═══════════════════════════════════════════════════════
	// PHASE 1: Load routes and build the graph
	// ═══════════════════════════════════════════════════════
	res, err := pipeline.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 2: Map artifacts (with optional street snapping)
	// ═══════════════════════════════════════════════════════
	manifest, err := pipeline.Render(ctx, cfg, res)
	if err != nil {
		log.Fatalf("Failed to render map: %v", err)
	}
	log.Printf("Run %s: %d stops, %d segments, %d road paths",
		manifest.RunID, manifest.Stops, manifest.Segments, manifest.RoadPaths)

	// ═══════════════════════════════════════════════════════
	// PHASE 3: Optional database export
	// ═══════════════════════════════════════════════════════
	if err := pipeline.Export(ctx, cfg, res); err != nil {
		log.Fatalf("Failed to export network: %v", err)
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 4: Summary
	// ═══════════════════════════════════════════════════════
	if _, err := res.Summary.WriteTo(os.Stdout); err != nil {
		log.Fatalf("Failed to print summary: %v", err)
	}
	if cfg.ClusterLevel > 0 {
		clusters := render.ClusterStops(res.Graph, cfg.ClusterLevel)
		fmt.Printf("Stop clusters (S2 level %d): %d\n", cfg.ClusterLevel, len(clusters))
	}
}
