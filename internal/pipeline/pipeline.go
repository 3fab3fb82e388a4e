// Package pipeline runs the batch steps shared by the command line tools:
// load routes, build the graph, summarise it, and write the optional
// map artifacts and database export.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mini-jeepney/network/internal/config"
	"github.com/mini-jeepney/network/internal/db"
	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/network"
	"github.com/mini-jeepney/network/internal/render"
	"github.com/mini-jeepney/network/internal/route"
	"github.com/mini-jeepney/network/internal/streets"
)

// Result is the network built from one route table
type Result struct {
	RunID   string
	Routes  []route.Route
	Load    route.LoadStats
	Graph   *network.Graph
	Summary network.Summary
}

// Build loads the routes named by cfg and computes the network summary.
// An unreadable route table is the only error.
func Build(cfg *config.Config) (*Result, error) {
	routes, stats, err := route.Load(cfg.RoutesCSV, route.Options{
		MaxRows: cfg.MaxRows,
		Bounds:  bounds(cfg),
	})
	if err != nil {
		return nil, err
	}

	g := network.Build(routes)
	return &Result{
		RunID:   db.NewRunID(),
		Routes:  routes,
		Load:    stats,
		Graph:   g,
		Summary: network.Compute(g, routes),
	}, nil
}

func bounds(cfg *config.Config) geo.Bounds {
	return geo.Bounds{MinLat: cfg.MinLat, MaxLat: cfg.MaxLat, MinLon: cfg.MinLon, MaxLon: cfg.MaxLon}
}

// Export writes res into the SQLite file named by cfg, if any
func Export(ctx context.Context, cfg *config.Config, res *Result) error {
	if cfg.ExportDatabase == "" {
		return nil
	}

	database, err := db.Connect(cfg.ExportDatabase)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	return database.WriteRun(ctx, db.Run{
		RunID:        res.RunID,
		CreatedAt:    time.Now(),
		SourceCSV:    cfg.RoutesCSV,
		ClusterLevel: cfg.ClusterLevel,
		Graph:        res.Graph,
		Summary:      res.Summary,
	})
}

// SnapRoads routes every graph edge over the street network when an OSM
// extract is configured. Without one it returns nil.
func SnapRoads(ctx context.Context, cfg *config.Config, g *network.Graph) ([]render.RoadPath, error) {
	if !cfg.SnappingEnabled() {
		return nil, nil
	}

	bbox, ok := g.Bounds()
	if !ok {
		log.Println("Streets: no stops to snap")
		return nil, nil
	}
	bbox = bbox.Expand(cfg.BBoxMarginDeg)
	log.Printf("Bounding Box: North=%g, South=%g, East=%g, West=%g", bbox.MaxLat, bbox.MinLat, bbox.MaxLon, bbox.MinLon)

	roads, err := streets.LoadOSM(ctx, cfg.OSMFile, bbox)
	if err != nil {
		return nil, err
	}

	router := streets.NewRouter(roads, cfg.SnapCacheSize)
	paths := render.SnapEdges(g, router)

	hits, misses := router.CacheStats()
	log.Printf("Streets: snap cache %d hits, %d misses", hits, misses)
	return paths, nil
}

// Render writes the GeoJSON, map page and manifest into cfg.OutputDir
func Render(ctx context.Context, cfg *config.Config, res *Result) (*render.Manifest, error) {
	roads, err := SnapRoads(ctx, cfg, res.Graph)
	if err != nil {
		return nil, fmt.Errorf("failed to snap segments to streets: %w", err)
	}

	fc := render.GeoJSON(res.Graph, render.Options{
		ClusterLevel: cfg.ClusterLevel,
		RoadPaths:    roads,
	})

	center, ok := res.Graph.Center()
	if !ok {
		center = render.DefaultCenter
	}
	page, err := render.NewPage(fc, center, cfg.ZoomStart, cfg.ClusterStops)
	if err != nil {
		return nil, err
	}

	manifest, err := render.WriteOutputs(render.Artifacts{
		Dir:         cfg.OutputDir,
		RunID:       res.RunID,
		MapFile:     cfg.MapFile,
		GeoJSONFile: cfg.GeoJSONFile,
		Collection:  fc,
		Page:        page,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Map saved to %s", filepath.Join(cfg.OutputDir, cfg.MapFile))
	return manifest, nil
}
