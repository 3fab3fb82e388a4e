package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/network"
)

// Run is everything exported for one execution of the pipeline
type Run struct {
	RunID        string
	CreatedAt    time.Time
	SourceCSV    string
	ClusterLevel int
	Graph        *network.Graph
	Summary      network.Summary
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.New().String()
}

// WriteRun stores the graph, route lengths and summary of r in one transaction
func (db *DB) WriteRun(ctx context.Context, r Run) error {
	if r.RunID == "" {
		r.RunID = NewRunID()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s := r.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at_utc, source_csv, routes, stops, edges, components)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.UTC().Format(time.RFC3339), r.SourceCSV,
		s.Routes, s.UniqueStops, s.Edges, s.Components,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertStops(ctx, tx, r); err != nil {
		return err
	}
	if err := insertSegments(ctx, tx, r); err != nil {
		return err
	}
	if err := insertRouteLengths(ctx, tx, r); err != nil {
		return err
	}
	if err := insertMetrics(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	log.Printf("Exported run %s: %d stops, %d segments, %d route lengths",
		r.RunID, s.UniqueStops, s.Edges, len(s.RouteLengths))
	return nil
}

func insertStops(ctx context.Context, tx *sql.Tx, r Run) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stops (run_id, stop_idx, latitude, longitude, degree, cluster_token)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stops statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range r.Graph.Nodes() {
		var token *string
		if r.ClusterLevel > 0 {
			t := geo.ClusterToken(c, r.ClusterLevel)
			token = &t
		}
		if _, err := stmt.ExecContext(ctx, r.RunID, i, c.Lat, c.Lon, r.Graph.Degree(c), token); err != nil {
			return fmt.Errorf("failed to insert stop %v: %w", c, err)
		}
	}
	return nil
}

func insertSegments(ctx context.Context, tx *sql.Tx, r Run) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (run_id, from_idx, to_idx, line, weight_km) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare segments statement: %w", err)
	}
	defer stmt.Close()

	index := make(map[geo.Coordinate]int)
	for i, c := range r.Graph.Nodes() {
		index[c] = i
	}

	for _, e := range r.Graph.Edges() {
		if _, err := stmt.ExecContext(ctx, r.RunID, index[e.From], index[e.To], e.Line, e.WeightKM); err != nil {
			return fmt.Errorf("failed to insert segment %v -> %v: %w", e.From, e.To, err)
		}
	}
	return nil
}

func insertRouteLengths(ctx context.Context, tx *sql.Tx, r Run) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO route_lengths (run_id, line, stops, length_km) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare route lengths statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range r.Summary.RouteLengths {
		if _, err := stmt.ExecContext(ctx, r.RunID, l.Line, l.Stops, l.LengthKM); err != nil {
			return fmt.Errorf("failed to insert length of line %d: %w", l.Line, err)
		}
	}
	return nil
}

func insertMetrics(ctx context.Context, tx *sql.Tx, r Run) error {
	s := r.Summary
	measures := []struct {
		name string
		m    network.Measure
	}{
		{"diameter_km", s.Diameter},
		{"average_path_km", s.AveragePath},
		{"shortest_route_km", s.ShortestRoute},
		{"longest_route_km", s.LongestRoute},
		{"average_route_km", s.AverageRoute},
		{"route_length_stddev_km", s.RouteLengthDev},
	}

	for _, entry := range measures {
		var value *float64
		var note *string
		if entry.m.Valid {
			v := entry.m.Value
			value = &v
		} else {
			n := entry.m.Reason
			note = &n
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO metrics (run_id, name, value, note) VALUES (?, ?, ?, ?)`,
			r.RunID, entry.name, value, note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert metric %s: %w", entry.name, err)
		}
	}
	return nil
}
