package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Defaults()
	if cfg.RoutesCSV != want.RoutesCSV {
		t.Errorf("RoutesCSV = %q, want %q", cfg.RoutesCSV, want.RoutesCSV)
	}
	if cfg.ZoomStart != 13 {
		t.Errorf("ZoomStart = %d, want 13", cfg.ZoomStart)
	}
	if cfg.SnappingEnabled() {
		t.Error("snapping should be disabled without an OSM file")
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yml", `
routesCSV: manila/jeepney_lines.csv
maxRows: 10
osmFile: manila.osm.pbf
minLat: 4.5
maxLat: 21.5
minLon: 116
maxLon: 127
`)
	t.Setenv("MAX_ROWS", "15")
	t.Setenv("OUTPUT_DIR", "build")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RoutesCSV != "manila/jeepney_lines.csv" {
		t.Errorf("RoutesCSV = %q, want value from YAML", cfg.RoutesCSV)
	}
	if cfg.MaxRows != 15 {
		t.Errorf("MaxRows = %d, env should override YAML", cfg.MaxRows)
	}
	if cfg.OutputDir != "build" {
		t.Errorf("OutputDir = %q, want build", cfg.OutputDir)
	}
	if !cfg.SnappingEnabled() {
		t.Error("snapping should be enabled when osmFile is set")
	}
	if cfg.MinLat != 4.5 || cfg.MaxLon != 127 {
		t.Errorf("bounds not loaded from YAML: %+v", cfg)
	}
	// untouched keys keep defaults
	if cfg.MapFile != "jeepney_map.html" {
		t.Errorf("MapFile = %q, want default", cfg.MapFile)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load should fail for a missing config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "invalid: yaml: content: [[[")
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative max rows", "maxRows: -1\n"},
		{"inverted latitude bounds", "minLat: 20\nmaxLat: 10\n"},
		{"cluster level too deep", "clusterLevel: 31\n"},
		{"empty routes csv", "routesCSV: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yml", tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load should reject %q", tt.content)
			}
		})
	}
}

func TestLoad_IgnoresMalformedEnv(t *testing.T) {
	t.Setenv("MAX_ROWS", "ten")
	t.Setenv("CLUSTER_STOPS", "maybe")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MaxRows != 0 {
		t.Errorf("MaxRows = %d, want default 0", cfg.MaxRows)
	}
	if !cfg.ClusterStops {
		t.Error("ClusterStops should keep its default")
	}
}
