package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a network build run
type Config struct {
	// Input
	RoutesCSV string `yaml:"routesCSV" validate:"required"`
	MaxRows   int    `yaml:"maxRows" validate:"gte=0"`

	// Plausible region for stop coordinates
	MinLat float64 `yaml:"minLat" validate:"gte=-90,lte=90"`
	MaxLat float64 `yaml:"maxLat" validate:"gte=-90,lte=90,gtefield=MinLat"`
	MinLon float64 `yaml:"minLon" validate:"gte=-180,lte=180"`
	MaxLon float64 `yaml:"maxLon" validate:"gte=-180,lte=180,gtefield=MinLon"`

	// Street snapping (disabled when OSMFile is empty)
	OSMFile       string  `yaml:"osmFile"`
	BBoxMarginDeg float64 `yaml:"bboxMarginDeg" validate:"gte=0,lte=1"`
	SnapCacheSize int     `yaml:"snapCacheSize" validate:"gt=0"`

	// Map output
	OutputDir    string `yaml:"outputDir" validate:"required"`
	MapFile      string `yaml:"mapFile" validate:"required"`
	GeoJSONFile  string `yaml:"geojsonFile" validate:"required"`
	ZoomStart    int    `yaml:"zoomStart" validate:"gte=1,lte=20"`
	ClusterLevel int    `yaml:"clusterLevel" validate:"gte=0,lte=30"`
	ClusterStops bool   `yaml:"clusterStops"`

	// Optional SQLite export (disabled when empty)
	ExportDatabase string `yaml:"exportDatabase"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		RoutesCSV: "data/jeepney_lines.csv",

		MinLat: -90,
		MaxLat: 90,
		MinLon: -180,
		MaxLon: 180,

		BBoxMarginDeg: 0.005,
		SnapCacheSize: 10000,

		OutputDir:    "out",
		MapFile:      "jeepney_map.html",
		GeoJSONFile:  "jeepney_network.geojson",
		ZoomStart:    13,
		ClusterLevel: 15,
		ClusterStops: true,
	}
}

// Load builds the configuration in layers: defaults, then the optional YAML
// file at path, then environment variables (a .env file in the working
// directory is loaded first if present). The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Config: loaded .env")
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SnappingEnabled reports whether segments should be routed over streets
func (c *Config) SnappingEnabled() bool {
	return c.OSMFile != ""
}

func applyEnv(cfg *Config) {
	cfg.RoutesCSV = getEnv("ROUTES_CSV", cfg.RoutesCSV)
	cfg.MaxRows = getEnvInt("MAX_ROWS", cfg.MaxRows)

	cfg.MinLat = getEnvFloat("MIN_LAT", cfg.MinLat)
	cfg.MaxLat = getEnvFloat("MAX_LAT", cfg.MaxLat)
	cfg.MinLon = getEnvFloat("MIN_LON", cfg.MinLon)
	cfg.MaxLon = getEnvFloat("MAX_LON", cfg.MaxLon)

	cfg.OSMFile = getEnv("OSM_FILE", cfg.OSMFile)
	cfg.BBoxMarginDeg = getEnvFloat("BBOX_MARGIN_DEG", cfg.BBoxMarginDeg)
	cfg.SnapCacheSize = getEnvInt("SNAP_CACHE_SIZE", cfg.SnapCacheSize)

	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)
	cfg.MapFile = getEnv("MAP_FILE", cfg.MapFile)
	cfg.GeoJSONFile = getEnv("GEOJSON_FILE", cfg.GeoJSONFile)
	cfg.ZoomStart = getEnvInt("ZOOM_START", cfg.ZoomStart)
	cfg.ClusterLevel = getEnvInt("S2_CLUSTER_LEVEL", cfg.ClusterLevel)
	cfg.ClusterStops = getEnvBool("CLUSTER_STOPS", cfg.ClusterStops)

	cfg.ExportDatabase = getEnv("EXPORT_DATABASE", cfg.ExportDatabase)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Config: ignoring non-integer %s=%q", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Config: ignoring non-numeric %s=%q", key, value)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Config: ignoring non-boolean %s=%q", key, value)
	}
	return defaultValue
}
