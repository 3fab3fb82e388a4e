package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Manifest describes one set of written artifacts
type Manifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt string         `json:"generated_at"`
	Stops       int            `json:"stops"`
	Segments    int            `json:"segments"`
	RoadPaths   int            `json:"road_paths"`
	Files       []ManifestFile `json:"files"`
}

// ManifestFile is one written file and its checksum
type ManifestFile struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Bytes    int    `json:"bytes"`
}

// Artifacts lists what WriteOutputs should write into Dir
type Artifacts struct {
	Dir         string
	RunID       string
	MapFile     string
	GeoJSONFile string
	Collection  *geojson.FeatureCollection
	Page        Page
}

// WriteOutputs writes the GeoJSON, the map page and manifest.json
func WriteOutputs(a Artifacts) (*Manifest, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manifest{
		RunID:       a.RunID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range a.Collection.Features {
		switch f.Properties.MustString("kind", "") {
		case KindStop:
			m.Stops++
		case KindSegment:
			m.Segments++
		case KindRoad:
			m.RoadPaths++
		}
	}

	collection, err := json.MarshalIndent(a.Collection, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	entry, err := writeFile(a.Dir, a.GeoJSONFile, collection)
	if err != nil {
		return nil, err
	}
	m.Files = append(m.Files, entry)

	var page bytes.Buffer
	if err := WriteHTML(&page, a.Page); err != nil {
		return nil, err
	}
	entry, err = writeFile(a.Dir, a.MapFile, page.Bytes())
	if err != nil {
		return nil, err
	}
	m.Files = append(m.Files, entry)

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if _, err := writeFile(a.Dir, "manifest.json", manifest); err != nil {
		return nil, err
	}

	return m, nil
}

func writeFile(dir, name string, data []byte) (ManifestFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return ManifestFile{}, fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return ManifestFile{}, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return ManifestFile{Path: name, Checksum: sha256Sum(data), Bytes: len(data)}, nil
}

func sha256Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
