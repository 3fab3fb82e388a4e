package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/paulmach/orb/geojson"

	"github.com/mini-jeepney/network/internal/geo"
)

// DefaultCenter is used when there are no stops to centre on (Manila)
var DefaultCenter = geo.Coordinate{Lat: 14.5995, Lon: 120.9842}

// Page is the data behind the map HTML
type Page struct {
	Title   string
	Center  geo.Coordinate
	Zoom    int
	Cluster bool
	GeoJSON string
}

// NewPage embeds fc into a page centred on center
func NewPage(fc *geojson.FeatureCollection, center geo.Coordinate, zoom int, cluster bool) (Page, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return Page{}, fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return Page{
		Title:   "Jeepney route network",
		Center:  center,
		Zoom:    zoom,
		Cluster: cluster,
		GeoJSON: string(data),
	}, nil
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
{{- if .Cluster}}
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
{{- end}}
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var data = JSON.parse({{.GeoJSON}});
var map = L.map('map').setView([{{.Center.Lat}}, {{.Center.Lon}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

L.geoJSON(data, {
  filter: function (f) { return f.geometry.type === 'LineString'; },
  style: function (f) {
    return f.properties.kind === 'road' ? {color: 'blue', weight: 2.5} : {color: 'red', weight: 2};
  }
}).addTo(map);

var stops = {{if .Cluster}}L.markerClusterGroup(){{else}}L.layerGroup(){{end}};
data.features.forEach(function (f) {
  if (f.geometry.type !== 'Point') { return; }
  var c = f.geometry.coordinates;
  L.circleMarker([c[1], c[0]], {radius: 5, color: 'blue', fill: true, fillColor: 'blue'})
    .bindPopup('Stop (' + c[1] + ', ' + c[0] + '), ' + f.properties.degree + ' connections')
    .addTo(stops);
});
stops.addTo(map);
</script>
</body>
</html>
`))

// WriteHTML renders p as a standalone Leaflet page
func WriteHTML(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}
