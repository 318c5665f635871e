// Package mapdoc renders the approved feeding points as a standalone
// HTML map document suitable for delivery as a file attachment.
package mapdoc

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/streetpaws/feedpoint/points"
)

// ErrNoPoints is returned when there is nothing to plot; callers show a
// "no locations" message instead of a map with an undefined center.
var ErrNoPoints = errors.New("mapdoc: no points to render")

const defaultZoom = 13

type marker struct {
	Lat   float64
	Lon   float64
	Popup string
}

type page struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []marker
}

var pageTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Mama Noktaları</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap'
}).addTo(map);
{{range .Markers}}L.marker([{{.Lat}}, {{.Lon}}]).addTo(map).bindPopup({{.Popup}});
{{end}}</script>
</body>
</html>
`))

// Render produces the map document with one marker per record and the
// arithmetic-mean coordinate as center. Popup content is HTML-escaped
// before embedding so free-text fields cannot inject markup.
func Render(records []points.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoPoints
	}

	var sumLat, sumLon float64
	markers := make([]marker, 0, len(records))
	for _, r := range records {
		sumLat += r.Latitude
		sumLon += r.Longitude
		markers = append(markers, marker{
			Lat:   r.Latitude,
			Lon:   r.Longitude,
			Popup: popupHTML(r),
		})
	}

	p := page{
		CenterLat: sumLat / float64(len(records)),
		CenterLon: sumLon / float64(len(records)),
		Zoom:      defaultZoom,
		Markers:   markers,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("mapdoc: render: %w", err)
	}
	return buf.Bytes(), nil
}

func popupHTML(r points.Record) string {
	return fmt.Sprintf("<b>%s</b><br>⏰ %s<br>👤 %s",
		template.HTMLEscapeString(r.Description),
		template.HTMLEscapeString(r.Schedule),
		template.HTMLEscapeString(r.DisplayName()),
	)
}
