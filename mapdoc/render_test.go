package mapdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/streetpaws/feedpoint/points"
)

func TestRenderEmpty(t *testing.T) {
	if _, err := Render(nil); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("err = %v, want ErrNoPoints", err)
	}
}

func TestRenderCenterAndMarkers(t *testing.T) {
	doc, err := Render([]points.Record{
		{Latitude: 40, Longitude: 28, Description: "a", Schedule: "s"},
		{Latitude: 42, Longitude: 30, Description: "b", Schedule: "s"},
		{Latitude: 41, Longitude: 29, Description: "c", Schedule: "s"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(doc)

	// The JS escaper pads interpolated numbers with spaces.
	compact := strings.ReplaceAll(html, " ", "")
	if !strings.Contains(compact, "setView([41,29],13)") {
		t.Errorf("mean center missing:\n%s", html)
	}
	if got := strings.Count(html, "L.marker("); got != 3 {
		t.Errorf("marker count = %d, want 3", got)
	}
	if !strings.Contains(html, "leaflet@1.9.4") {
		t.Error("leaflet assets not referenced")
	}
}

func TestRenderEscapesFreeText(t *testing.T) {
	doc, err := Render([]points.Record{{
		Latitude:    41,
		Longitude:   29,
		Description: `<script>alert("x")</script>`,
		Schedule:    "18:00",
		OwnerName:   "ayse",
	}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(doc)

	if strings.Contains(html, `<script>alert`) {
		t.Error("description injected unescaped markup")
	}
	// popupHTML's entity escapes pass through the JS-string escaper,
	// which rewrites & to \u0026.
	if !strings.Contains(html, `\u0026lt;script\u0026gt;`) {
		t.Errorf("escaped description not found:\n%s", html)
	}
}

func TestRenderAnonymousOwner(t *testing.T) {
	doc, err := Render([]points.Record{{
		Latitude:    41,
		Longitude:   29,
		Description: "d",
		Schedule:    "s",
	}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(doc), points.AnonymousOwner) {
		t.Error("missing anonymous owner label")
	}
}
