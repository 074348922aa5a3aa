package pipeline

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/coral-annotate/internal/detection"
)

func TestRenderPass_Includes(t *testing.T) {
	targets := []string{"cat", "dog"}
	cat := detection.Detection{Label: "cat", Confidence: 0.6}
	weakCat := detection.Detection{Label: "cat", Confidence: 0.3}
	dog := detection.Detection{Label: "dog", Confidence: 0.8}
	bird := detection.Detection{Label: "bird", Confidence: 0.9}

	tests := []struct {
		name string
		pass RenderPass
		det  detection.Detection
		want bool
	}{
		{"aggregate includes qualifying target", AggregatePass(), cat, true},
		{"aggregate includes other target", AggregatePass(), dog, true},
		{"aggregate skips non-target label", AggregatePass(), bird, false},
		{"aggregate skips weak detection", AggregatePass(), weakCat, false},
		{"per-target includes own label", TargetPass("cat"), cat, true},
		{"per-target skips other target", TargetPass("cat"), dog, false},
		{"per-target skips weak detection", TargetPass("cat"), weakCat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pass.Includes(tt.det, targets, 50); got != tt.want {
				t.Errorf("Includes: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderPass_String(t *testing.T) {
	if got := AggregatePass().String(); got != "aggregate" {
		t.Errorf("aggregate: got %q", got)
	}
	if got := TargetPass("cat").String(); got != "per-target:cat" {
		t.Errorf("per-target: got %q", got)
	}

	b, err := json.Marshal(TargetPass("dog"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"per-target:dog"` {
		t.Errorf("json: got %s", b)
	}
}

func TestArtifactPaths(t *testing.T) {
	at := time.Date(2020, time.April, 3, 7, 5, 9, 0, time.Local)
	dir := filepath.Join("srv", "detected")

	if got, want := LatestPath(dir, "google_cams"), filepath.Join(dir, "google_cams_latest_all.jpg"); got != want {
		t.Errorf("LatestPath: got %q, want %q", got, want)
	}
	if got, want := StampedPath(dir, "google_cams", at), filepath.Join(dir, "google_cams_all_20200403_070509.jpg"); got != want {
		t.Errorf("StampedPath: got %q, want %q", got, want)
	}
	if got, want := TargetPath(dir, "google_cams", "cat", at), filepath.Join(dir, "cat", "google_cams_cat_20200403_070509.jpg"); got != want {
		t.Errorf("TargetPath: got %q, want %q", got, want)
	}
}
