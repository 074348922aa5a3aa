package pipeline

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"time"

	"github.com/ironsheep/coral-annotate/internal/detection"
)

// PassKind tells the two artifact categories apart.
type PassKind int

const (
	// Aggregate draws every qualifying detection of every target.
	Aggregate PassKind = iota

	// PerTarget draws only the qualifying detections of one label.
	PerTarget
)

func (k PassKind) String() string {
	switch k {
	case Aggregate:
		return "aggregate"
	case PerTarget:
		return "per-target"
	default:
		return "unknown"
	}
}

// RenderPass selects which detections one artifact shows.
type RenderPass struct {
	Kind PassKind

	// Label is the target of a PerTarget pass; empty for Aggregate.
	Label string
}

// AggregatePass returns the pass producing the "all" artifact.
func AggregatePass() RenderPass {
	return RenderPass{Kind: Aggregate}
}

// TargetPass returns the pass producing the artifact for label.
func TargetPass(label string) RenderPass {
	return RenderPass{Kind: PerTarget, Label: label}
}

func (p RenderPass) String() string {
	if p.Kind == PerTarget {
		return p.Kind.String() + ":" + p.Label
	}
	return p.Kind.String()
}

// MarshalJSON encodes the pass as its String form.
func (p RenderPass) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Includes reports whether d is drawn by this pass.
//
// An Aggregate pass includes a detection whose label is one of targets and
// whose confidence meets the threshold. A PerTarget pass includes only
// qualifying detections of its own label.
func (p RenderPass) Includes(d detection.Detection, targets []string, threshold float64) bool {
	switch p.Kind {
	case Aggregate:
		return slices.Contains(targets, d.Label) && d.QualifiesFor(d.Label, threshold)
	case PerTarget:
		return d.QualifiesFor(p.Label, threshold)
	default:
		return false
	}
}

// Artifact file name layouts.
const (
	dateLayout = "20060102"
	timeLayout = "150405"
)

// LatestPath is <dir>/<name>_latest_all.jpg, overwritten on every qualifying image.
func LatestPath(dir, name string) string {
	return filepath.Join(dir, name+"_latest_all.jpg")
}

// StampedPath is <dir>/<name>_all_<YYYYMMDD>_<HHMMSS>.jpg.
func StampedPath(dir, name string, at time.Time) string {
	return filepath.Join(dir, name+"_all_"+stamp(at)+".jpg")
}

// TargetPath is <dir>/<target>/<name>_<target>_<YYYYMMDD>_<HHMMSS>.jpg.
func TargetPath(dir, name, target string, at time.Time) string {
	return filepath.Join(dir, target, name+"_"+target+"_"+stamp(at)+".jpg")
}

func stamp(at time.Time) string {
	return at.Format(dateLayout) + "_" + at.Format(timeLayout)
}
