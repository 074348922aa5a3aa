package pipeline

import (
	"time"

	"github.com/ironsheep/coral-annotate/internal/detection"
)

// LastDetectionFormat is the layout of DetectionRun.LastDetection.
const LastDetectionFormat = "2006-01-02_15:04:05"

// TargetResult is the outcome of one target label for one image.
type TargetResult struct {
	// Label is the target label.
	Label string `json:"label"`

	// Confidences lists the rounded percentages of every detection carrying
	// this label, qualifying or not, in response order.
	Confidences []float64 `json:"confidences"`

	// Found counts the confidences at or above the threshold.
	Found int `json:"found"`
}

// DetectionRun is the result of processing one source image. A new value is
// built for every image; nothing carries over between images.
type DetectionRun struct {
	// SourcePath is the processed image.
	SourcePath string `json:"source_path"`

	// Width and Height are the source dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Detections is the full response of the detection service.
	Detections []detection.Detection `json:"detections"`

	// Targets holds one entry per configured target, in configured order.
	Targets []TargetResult `json:"targets"`

	// Summary maps every label seen in the response to a count. See Summarize
	// for how the count is derived.
	Summary map[string]int `json:"summary"`

	// State is the total number of qualifying detections over all targets.
	State int `json:"state"`

	// LastDetection is set, in LastDetectionFormat, only when State > 0.
	LastDetection string `json:"last_detection,omitempty"`

	// CapturedAt is the timestamp used in every artifact name of this image.
	CapturedAt time.Time `json:"captured_at"`

	// Artifacts lists the files written for this image.
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Artifact is one annotated image written to disk.
type Artifact struct {
	Pass  RenderPass `json:"pass"`
	Path  string     `json:"path"`
	Boxes int        `json:"boxes"`
}

// Evaluate computes the per-target results and the overall state.
//
// For each target, in order, every detection with that exact label
// contributes its rounded confidence percentage; Found counts those at or
// above threshold. State is the sum of all Found values, so a target listed
// twice is counted twice.
func Evaluate(dets []detection.Detection, targets []string, threshold float64) ([]TargetResult, int) {
	results := make([]TargetResult, 0, len(targets))
	state := 0

	for _, target := range targets {
		res := TargetResult{Label: target, Confidences: []float64{}}
		for _, d := range dets {
			if d.Label != target {
				continue
			}
			res.Confidences = append(res.Confidences, d.ConfidencePercent())
			if d.QualifiesFor(target, threshold) {
				res.Found++
			}
		}
		state += res.Found
		results = append(results, res)
	}

	return results, state
}

// Summarize builds the label summary of a response.
//
// Every distinct label in dets becomes a key. All keys share one value: the
// number of detections whose label equals the last target in targets,
// regardless of threshold. This mirrors the long-standing behavior of the
// detector integration; a per-label count would be the natural alternative.
func Summarize(dets []detection.Detection, targets []string) map[string]int {
	summary := make(map[string]int)
	if len(dets) == 0 {
		return summary
	}

	count := 0
	if len(targets) > 0 {
		last := targets[len(targets)-1]
		for _, d := range dets {
			if d.Label == last {
				count++
			}
		}
	}

	for _, d := range dets {
		summary[d.Label] = count
	}
	return summary
}
