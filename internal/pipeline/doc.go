// Package pipeline processes one source image: detection, filtering against
// the target labels and confidence threshold, and rendering of the annotated
// artifacts.
//
// # Qualification
//
// A detection qualifies for a target when its label equals the target and its
// confidence, in percent rounded to one decimal, is at least the threshold.
// The total number of qualifying detections over all targets is the run's
// State. Nothing is written when State is zero.
//
// # Artifacts
//
// Two render passes exist, each drawing on its own fresh copy of the source:
//
//   - Aggregate: every qualifying detection of every target, in red. Saved to
//     <out>/<name>_latest_all.jpg (always overwritten) and, when timestamping
//     is on, to <out>/<name>_all_<YYYYMMDD>_<HHMMSS>.jpg with an fsync.
//   - PerTarget(label): only that label's qualifying detections, in green.
//     Saved to <out>/<label>/<name>_<label>_<YYYYMMDD>_<HHMMSS>.jpg, and only
//     when at least one box was drawn.
//
// All artifacts of one image share the same capture timestamp.
//
// # Errors
//
// Detector transport failures and service rejections are logged and handled
// as "no detections". Failures to read the source or write an artifact are
// returned as *ImageIOError and stop the processing of that image only.
package pipeline
