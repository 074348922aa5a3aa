package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/coral-annotate/internal/detection"
	"github.com/ironsheep/coral-annotate/internal/imaging"
)

// Detector returns the detections for one image file.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]detection.Detection, error)
}

// ImageIOError reports that a source image could not be read or an artifact
// could not be written. It ends the processing of that one image.
type ImageIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ImageIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImageIOError) Unwrap() error {
	return e.Err
}

// Options configures a Processor.
type Options struct {
	// Targets are the labels of interest, in order.
	Targets []string

	// Threshold is the minimum confidence percentage.
	Threshold float64

	// OutputDir receives the artifacts. Per-target subdirectories must exist.
	OutputDir string

	// Timestamp enables the durable timestamped copy of the aggregate artifact.
	Timestamp bool

	// Name prefixes artifact file names.
	Name string

	// Palette colors the two render passes. Nil means DefaultPalette.
	Palette *imaging.Palette

	// Now returns the current local time. Nil means time.Now.
	Now func() time.Time

	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Processor turns one source image into a DetectionRun and its artifacts.
type Processor struct {
	detector Detector
	opts     Options
	palette  imaging.Palette
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a Processor using detector for inference.
func New(detector Detector, opts Options) *Processor {
	p := &Processor{
		detector: detector,
		opts:     opts,
		palette:  imaging.DefaultPalette(),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	if opts.Palette != nil {
		p.palette = *opts.Palette
	}
	if opts.Now != nil {
		p.now = opts.Now
	}
	if opts.Logger != nil {
		p.logger = opts.Logger
	}
	return p
}

// Process runs detection on the image at imagePath and writes its artifacts.
//
// Steps:
//  1. Decode the source for its dimensions.
//  2. Ask the detector for detections. Transport failures and service
//     rejections are logged and treated as an empty response.
//  3. Evaluate every target; State is the total qualifying count.
//  4. With State == 0 the run ends with no artifacts.
//  5. Otherwise build the summary, stamp LastDetection, write the aggregate
//     artifact (plus the timestamped copy if enabled) and one artifact per
//     target that has at least one qualifying detection.
//
// Errors are *ImageIOError values for unreadable sources or unwritable
// destinations. The returned run is non-nil whenever the source was decoded,
// even on error, and lists the artifacts written before the failure.
func (p *Processor) Process(ctx context.Context, imagePath string) (*DetectionRun, error) {
	log := p.logger.With(zap.String("image", imagePath))

	src, err := imaging.Open(imagePath)
	if err != nil {
		return nil, &ImageIOError{Op: "read source", Path: imagePath, Err: err}
	}
	log.Debug("source decoded", zap.Int("width", src.Width), zap.Int("height", src.Height))

	run := &DetectionRun{
		SourcePath: imagePath,
		Width:      src.Width,
		Height:     src.Height,
		Detections: []detection.Detection{},
		Targets:    []TargetResult{},
		Summary:    map[string]int{},
	}

	dets, err := p.detector.Detect(ctx, imagePath)
	switch {
	case errors.Is(err, detection.ErrServiceRejected):
		log.Warn("detection service made no predictions", zap.Error(err))
		return run, nil
	case errors.Is(err, detection.ErrTransport):
		log.Error("detection request failed", zap.Error(err))
		return run, nil
	case err != nil:
		return run, &ImageIOError{Op: "upload source", Path: imagePath, Err: err}
	}

	log.Info("predictions received", zap.Int("count", len(dets)), zap.Any("predictions", dets))
	if len(dets) == 0 {
		return run, nil
	}
	run.Detections = dets

	run.Targets, run.State = Evaluate(dets, p.opts.Targets, p.opts.Threshold)
	for _, t := range run.Targets {
		log.Debug("target evaluated",
			zap.String("target", t.Label),
			zap.Float64s("confidences", t.Confidences),
			zap.Int("found", t.Found))
	}
	if run.State == 0 {
		log.Info("no target met the confidence threshold", zap.Float64("threshold", p.opts.Threshold))
		return run, nil
	}

	run.Summary = Summarize(dets, p.opts.Targets)
	now := p.now()
	run.LastDetection = now.Format(LastDetectionFormat)
	run.CapturedAt = now
	log.Info("targets detected",
		zap.Int("state", run.State),
		zap.Any("summary", run.Summary),
		zap.String("last_detection", run.LastDetection))

	if err := p.writeArtifacts(src, run, log); err != nil {
		return run, err
	}
	return run, nil
}

// writeArtifacts renders and saves the aggregate and per-target artifacts.
func (p *Processor) writeArtifacts(src *imaging.Source, run *DetectionRun, log *zap.Logger) error {
	dir := p.opts.OutputDir
	name := p.opts.Name

	all := AggregatePass()
	surface, boxes := p.render(src, run.Detections, all)

	latest := LatestPath(dir, name)
	if err := imaging.SaveJPEG(latest, surface.Image()); err != nil {
		return &ImageIOError{Op: "write aggregate", Path: latest, Err: err}
	}
	run.Artifacts = append(run.Artifacts, Artifact{Pass: all, Path: latest, Boxes: boxes})
	log.Info("saved bounding box image", zap.String("path", latest), zap.Int("boxes", boxes))

	if p.opts.Timestamp {
		stamped := StampedPath(dir, name, run.CapturedAt)
		if err := imaging.SaveJPEGDurable(stamped, surface.Image()); err != nil {
			return &ImageIOError{Op: "write timestamped aggregate", Path: stamped, Err: err}
		}
		run.Artifacts = append(run.Artifacts, Artifact{Pass: all, Path: stamped, Boxes: boxes})
		log.Info("saved timestamped bounding box image", zap.String("path", stamped))
	}

	seen := make(map[string]bool, len(p.opts.Targets))
	for _, target := range p.opts.Targets {
		if seen[target] {
			continue
		}
		seen[target] = true

		pass := TargetPass(target)
		surface, boxes := p.render(src, run.Detections, pass)
		if boxes == 0 {
			continue
		}

		path := TargetPath(dir, name, target, run.CapturedAt)
		if err := imaging.SaveJPEG(path, surface.Image()); err != nil {
			return &ImageIOError{Op: "write target " + target, Path: path, Err: err}
		}
		run.Artifacts = append(run.Artifacts, Artifact{Pass: pass, Path: path, Boxes: boxes})
		log.Info("saved target image", zap.String("target", target), zap.String("path", path), zap.Int("boxes", boxes))
	}

	return nil
}

// render draws the detections selected by pass onto a fresh copy of the
// source and returns the surface with the number of boxes drawn.
func (p *Processor) render(src *imaging.Source, dets []detection.Detection, pass RenderPass) (*imaging.Surface, int) {
	c := p.palette.Aggregate
	if pass.Kind == PerTarget {
		c = p.palette.Target
	}

	surface := src.Surface()
	boxes := 0
	for _, d := range dets {
		if !pass.Includes(d, p.opts.Targets, p.opts.Threshold) {
			continue
		}
		box := detection.ToPixelBox(d, src.Width, src.Height)
		p.logger.Debug("drawing box",
			zap.Stringer("pass", pass),
			zap.String("label", d.Label),
			zap.Float64("left", box.Left), zap.Float64("top", box.Top),
			zap.Float64("right", box.Right), zap.Float64("bottom", box.Bottom))
		surface.DrawBox(box, d.ConfidenceText(), c)
		boxes++
	}
	return surface, boxes
}
