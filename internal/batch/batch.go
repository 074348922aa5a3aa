// Package batch drives one pass over the watch folder: every entry present at
// start is sent through the per-image pipeline, then every file is removed.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/coral-annotate/internal/config"
	"github.com/ironsheep/coral-annotate/internal/detection"
	"github.com/ironsheep/coral-annotate/internal/pipeline"
)

// Report counts what one batch did.
type Report struct {
	// RunID identifies the batch in the logs.
	RunID string `json:"run_id"`

	// Listed is the number of entries found in the source folder at start.
	Listed int `json:"listed"`

	// Processed is the number of entries that went through the pipeline
	// without error, whether or not anything was detected.
	Processed int `json:"processed"`

	// Failed is the number of entries whose processing returned an error.
	Failed int `json:"failed"`

	// Detected is the number of images with at least one qualifying detection.
	Detected int `json:"detected"`

	// Removed is the number of source files deleted at the end.
	Removed int `json:"removed"`
}

// Run processes the source folder described by cfg.
//
// Target subdirectories are created under the output folder first. Each entry
// of the source folder is then processed in order; per-image failures are
// logged and counted but never stop the loop. Finally every non-directory
// entry listed at start is deleted, including those that failed.
//
// An error is returned only when the batch cannot start: the source folder
// cannot be listed or an output directory cannot be created.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &Report{RunID: uuid.NewString()}
	log := logger.With(zap.String("run_id", report.RunID))

	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return report, fmt.Errorf("failed to list source folder: %w", err)
	}
	report.Listed = len(entries)
	log.Info("batch started",
		zap.String("source", cfg.SourceDir),
		zap.String("output", cfg.OutputDir),
		zap.Strings("targets", cfg.Targets),
		zap.Int("confidence", cfg.Confidence),
		zap.Int("entries", len(entries)))

	if err := ensureTargetDirs(cfg.OutputDir, cfg.Targets); err != nil {
		return report, err
	}

	client := detection.NewClient(cfg.Host, cfg.Port, detection.WithLogger(log))
	proc := pipeline.New(client, pipeline.Options{
		Targets:   cfg.Targets,
		Threshold: cfg.Threshold(),
		OutputDir: cfg.OutputDir,
		Timestamp: cfg.Timestamp,
		Name:      cfg.Name,
		Palette:   cfg.Palette,
		Logger:    log,
	})

	for _, entry := range entries {
		path := filepath.Join(cfg.SourceDir, entry.Name())
		run, err := proc.Process(ctx, path)
		if err != nil {
			report.Failed++
			var ioErr *pipeline.ImageIOError
			if errors.As(err, &ioErr) {
				log.Error("image processing failed",
					zap.String("image", path),
					zap.String("op", ioErr.Op),
					zap.String("path", ioErr.Path),
					zap.Error(ioErr.Err))
			} else {
				log.Error("image processing failed", zap.String("image", path), zap.Error(err))
			}
			continue
		}
		report.Processed++
		if run.State > 0 {
			report.Detected++
		}
	}

	report.Removed = removeSources(cfg.SourceDir, entries, log)

	log.Info("batch finished",
		zap.Int("listed", report.Listed),
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed),
		zap.Int("detected", report.Detected),
		zap.Int("removed", report.Removed))
	return report, nil
}

// ensureTargetDirs creates <outputDir>/<target> for every target.
func ensureTargetDirs(outputDir string, targets []string) error {
	for _, target := range targets {
		dir := filepath.Join(outputDir, target)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create target folder %s: %w", dir, err)
		}
	}
	return nil
}

// removeSources deletes the files among entries and returns how many were
// removed. Directories are left alone and a failed removal does not stop the
// others.
func removeSources(dir string, entries []os.DirEntry, log *zap.Logger) int {
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove source file", zap.String("image", path), zap.Error(err))
			continue
		}
		removed++
	}
	log.Debug("source folder cleared", zap.Int("removed", removed))
	return removed
}
