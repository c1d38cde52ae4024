// Package pipeline runs the dataset commands: format conversion with
// resampling and splitting, resizing in place of a save directory, and
// renumbering.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/coco"
	"github.com/jackvalmadre/dataset-tools/config"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/devkit"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/yolo"
)

// Env carries the collaborators of a run.
type Env struct {
	Log *slog.Logger
}

func (e Env) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// Result summarizes a run. Records that failed are listed in Errors and
// are missing from the output.
type Result struct {
	Subsets  []dataset.Subset
	Registry *category.Registry
	Written  int
	Errors   *report.Errors
}

// Count returns the number of records written to a subset.
func (r *Result) Count(subset string) int {
	for _, sub := range r.Subsets {
		if sub.Name == subset {
			return len(sub.Records)
		}
	}
	return 0
}

// Encoder writes one output format.
type Encoder interface {
	// ImagePath returns where an image file of a subset is written.
	ImagePath(subset, file string) string
	// Check returns the error encoding the record would give, so that
	// bad records are dropped before the split.
	Check(r *dataset.Record, reg *category.Registry) error
	// Encode writes the annotations of one subset whose images have been
	// written.
	Encode(sub dataset.Subset, reg *category.Registry) error
	// Finish writes files that depend on every subset.
	Finish(subs []dataset.Subset, reg *category.Registry) error
}

// NewEncoder returns the encoder for cfg.Format rooted at cfg.SaveDir.
func NewEncoder(cfg *config.Config) (Encoder, error) {
	switch cfg.Format {
	case "coco":
		return &coco.Writer{Root: cfg.SaveDir, Options: coco.Options{LegacyOffset: cfg.COCO.LegacyOffset}}, nil
	case "yolo":
		return &yolo.Writer{Root: cfg.SaveDir}, nil
	case "voc":
		return &devkit.Writer{Root: cfg.SaveDir}, nil
	}
	return nil, report.Configf("unknown format %q", cfg.Format)
}

// stopped reports whether the run should end before the next record.
func stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
