package config

import (
	"log/slog"
	"strings"

	"github.com/nfnt/resize"

	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/imgio"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/split"
)

// Formats lists the accepted output formats.
var Formats = []string{"coco", "yolo", "voc"}

// Validate checks the settings and fills in defaults.
// Every problem is a *report.ConfigError.
func Validate(cfg *Config) error {
	if cfg.Ext == "" {
		cfg.Ext = "png"
	}
	cfg.Ext = strings.TrimPrefix(cfg.Ext, ".")
	if !imgio.CanEncode(cfg.ImageExt()) {
		return report.Configf("cannot write images with extension %q", cfg.ImageExt())
	}

	if cfg.Format != "" {
		cfg.Format = strings.ToLower(cfg.Format)
		if !contains(Formats, cfg.Format) {
			return report.Configf("unknown format %q (want one of %s)", cfg.Format, strings.Join(Formats, ", "))
		}
	}

	if _, err := cfg.ResizeMode(); err != nil {
		return err
	}
	if _, err := cfg.Interp(); err != nil {
		return err
	}
	if q := cfg.Resize.JPEGQuality; q == 0 {
		cfg.Resize.JPEGQuality = 95
	} else if q < 1 || q > 100 {
		return report.Configf("resize.jpeg_quality must be in [1, 100], got %d", q)
	}

	if _, err := cfg.SplitOptions(); err != nil {
		return err
	}
	if cfg.Split.StrictManifest && cfg.Split.Manifest == "" {
		return report.Configf("split.strict_manifest needs split.manifest")
	}

	if cfg.Format == "yolo" && cfg.Categories.Base != 0 {
		return report.Configf("yolo needs categories.base 0, got %d", cfg.Categories.Base)
	}
	if cfg.SubDirs < 0 {
		return report.Configf("sub_dirs must not be negative, got %d", cfg.SubDirs)
	}
	if cfg.RenumberStart < 0 {
		return report.Configf("renumber_start must not be negative, got %d", cfg.RenumberStart)
	}
	if cfg.LogLevel != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return report.Configf("unknown log_level %q", cfg.LogLevel)
		}
	}
	return nil
}

// Require returns a ConfigError naming the first empty setting among
// image_dir, annot_dir, save_dir and format.
func (c *Config) Require(names ...string) error {
	for _, name := range names {
		var v string
		switch name {
		case "image_dir":
			v = c.ImageDir
		case "annot_dir":
			v = c.AnnotDir
		case "save_dir":
			v = c.SaveDir
		case "format":
			v = c.Format
		default:
			panic("config: unknown setting " + name)
		}
		if v == "" {
			return report.Configf("%s is required", name)
		}
	}
	return nil
}

// ResizeMode returns the selected resize mode.
// Selecting both target_size and one_side is a ConfigError.
func (c *Config) ResizeMode() (geom.Resize, error) {
	r := c.Resize
	switch {
	case r.TargetSize != "" && r.OneSide != 0:
		return geom.NoResize, report.Configf("resize.target_size and resize.one_side cannot both be set")
	case r.TargetSize != "":
		size, err := geom.ParseTarget(r.TargetSize)
		if err != nil {
			return geom.NoResize, report.Configf("resize.target_size: %v", err)
		}
		return geom.TargetSize(size.X, size.Y), nil
	case r.OneSide < 0:
		return geom.NoResize, report.Configf("resize.one_side must be positive, got %d", r.OneSide)
	case r.OneSide > 0:
		return geom.OneSideLength(r.OneSide), nil
	}
	return geom.NoResize, nil
}

// Interp returns the selected interpolation.
func (c *Config) Interp() (resize.InterpolationFunction, error) {
	f, err := imgio.ParseInterp(c.Resize.Interp)
	if err != nil {
		return f, report.Configf("resize.interp: %v", err)
	}
	return f, nil
}

// SplitOptions returns the split settings.
func (c *Config) SplitOptions() (split.Options, error) {
	mode, err := split.ParseMode(c.Split.Mode)
	if err != nil {
		return split.Options{}, err
	}
	f := c.Split.TrainFraction
	if !(f > 0 && f < 1) {
		return split.Options{}, report.Configf("split.train_fraction must be in (0, 1), got %g", f)
	}
	if mode == split.Interval && c.Split.Shuffle {
		return split.Options{}, report.Configf("split.shuffle cannot be combined with interval mode")
	}
	return split.Options{Mode: mode, TrainFraction: f, Shuffle: c.Split.Shuffle, Seed: c.Split.Seed}, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
