// Package config holds the settings shared by the dataset commands.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is loaded from YAML, overridden by command-line flags and then
// validated.
type Config struct {
	ImageDir string `yaml:"image_dir"`
	AnnotDir string `yaml:"annot_dir"`
	SaveDir  string `yaml:"save_dir"`
	Ext      string `yaml:"ext"`     // extension of the source images
	OutExt   string `yaml:"out_ext"` // extension of written images (default: ext)
	Format   string `yaml:"format"`  // coco, yolo, voc

	Resize     ResizeConfig     `yaml:"resize"`
	Split      SplitConfig      `yaml:"split"`
	Categories CategoriesConfig `yaml:"categories"`
	COCO       COCOConfig       `yaml:"coco"`

	// AssignIDs numbers the images from RenumberStart in canonical order
	// instead of parsing ids from their names. Files are not renamed.
	AssignIDs     bool `yaml:"assign_ids"`
	RenumberStart int  `yaml:"renumber_start"`
	// VerifySize decodes every image and checks it against the size in
	// its annotation.
	VerifySize bool   `yaml:"verify_size"`
	SubDirs    int    `yaml:"sub_dirs"`
	LogLevel   string `yaml:"log_level"`
}

// ResizeConfig selects at most one resize mode.
type ResizeConfig struct {
	TargetSize  string `yaml:"target_size"` // "WxH"
	OneSide     int    `yaml:"one_side"`    // length of the longer side
	Interp      string `yaml:"interp"`      // nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3
	JPEGQuality int    `yaml:"jpeg_quality"`
}

type SplitConfig struct {
	Mode          string  `yaml:"mode"` // contiguous, interval
	TrainFraction float64 `yaml:"train_fraction"`
	Shuffle       bool    `yaml:"shuffle"`
	Seed          int64   `yaml:"seed"`
	// Manifest records subset membership between runs (optional).
	Manifest       string `yaml:"manifest"`
	StrictManifest bool   `yaml:"strict_manifest"`
}

type CategoriesConfig struct {
	Base int            `yaml:"base"`
	Seed map[string]int `yaml:"seed"`
}

type COCOConfig struct {
	LegacyOffset bool `yaml:"legacy_offset"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Ext:      "png",
		LogLevel: "info",
		Resize: ResizeConfig{
			Interp:      "bilinear",
			JPEGQuality: 95,
		},
		Split: SplitConfig{
			Mode:          "contiguous",
			TrainFraction: 0.9,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
// The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// ImageExt returns the extension of written images without a dot.
func (c *Config) ImageExt() string {
	if c.OutExt != "" {
		return strings.TrimPrefix(c.OutExt, ".")
	}
	return strings.TrimPrefix(c.Ext, ".")
}
