package pipeline

import (
	"os"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/config"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/renumber"
	"github.com/jackvalmadre/dataset-tools/report"
)

// Renumber renames the images of cfg.ImageDir, and their annotations in
// cfg.AnnotDir if set, to cfg.RenumberStart, cfg.RenumberStart+1, ... in
// natural order. Nothing is renamed if a file outside the batch already
// uses a target name.
func Renumber(cfg *config.Config, env Env) ([]renumber.Rename, error) {
	log := env.log()
	p, n, err := planRenumber(cfg)
	if err != nil {
		return nil, err
	}
	renames := p.Renames()
	for _, r := range renames {
		log.Debug("renumber: rename", "from", r.From, "to", r.To)
	}
	if err := p.Apply(); err != nil {
		return nil, err
	}
	log.Info("renumber: done", "images", n, "start", cfg.RenumberStart)
	return renames, nil
}

// PlanRenumber returns the renames Renumber would perform.
func PlanRenumber(cfg *config.Config) ([]renumber.Rename, error) {
	p, _, err := planRenumber(cfg)
	if err != nil {
		return nil, err
	}
	return p.Renames(), nil
}

func planRenumber(cfg *config.Config) (*renumber.Plan, int, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, 0, err
	}
	if err := cfg.Require("image_dir"); err != nil {
		return nil, 0, err
	}
	images, err := dataset.List(cfg.ImageDir, cfg.Ext)
	if err != nil {
		return nil, 0, err
	}
	if len(images) == 0 {
		return nil, 0, report.Configf("no images with extension %q in %s", cfg.Ext, cfg.ImageDir)
	}

	batch := make([]renumber.Entry, len(images))
	if cfg.AnnotDir != "" {
		recs, err := dataset.Pair(images, cfg.AnnotDir)
		if err != nil {
			return nil, 0, err
		}
		for i, r := range recs {
			batch[i] = renumber.Entry{Image: r.Image, Annotation: r.AnnotationFile}
		}
	} else {
		for i, img := range images {
			batch[i] = renumber.Entry{Image: img}
		}
	}

	existing, err := listFiles(cfg.ImageDir)
	if err != nil {
		return nil, 0, err
	}
	if cfg.AnnotDir != "" && filepath.Clean(cfg.AnnotDir) != filepath.Clean(cfg.ImageDir) {
		more, err := listFiles(cfg.AnnotDir)
		if err != nil {
			return nil, 0, err
		}
		existing = append(existing, more...)
	}
	p, err := renumber.NewPlan(batch, existing, cfg.RenumberStart, "")
	if err != nil {
		return nil, 0, err
	}
	return p, len(batch), nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, filepath.Join(dir, e.Name()))
		}
	}
	return names, nil
}
