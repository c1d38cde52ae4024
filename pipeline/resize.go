package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/config"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/imgio"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// ResizeResult summarizes a Resize run.
type ResizeResult struct {
	Written int
	Errors  *report.Errors
}

// Resize writes resampled copies of the images in cfg.ImageDir and/or
// corrected copies of the annotations in cfg.AnnotDir to cfg.SaveDir.
// With cfg.SubDirs > 0 the files are divided in natural order among
// save_dir/dir_0, dir_1, ...
func Resize(ctx context.Context, cfg *config.Config, env Env) (*ResizeResult, error) {
	log := env.log()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Require("save_dir"); err != nil {
		return nil, err
	}
	if cfg.ImageDir == "" && cfg.AnnotDir == "" {
		return nil, report.Configf("image_dir or annot_dir is required")
	}
	mode, _ := cfg.ResizeMode()
	if mode.IsNone() {
		return nil, report.Configf("choose resize.target_size or resize.one_side")
	}
	interp, _ := cfg.Interp()
	resampler := imgio.Resampler{Interp: interp, JPEGQuality: cfg.Resize.JPEGQuality}

	recs, err := resizeInputs(cfg)
	if err != nil {
		return nil, err
	}
	errs := new(report.Errors)
	if cfg.AnnotDir != "" {
		recs, errs = dataset.Load(recs, false)
	}
	switch {
	case cfg.ImageDir == "":
		log.Info("resize: annotations only", "records", len(recs), "mode", mode.String())
	case cfg.AnnotDir == "":
		log.Info("resize: images only", "records", len(recs), "mode", mode.String())
	default:
		log.Info("resize: images and annotations", "records", len(recs), "mode", mode.String())
	}

	dirs := [][]*dataset.Record{recs}
	if cfg.SubDirs > 0 {
		dirs = dataset.Chunk(recs, cfg.SubDirs)
	}
	res := &ResizeResult{Errors: errs}
	for i, chunk := range dirs {
		dir := cfg.SaveDir
		if cfg.SubDirs > 0 {
			dir = filepath.Join(dir, fmt.Sprintf("dir_%d", i))
		}
		for _, r := range chunk {
			if stopped(ctx) {
				log.Warn("resize: cancelled", "written", res.Written)
				return res, ctx.Err()
			}
			if err := resizeOne(cfg, resampler, mode, r, dir); err != nil {
				file := r.Image
				if file == "" {
					file = r.AnnotationFile
				}
				errs.Add(file, err)
				continue
			}
			res.Written++
		}
	}
	for _, e := range errs.List() {
		log.Error("resize: record failed", "file", e.File, "err", e.Err)
	}
	log.Info("resize: done", "written", res.Written, "failed", errs.Len())
	return res, nil
}

// resizeInputs lists the records to resize. When only one of the
// directories is given, the records have only images or only annotations.
func resizeInputs(cfg *config.Config) (dataset.Dataset, error) {
	if cfg.ImageDir == "" {
		annots, err := dataset.List(cfg.AnnotDir, "xml")
		if err != nil {
			return nil, err
		}
		recs := make(dataset.Dataset, len(annots))
		for i, a := range annots {
			recs[i] = &dataset.Record{Name: fileutil.Base(a), AnnotationFile: a}
		}
		return recs, nil
	}
	images, err := dataset.List(cfg.ImageDir, cfg.Ext)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, report.Configf("no images with extension %q in %s", cfg.Ext, cfg.ImageDir)
	}
	if cfg.AnnotDir != "" {
		return dataset.Pair(images, cfg.AnnotDir)
	}
	recs := make(dataset.Dataset, len(images))
	for i, img := range images {
		recs[i] = &dataset.Record{Name: fileutil.Base(img), Image: img}
	}
	return recs, nil
}

// resizeOne writes the resampled image and then the corrected annotation
// of r to dir. An annotation without an image is rescaled from its own size.
func resizeOne(cfg *config.Config, resampler imgio.Resampler, mode geom.Resize, r *dataset.Record, dir string) error {
	var orig image.Point
	if r.Image != "" {
		size, err := imgio.Dimensions(r.Image)
		if err != nil {
			return err
		}
		orig = size
	} else {
		orig = r.Annotation.Size
	}
	dims, err := mode.Dims(orig)
	if err != nil {
		return err
	}
	r.Resized = dims
	out := filepath.Join(dir, r.Name+"."+cfg.ImageExt())
	if r.Image != "" {
		if err := resampler.Resize(r.Image, out, dims); err != nil {
			return err
		}
		r.Output = out
	}
	if r.Annotation != nil {
		a, err := r.Corrected()
		if err != nil {
			return err
		}
		a.Filename = filepath.Base(out)
		if abs, err := filepath.Abs(out); err == nil {
			a.Path = abs
		} else {
			a.Path = out
		}
		if err := voc.WriteFile(filepath.Join(dir, r.Name+".xml"), a); err != nil {
			return err
		}
	}
	return nil
}
