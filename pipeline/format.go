package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/config"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/geom"
	"github.com/jackvalmadre/dataset-tools/imgio"
	"github.com/jackvalmadre/dataset-tools/renumber"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/split"
	"github.com/jackvalmadre/dataset-tools/stats"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Format converts the annotated images of cfg.ImageDir and cfg.AnnotDir
// into cfg.Format under cfg.SaveDir.
//
// Every annotation is parsed and the category registry is fixed before
// anything is written. Records that cannot be parsed or whose boxes do
// not survive resampling are left out and listed in the result. The run
// stops before the next record once ctx is done; the output is then
// incomplete.
func Format(ctx context.Context, cfg *config.Config, env Env) (*Result, error) {
	log := env.log()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Require("image_dir", "annot_dir", "save_dir", "format"); err != nil {
		return nil, err
	}
	mode, _ := cfg.ResizeMode()
	opts, _ := cfg.SplitOptions()
	interp, _ := cfg.Interp()
	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	recs, errs, err := load(cfg, !cfg.AssignIDs)
	if err != nil {
		return nil, err
	}
	log.Info("format: loaded annotations", "records", len(recs), "failed", errs.Len())

	// Ids are fixed from every parsed annotation, so that records dropped
	// below for their image do not shift them.
	reg, err := registry(cfg, recs)
	if err != nil {
		return nil, err
	}
	log.Info("format: categories", "count", reg.Len(), "names", strings.Join(reg.Names(), ","))

	if cfg.VerifySize {
		recs = verifySizes(recs, errs)
	}
	if !mode.IsNone() {
		log.Info("format: resampling images", "mode", mode.String())
		recs = plan(recs, mode, errs)
	}

	if cfg.AssignIDs {
		renumber.Assign(recs, cfg.RenumberStart)
	} else if err := uniqueIDs(recs); err != nil {
		return nil, err
	}

	var ok dataset.Dataset
	for _, r := range recs {
		if err := enc.Check(r, reg); err != nil {
			errs.Add(r.AnnotationFile, err)
			continue
		}
		ok = append(ok, r)
	}
	recs = ok

	train, val, err := split.Split(recs, opts, dataset.Less)
	if err != nil {
		return nil, err
	}
	log.Info("format: split", "mode", opts.Mode.String(), "train", len(train), "val", len(val))
	if err := checkManifest(cfg, train, log); err != nil {
		return nil, err
	}

	res := &Result{Registry: reg, Errors: errs}
	resampler := imgio.Resampler{Interp: interp, JPEGQuality: cfg.Resize.JPEGQuality}
	subs := []dataset.Subset{{Name: "train", Records: train}, {Name: "val", Records: val}}
	for i, sub := range subs {
		var written dataset.Dataset
		for _, r := range sub.Records {
			if stopped(ctx) {
				log.Warn("format: cancelled", "subset", sub.Name, "written", res.Written)
				return res, ctx.Err()
			}
			out := enc.ImagePath(sub.Name, r.Name+"."+cfg.ImageExt())
			if err := writeImage(resampler, r, out); err != nil {
				errs.Add(r.Image, err)
				continue
			}
			r.Output = out
			written = append(written, r)
			res.Written++
		}
		subs[i].Records = written
		if err := enc.Encode(subs[i], reg); err != nil {
			return res, err
		}
		summary := stats.Summarize(written.Annotations())
		log.Info("format: wrote subset", "subset", sub.Name, "images", summary.Images, "boxes", summary.Boxes,
			"aspect", fmt.Sprintf("%.3f", summary.Aspect))
		log.Debug("format: subset boxes", "subset", sub.Name, "counts", summary.Counts,
			"width", summary.Width.Mean, "height", summary.Height.Mean)
	}
	if err := enc.Finish(subs, reg); err != nil {
		return res, err
	}
	res.Subsets = subs

	if cfg.Split.Manifest != "" {
		m := &split.Manifest{
			Mode:          opts.Mode.String(),
			TrainFraction: opts.TrainFraction,
			Created:       time.Now(),
			Train:         subs[0].Records.Names(),
			Val:           subs[1].Records.Names(),
		}
		if err := split.WriteManifest(cfg.Split.Manifest, m); err != nil {
			return res, err
		}
	}
	for _, e := range errs.List() {
		log.Error("format: record failed", "file", e.File, "err", e.Err)
	}
	return res, nil
}

// load lists, pairs and parses the dataset in canonical order.
func load(cfg *config.Config, requireID bool) (dataset.Dataset, *report.Errors, error) {
	images, err := dataset.List(cfg.ImageDir, cfg.Ext)
	if err != nil {
		return nil, nil, err
	}
	if len(images) == 0 {
		return nil, nil, report.Configf("no images with extension %q in %s", cfg.Ext, cfg.ImageDir)
	}
	recs, err := dataset.Pair(images, cfg.AnnotDir)
	if err != nil {
		return nil, nil, err
	}
	recs, errs := dataset.Load(recs, requireID)
	recs.Sort()
	return recs, errs, nil
}

// verifySizes drops records whose annotated size differs from their image.
func verifySizes(recs dataset.Dataset, errs *report.Errors) dataset.Dataset {
	var out dataset.Dataset
	for _, r := range recs {
		size, err := imgio.Dimensions(r.Image)
		if err != nil {
			errs.Add(r.Image, err)
			continue
		}
		if size != r.Annotation.Size {
			errs.Add(r.AnnotationFile, &voc.SchemaError{
				File: r.AnnotationFile,
				Path: "size",
				Msg:  fmt.Sprintf("annotated size %dx%d differs from image %dx%d", r.Annotation.Size.X, r.Annotation.Size.Y, size.X, size.Y),
			})
			continue
		}
		out = append(out, r)
	}
	return out
}

// plan sets the output size of every record from its decoded image size.
func plan(recs dataset.Dataset, mode geom.Resize, errs *report.Errors) dataset.Dataset {
	var out dataset.Dataset
	for _, r := range recs {
		size, err := imgio.Dimensions(r.Image)
		if err != nil {
			errs.Add(r.Image, err)
			continue
		}
		dims, err := mode.Dims(size)
		if err != nil {
			errs.Add(r.Image, err)
			continue
		}
		r.Resized = dims
		out = append(out, r)
	}
	return out
}

// registry returns the category ids of the run. Classes missing from a
// seeded mapping are appended in canonical record order.
func registry(cfg *config.Config, recs dataset.Dataset) (*category.Registry, error) {
	if len(cfg.Categories.Seed) == 0 {
		return category.Build(recs.Annotations(), cfg.Categories.Base), nil
	}
	reg, err := category.Seed(cfg.Categories.Seed, cfg.Categories.Base)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		for _, obj := range r.Annotation.Objects {
			reg.LookupOrExtend(obj.Class)
		}
	}
	return reg, nil
}

func uniqueIDs(recs dataset.Dataset) error {
	seen := make(map[int]string, len(recs))
	for _, r := range recs {
		if other, ok := seen[r.ID]; ok {
			return report.Configf("images %s and %s share id %d", other, r.Image, r.ID)
		}
		seen[r.ID] = r.Image
	}
	return nil
}

func writeImage(r imgio.Resampler, rec *dataset.Record, out string) error {
	if rec.Resized == image.ZP && strings.EqualFold(filepath.Ext(rec.Image), filepath.Ext(out)) {
		return imgio.Copy(rec.Image, out)
	}
	return r.Resize(rec.Image, out, rec.Size())
}

// checkManifest compares train with the validation set of the previous
// run. A record moving from validation to training is a warning, or an
// error with strict_manifest.
func checkManifest(cfg *config.Config, train dataset.Dataset, log *slog.Logger) error {
	if cfg.Split.Manifest == "" {
		return nil
	}
	prev, err := split.ReadManifest(cfg.Split.Manifest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	moved := split.Contaminated(prev, train.Names())
	if len(moved) == 0 {
		return nil
	}
	if cfg.Split.StrictManifest {
		return report.Configf("%d validation record(s) of the previous run would be used for training: %s",
			len(moved), strings.Join(moved, ", "))
	}
	log.Warn("format: validation records moved to training", "count", len(moved), "names", strings.Join(moved, ","))
	return nil
}
