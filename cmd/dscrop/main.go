package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackvalmadre/dataset-tools/crop"
	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/imgio"
	"github.com/jackvalmadre/dataset-tools/internal/cli"
	"github.com/jackvalmadre/dataset-tools/stats"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage of %s:\n", os.Args[0])
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] dir classes sets")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `dir -- VOC devkit year directory (e.g. data/VOCdevkit/VOC2007)`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `classes -- Comma-separated list of classes`)
	fmt.Fprintln(os.Stderr, `  e.g. "gate,person"`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `sets -- Comma-separated list of sets`)
	fmt.Fprintln(os.Stderr, `  e.g. "train,val"`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Makes a directory <out>/<class>-<set>/ of windows of one aspect ratio`)
	fmt.Fprintln(os.Stderr, `and a file <out>/<class>-<set>.txt listing them.`)
	fmt.Fprintln(os.Stderr)
}

type options struct {
	numPix  int
	ext     string
	outDir  string
	exclude crop.Exclude
	resamp  imgio.Resampler
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		verbose    = flag.Bool("v", false, "Log debug messages")
		opts       options
	)
	flag.IntVar(&opts.numPix, "pixels", 100*100, "Rough number of pixels in window")
	flag.StringVar(&opts.ext, "ext", "png", "Extension of the images in JPEGImages")
	flag.StringVar(&opts.outDir, "out", ".", "Output directory")
	flag.BoolVar(&opts.exclude.Difficult, "exclude-difficult", false, "Exclude objects marked as difficult")
	flag.BoolVar(&opts.exclude.Occluded, "exclude-occluded", false, "Exclude objects marked as occluded")
	flag.BoolVar(&opts.exclude.Truncated, "exclude-truncated", false, "Exclude objects marked as truncated")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	var (
		dir     = flag.Arg(0)
		classes = strings.Split(flag.Arg(1), ",")
		sets    = strings.Split(flag.Arg(2), ",")
	)

	cfg, log := cli.Setup(*configPath, *verbose)
	interp, err := cfg.Interp()
	if err != nil {
		cli.Exit(log, err)
	}
	opts.resamp = imgio.Resampler{Interp: interp, JPEGQuality: cfg.Resize.JPEGQuality}

	for _, class := range classes {
		for _, set := range sets {
			log.Info("crop: sample", "class", class, "set", set)
			if err := sample(dir, class, set, opts); err != nil {
				cli.Exit(log, err)
			}
		}
	}
}

func sample(vocDir, class, set string, opts options) error {
	outDir := filepath.Join(opts.outDir, class+"-"+set)
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clear image dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	all, err := voc.Load(vocDir, set)
	if err != nil {
		return fmt.Errorf("load annotations: %w", err)
	}
	imgset := all.Class(class)

	var n int
	imgset, n = crop.RemoveFlagged(imgset, opts.exclude)
	slog.Info("crop: removed windows", "reason", "flagged", "count", n)

	sizes := make(map[string]image.Point, len(imgset))
	for name := range imgset {
		size, err := imgio.Dimensions(voc.ImageFile(vocDir, name, opts.ext))
		if err != nil {
			return err
		}
		sizes[name] = size
	}

	aspects := crop.Aspects(imgset)
	if len(aspects) == 0 {
		slog.Warn("crop: no windows", "class", class, "set", set)
		return nil
	}
	aspect := stats.OptimalAspect(aspects)
	width, height := stats.BaseSize(opts.numPix, aspect)
	slog.Info("crop: window", "aspect", aspect, "width", width, "height", height)

	imgset = crop.ResizeSet(imgset, aspect)
	imgset, n = crop.RemoveNotInside(imgset, sizes)
	slog.Info("crop: removed windows", "reason", "outside image", "count", n)
	// Boxes much smaller than the window would be upsampled too far.
	imgset, n = crop.RemoveSmall(imgset, image.Pt(width/2, height/2))
	slog.Info("crop: removed windows", "reason", "too small", "count", n)

	var files []string
	for _, name := range imgset.Names() {
		img, err := imgio.Load(voc.ImageFile(vocDir, name, opts.ext))
		if err != nil {
			return err
		}
		for i, obj := range imgset[name].Objects {
			win, err := crop.Window(img, obj.Region, image.Pt(width, height), opts.resamp.Interp)
			if err != nil {
				return err
			}
			file := fmt.Sprintf("%s_%d.png", name, i)
			if err := imgio.Save(win, filepath.Join(outDir, file), opts.resamp.JPEGQuality); err != nil {
				slog.Error("crop: could not save image", "file", file, "err", err)
				continue
			}
			files = append(files, file)
		}
	}
	dataset.SortNatural(files)
	return fileutil.SaveLines(files, filepath.Join(opts.outDir, class+"-"+set+".txt"))
}
