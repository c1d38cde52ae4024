package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackvalmadre/dataset-tools/category"
	"github.com/jackvalmadre/dataset-tools/imgio"
	"github.com/jackvalmadre/dataset-tools/internal/cli"
	"github.com/jackvalmadre/dataset-tools/preview"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage of %s:\n", os.Args[0])
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] dir set [class]")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Draws the boxes of a VOC devkit set over their images and saves them`)
	fmt.Fprintln(os.Stderr, `as <out>/<name>.png.`)
	fmt.Fprintln(os.Stderr)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		verbose    = flag.Bool("v", false, "Log debug messages")
		ext        = flag.String("ext", "png", "Extension of the images in JPEGImages")
		outDir     = flag.String("out", "preview", "Output directory")
		lineWidth  = flag.Float64("line-width", 2, "Width of box outlines")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 2 || flag.NArg() > 3 {
		flag.Usage()
		os.Exit(1)
	}
	var (
		dir   = flag.Arg(0)
		set   = flag.Arg(1)
		class = "*"
	)
	if flag.NArg() == 3 {
		class = flag.Arg(2)
	}
	cfg, log := cli.Setup(*configPath, *verbose)

	log.Info("preview: load annotations", "dir", dir, "set", set)
	all, err := voc.Load(dir, set)
	if err != nil {
		cli.Exit(log, err)
	}
	imgset := all.Class(class)

	// Colors follow the ids of the whole set so that they do not change
	// with the class filter.
	anns := make([]*voc.Annotation, 0, len(all))
	for _, name := range all.Names() {
		anns = append(anns, all[name])
	}
	reg := category.Build(anns, cfg.Categories.Base)

	errs := new(report.Errors)
	for _, name := range imgset.Names() {
		file := voc.ImageFile(dir, name, *ext)
		img, err := imgio.Load(file)
		if err != nil {
			errs.Add(file, err)
			continue
		}
		out := preview.Draw(img, imgset[name].Objects, reg, *lineWidth)
		if err := imgio.Save(out, filepath.Join(*outDir, name+".png"), 0); err != nil {
			errs.Add(file, err)
		}
	}
	log.Info("preview: done", "images", len(imgset)-errs.Len(), "dir", *outDir)
	cli.Check(errs)
}
