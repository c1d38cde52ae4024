package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jackvalmadre/dataset-tools/internal/cli"
	"github.com/jackvalmadre/dataset-tools/pipeline"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage of %s:\n", os.Args[0])
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags]")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Converts a directory of images and Pascal VOC annotations into`)
	fmt.Fprintln(os.Stderr, `COCO, YOLO or a VOC devkit under -save-dir, split into train and val.`)
	fmt.Fprintln(os.Stderr, `Flags override the settings of -config.`)
	fmt.Fprintln(os.Stderr)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		verbose    = flag.Bool("v", false, "Log debug messages")
		imageDir   = flag.String("image-dir", "", "Directory of source images")
		annotDir   = flag.String("annot-dir", "", "Directory of Pascal VOC annotations")
		saveDir    = flag.String("save-dir", "", "Output directory")
		ext        = flag.String("ext", "", "Extension of the source images")
		format     = flag.String("format", "", "Output format: coco, yolo or voc")
		target     = flag.String("target-size", "", "Resize every image to WxH")
		oneSide    = flag.Int("one-side", 0, "Resize so that the longer side has this length")
		fraction   = flag.Float64("train-fraction", 0, "Fraction of records used for training")
		mode       = flag.String("split", "", "Split mode: contiguous or interval")
		assignIDs  = flag.Bool("assign-ids", false, "Number images in order instead of parsing their names")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, log := cli.Setup(*configPath, *verbose)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image-dir":
			cfg.ImageDir = *imageDir
		case "annot-dir":
			cfg.AnnotDir = *annotDir
		case "save-dir":
			cfg.SaveDir = *saveDir
		case "ext":
			cfg.Ext = *ext
		case "format":
			cfg.Format = *format
		case "target-size":
			cfg.Resize.TargetSize = *target
		case "one-side":
			cfg.Resize.OneSide = *oneSide
		case "train-fraction":
			cfg.Split.TrainFraction = *fraction
		case "split":
			cfg.Split.Mode = *mode
		case "assign-ids":
			cfg.AssignIDs = *assignIDs
		}
	})

	ctx, cancel := cli.Context()
	defer cancel()
	res, err := pipeline.Format(ctx, cfg, pipeline.Env{Log: log})
	if err != nil {
		cli.Exit(log, err)
	}
	log.Info("format: done", "train", res.Count("train"), "val", res.Count("val"), "dir", cfg.SaveDir)
	cli.Check(res.Errors)
}
