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
	fmt.Fprintln(os.Stderr, `Writes resized images and/or annotations to -save-dir.`)
	fmt.Fprintln(os.Stderr, `Give -image-dir, -annot-dir or both.`)
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
		outExt     = flag.String("out-ext", "", "Extension of the written images")
		target     = flag.String("target-size", "", "Resize every image to WxH")
		oneSide    = flag.Int("one-side", 0, "Resize so that the longer side has this length")
		interp     = flag.String("interp", "", "Interpolation: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
		subDirs    = flag.Int("sub-dirs", 0, "Divide the output among this many dir_<i> directories")
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
		case "out-ext":
			cfg.OutExt = *outExt
		case "target-size":
			cfg.Resize.TargetSize = *target
		case "one-side":
			cfg.Resize.OneSide = *oneSide
		case "interp":
			cfg.Resize.Interp = *interp
		case "sub-dirs":
			cfg.SubDirs = *subDirs
		}
	})

	ctx, cancel := cli.Context()
	defer cancel()
	res, err := pipeline.Resize(ctx, cfg, pipeline.Env{Log: log})
	if err != nil {
		cli.Exit(log, err)
	}
	cli.Check(res.Errors)
}
