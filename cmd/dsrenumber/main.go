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
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] image-dir [annot-dir]")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Renames the images, and their annotations, to -start, -start+1, ...`)
	fmt.Fprintln(os.Stderr, `in natural order. Nothing is renamed if another file already has one`)
	fmt.Fprintln(os.Stderr, `of the new names.`)
	fmt.Fprintln(os.Stderr)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		verbose    = flag.Bool("v", false, "Log every rename")
		ext        = flag.String("ext", "", "Extension of the images")
		start      = flag.Int("start", 0, "First number")
		dryRun     = flag.Bool("n", false, "Print the renames without applying them")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, log := cli.Setup(*configPath, *verbose)
	cfg.ImageDir = flag.Arg(0)
	cfg.AnnotDir = flag.Arg(1)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ext":
			cfg.Ext = *ext
		case "start":
			cfg.RenumberStart = *start
		}
	})

	if *dryRun {
		renames, err := pipeline.PlanRenumber(cfg)
		if err != nil {
			cli.Exit(log, err)
		}
		for _, r := range renames {
			fmt.Println(r.From, "->", r.To)
		}
		return
	}
	if _, err := pipeline.Renumber(cfg, pipeline.Env{Log: log}); err != nil {
		cli.Exit(log, err)
	}
}
