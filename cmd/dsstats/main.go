package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/internal/cli"
	"github.com/jackvalmadre/dataset-tools/report"
	"github.com/jackvalmadre/dataset-tools/stats"
	"github.com/jackvalmadre/dataset-tools/voc"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage of %s:\n", os.Args[0])
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] annot-dir")
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] -set train devkit-dir")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Prints box counts per class, box size statistics and the aspect ratio`)
	fmt.Fprintln(os.Stderr, `that best fits every box.`)
	fmt.Fprintln(os.Stderr)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		verbose    = flag.Bool("v", false, "Log debug messages")
		set        = flag.String("set", "", "Read a set of a VOC devkit instead of a directory of annotations")
		class      = flag.String("class", "*", "Only count objects of this class")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	dir := flag.Arg(0)
	_, log := cli.Setup(*configPath, *verbose)

	var (
		imgset voc.Set
		errs   = new(report.Errors)
	)
	if *set != "" {
		var err error
		if imgset, err = voc.Load(dir, *set); err != nil {
			cli.Exit(log, err)
		}
	} else {
		files, err := dataset.List(dir, "xml")
		if err != nil {
			cli.Exit(log, err)
		}
		imgset = make(voc.Set, len(files))
		for _, file := range files {
			a, err := voc.ReadFile(file)
			if err != nil {
				errs.Add(file, err)
				continue
			}
			imgset[file] = a
		}
	}
	// Images without any object of the class drop out of the count.
	if *class != "*" {
		imgset = imgset.Class(*class)
	}

	anns := make([]*voc.Annotation, 0, len(imgset))
	for _, name := range imgset.Names() {
		anns = append(anns, imgset[name])
	}
	s := stats.Summarize(anns)
	if err := s.Fprint(os.Stdout); err != nil {
		cli.Exit(log, err)
	}
	cli.Check(errs)
}
