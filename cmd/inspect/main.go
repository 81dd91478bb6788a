// Package main dumps the structure of a GC instrument file: dimensions,
// global attributes, variables, and optionally the decoded series itself.
// Useful when an exporter writes unexpected variable or attribute names.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"chromalab/internal/cdf"
)

func main() {
	var (
		asJSON = flag.Bool("json", false, "Emit the file description as JSON")
		series = flag.Bool("series", false, "Also decode the series and print its range")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: inspect [-json] [-series] <file.cdf>\n")
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := log.New(os.Stdout, "", 0)

	f, err := cdf.Open(path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	if *asJSON {
		if err := printJSON(f); err != nil {
			log.Fatalf("encode: %v", err)
		}
	} else {
		printText(logger, f)
	}

	if *series {
		printSeries(logger, path)
	}
}

func printText(logger *log.Logger, f *cdf.File) {
	logger.Println("dimensions:")
	for _, d := range f.Dimensions() {
		suffix := ""
		if d.IsRecord {
			suffix = " (record)"
		}
		logger.Printf("  %s = %d%s", d.Name, d.Len, suffix)
	}

	logger.Println("global attributes:")
	for _, a := range f.GlobalAttrs() {
		if a.Str != "" {
			logger.Printf("  %s = %q", a.Name, a.Str)
		} else {
			logger.Printf("  %s = %v", a.Name, a.Nums)
		}
	}

	logger.Println("variables:")
	for _, name := range f.Variables() {
		logger.Printf("  %s", name)
	}
}

func printJSON(f *cdf.File) error {
	type dimJSON struct {
		Name   string `json:"name"`
		Len    int    `json:"len"`
		Record bool   `json:"record,omitempty"`
	}
	type attrJSON struct {
		Name string    `json:"name"`
		Str  string    `json:"str,omitempty"`
		Nums []float64 `json:"nums,omitempty"`
	}
	out := struct {
		Dimensions []dimJSON  `json:"dimensions"`
		Attributes []attrJSON `json:"attributes"`
		Variables  []string   `json:"variables"`
	}{}

	for _, d := range f.Dimensions() {
		out.Dimensions = append(out.Dimensions, dimJSON{Name: d.Name, Len: d.Len, Record: d.IsRecord})
	}
	for _, a := range f.GlobalAttrs() {
		out.Attributes = append(out.Attributes, attrJSON{Name: a.Name, Str: a.Str, Nums: a.Nums})
	}
	out.Variables = f.Variables()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSeries(logger *log.Logger, path string) {
	s, err := cdf.LoadSeries(path)
	if err != nil {
		log.Fatalf("load series: %v", err)
	}

	minI, maxI := s.Intensities[0], s.Intensities[0]
	for _, v := range s.Intensities {
		if v < minI {
			minI = v
		}
		if v > maxI {
			maxI = v
		}
	}

	logger.Println("series:")
	logger.Printf("  sample id:  %s", s.Meta.SampleID)
	logger.Printf("  run date:   %s", s.Meta.RunDate)
	logger.Printf("  channel:    %s", s.Meta.Channel)
	logger.Printf("  samples:    %d", s.Len())
	logger.Printf("  time range: %.3f .. %.3f", s.Times[0], s.Times[s.Len()-1])
	logger.Printf("  intensity:  %.3f .. %.3f", minI, maxI)
}
