// Command genmock writes the golden fixture for a dataset: every university's
// estimated Engineering salary, display colours and default rank, derived
// with the same domain packages the service uses.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -dataset internal/adapter/dataset/universities.json \
//	  -out internal/adapter/dataset/testdata/golden.json
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/couchcryptid/salary-map/internal/adapter/dataset"
	"github.com/couchcryptid/salary-map/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	datasetPath := flag.String("dataset", "", "path to a universities JSON file (default: embedded dataset)")
	out := flag.String("out", "", "output path for the golden fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	records, err := dataset.ReadFile(*datasetPath)
	if err != nil {
		return err
	}
	ds, err := domain.NewDataset(records)
	if err != nil {
		return fmt.Errorf("validate dataset: %w", err)
	}

	rows := dataset.BuildGolden(ds)
	if err := dataset.WriteGolden(*out, rows); err != nil {
		return fmt.Errorf("writing golden fixture: %w", err)
	}
	log.Printf("wrote golden fixture: %s (%d universities)", *out, len(rows))

	printStats(rows)
	return nil
}

func printStats(rows []dataset.GoldenRow) {
	estimated := 0
	colors := map[string]int{}
	for _, r := range rows {
		if r.Estimated {
			estimated++
		}
		colors[r.MarkerColor]++
	}
	log.Printf("estimated engineering salaries: %d of %d", estimated, len(rows))
	for _, c := range []string{"#4caf50", "#66bb6a", "#81c784", "#a5d6a7", "#c8e6c9", "#fff9c4", "#ffe082", "#ffb74d", "#ef5350"} {
		if n := colors[c]; n > 0 {
			log.Printf("  marker %s: %d", c, n)
		}
	}
}
