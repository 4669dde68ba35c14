// Command validate performs integrity checks on a universities dataset:
// record fields, coordinate ranges, estimator invariants, the default table
// ranking and, optionally, agreement with a golden fixture from genmock.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -dataset internal/adapter/dataset/universities.json \
//	  -golden internal/adapter/dataset/testdata/golden.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/salary-map/internal/adapter/dataset"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/table"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	datasetPath := flag.String("dataset", "", "path to a universities JSON file (default: embedded dataset)")
	goldenPath := flag.String("golden", "", "optional golden fixture to compare against")
	flag.Parse()

	os.Exit(run(*datasetPath, *goldenPath))
}

func run(datasetPath, goldenPath string) int {
	fmt.Println("=== Salary Dataset Integrity Validation ===")
	fmt.Println()

	records, err := dataset.ReadFile(datasetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRecords(records),
		validateCoordinates(records),
		validateEstimates(records),
	}

	// Ranking and fixture checks need a well-formed dataset.
	ds, err := domain.NewDataset(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping ranking checks: %v\n", err)
	} else {
		phases = append(phases, validateRanking(ds))
		if goldenPath != "" {
			phases = append(phases, validateGolden(ds, goldenPath))
		}
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d universities, %d Canadian\n", len(records), countCanadian(records))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed && err == nil {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateRecords(records []domain.University) *phase {
	p := &phase{name: "Phase 1: Record fields"}
	seen := make(map[string]int, len(records))
	for i, u := range records {
		if strings.TrimSpace(u.Name) == "" {
			p.errorf("record %d: empty name", i)
			continue
		}
		if prev, ok := seen[u.Name]; ok {
			p.errorf("record %d: %q duplicates record %d", i, u.Name, prev)
		}
		seen[u.Name] = i
		if u.Salary <= 0 {
			p.errorf("%s: salary must be positive, got %d", u.Name, u.Salary)
		}
		if u.Graduates < 0 {
			p.errorf("%s: negative graduate count %d", u.Name, u.Graduates)
		}
		if u.EngSalary != nil && *u.EngSalary < 0 {
			p.errorf("%s: negative engSalary %d", u.Name, *u.EngSalary)
		}
	}
	return p
}

func validateCoordinates(records []domain.University) *phase {
	p := &phase{name: "Phase 2: Coordinates"}
	for _, u := range records {
		if !u.HasCoordinates() {
			p.errorf("%s: no coordinates", u.Name)
			continue
		}
		if u.Lat < -90 || u.Lat > 90 {
			p.errorf("%s: latitude %.4f out of range", u.Name, u.Lat)
		}
		if u.Lng < -180 || u.Lng > 180 {
			p.errorf("%s: longitude %.4f out of range", u.Name, u.Lng)
		}
	}
	return p
}

func validateEstimates(records []domain.University) *phase {
	p := &phase{name: "Phase 3: Engineering estimates"}
	for _, u := range records {
		if u.Salary <= 0 {
			continue
		}
		est := domain.EstimateEngineeringSalary(u)
		if again := domain.EstimateEngineeringSalary(u); again != est {
			p.errorf("%s: estimate not deterministic (%d then %d)", u.Name, est, again)
		}
		if u.EngSalary != nil && *u.EngSalary != 0 {
			if est != *u.EngSalary {
				p.errorf("%s: override %d not honoured, got %d", u.Name, *u.EngSalary, est)
			}
			continue
		}
		if est <= 0 || est > u.Salary {
			p.errorf("%s: estimate %d outside (0, %d]", u.Name, est, u.Salary)
		}
	}
	return p
}

func validateRanking(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Default table ranking"}
	rows := table.New(ds).Rows(nil)
	for i, r := range rows {
		if r.Rank != i+1 {
			p.errorf("%s: rank %d at position %d", r.Name, r.Rank, i+1)
		}
		if i > 0 && rows[i-1].CSSalary < r.CSSalary {
			p.errorf("%s (%d) ranked below %s (%d)", r.Name, r.CSSalary, rows[i-1].Name, rows[i-1].CSSalary)
		}
	}
	return p
}

func validateGolden(ds *domain.Dataset, path string) *phase {
	p := &phase{name: "Phase 5: Golden fixture"}
	want, err := dataset.ReadGolden(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for _, d := range dataset.CompareGolden(want, dataset.BuildGolden(ds)) {
		p.errorf("%s", d)
	}
	return p
}

func countCanadian(records []domain.University) int {
	n := 0
	for _, u := range records {
		if u.IsCanadian {
			n++
		}
	}
	return n
}
