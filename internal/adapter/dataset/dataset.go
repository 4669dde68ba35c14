// Package dataset loads the university records from a JSON file, falling
// back to the dataset compiled into the binary.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/salary-map/internal/domain"
)

//go:embed universities.json
var embedded []byte

// Embedded returns the records compiled into the binary.
func Embedded() ([]domain.University, error) {
	records, err := Decode(bytes.NewReader(embedded))
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return records, nil
}

// Decode reads a JSON array of university records.
func Decode(r io.Reader) ([]domain.University, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var records []domain.University
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode universities: %w", err)
	}
	return records, nil
}

// ReadFile decodes the records at path, or the embedded dataset when path
// is empty.
func ReadFile(path string) ([]domain.University, error) {
	if path == "" {
		return Embedded()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Load reads and validates the dataset. Records without coordinates are
// forward geocoded when geocoder is non-nil; records that still have no
// position are kept and simply never appear on the map.
func Load(ctx context.Context, path string, geocoder domain.Geocoder, logger *slog.Logger) (*domain.Dataset, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	records = domain.LocateUniversities(ctx, records, geocoder, logger)

	ds, err := domain.NewDataset(records)
	if err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	logger.Info("dataset loaded", "source", source, "universities", ds.Len())
	return ds, nil
}
