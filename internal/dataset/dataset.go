// Package dataset loads country records from JSON documents.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atharv3903/borderroute/internal/model"
)

//go:embed countries.json
var embeddedCountries []byte

// ErrLoad wraps every failure to obtain records from a source.
var ErrLoad = errors.New("dataset: load failed")

// Source supplies the country records a border graph is built from.
type Source interface {
	Load(ctx context.Context) ([]model.CountryRecord, error)
}

// Decode reads a JSON array of country records.
func Decode(r io.Reader) ([]model.CountryRecord, error) {
	var records []model.CountryRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrLoad)
	}
	return records, nil
}

// File loads records from a JSON file on disk.
type File struct {
	Path string
}

func (f File) Load(ctx context.Context) ([]model.CountryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer fh.Close()

	records, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return records, nil
}

type embedded struct{}

// Embedded returns the world dataset compiled into the binary.
func Embedded() Source { return embedded{} }

func (embedded) Load(ctx context.Context) ([]model.CountryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(embeddedCountries))
}
