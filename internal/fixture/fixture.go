// Package fixture stores one JSON document per monitored endpoint on disk.
// Fixtures are the comparison baseline for drift checks and are written
// verbatim (pretty-printed) from the first observed API response.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"

	"github.com/aviling/pulsecheck/internal/errors"
	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/parser"
)

// Store reads and writes fixture files under a single directory.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// first Save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the on-disk path for an endpoint name, e.g. "HeartRate" maps
// to <dir>/heart_rate.json.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, strcase.ToSnake(name)+".json")
}

// Exists reports whether a fixture file is present for name.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Load reads and parses the fixture for name. A missing or unparsable file
// is reported as ErrNoFixture: either way there is no usable baseline, and
// the caller is expected to bootstrap a fresh one.
func (s *Store) Load(name string) (models.JSONValue, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFixtureError(
				fmt.Sprintf("fixture '%s' not found", path),
				errors.ErrNoFixture,
			)
		}
		return nil, errors.NewFixtureError(
			fmt.Sprintf("failed to read fixture '%s'", path),
			err,
		)
	}

	value, err := parser.ParseBytes(data)
	if err != nil {
		return nil, errors.NewFixtureError(
			fmt.Sprintf("fixture '%s' is not valid JSON", path),
			errors.ErrNoFixture,
		)
	}
	return value, nil
}

// Save writes value as the fixture for name, pretty-printed with two-space
// indentation, replacing any previous fixture.
func (s *Store) Save(name string, value models.JSONValue) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.NewFixtureError(
			fmt.Sprintf("failed to create fixture directory '%s'", s.Dir),
			err,
		)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.NewFixtureError(
			fmt.Sprintf("failed to encode fixture '%s'", name),
			err,
		)
	}
	data = append(data, '\n')

	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFixtureError(
			fmt.Sprintf("failed to write fixture '%s'", path),
			err,
		)
	}
	return nil
}
