package venue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCatalogNotFound is returned by a Source that holds no data for a venue.
var ErrCatalogNotFound = errors.New("catalog not found")

// Source loads the catalog of a single venue.
//
// Postcondition: Returns a catalog whose Venue equals v, or a non-nil error
// wrapping ErrCatalogNotFound when the source has no data for v.
type Source interface {
	Catalog(ctx context.Context, v Venue) (*Catalog, error)
}

// DirSource reads catalogs from a content directory laid out as
// monsterdata/<slug>.csv and encounters/<slug>.json.
type DirSource struct {
	root string
}

// NewDirSource creates a DirSource rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// MonsterPath returns the monster CSV path for v.
func (s *DirSource) MonsterPath(v Venue) string {
	return filepath.Join(s.root, "monsterdata", v.Slug+".csv")
}

// EncounterPath returns the encounter JSON path for v.
func (s *DirSource) EncounterPath(v Venue) string {
	return filepath.Join(s.root, "encounters", v.Slug+".json")
}

// Catalog implements Source.
func (s *DirSource) Catalog(_ context.Context, v Venue) (*Catalog, error) {
	encPath := s.EncounterPath(v)
	encFile, err := os.Open(encPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: venue %q has no %s", ErrCatalogNotFound, v.Name, encPath)
		}
		return nil, fmt.Errorf("opening %s: %w", encPath, err)
	}
	defer encFile.Close()

	encounters, err := ParseEncountersJSON(encPath, encFile)
	if err != nil {
		return nil, err
	}

	monPath := s.MonsterPath(v)
	monFile, err := os.Open(monPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: venue %q has no %s", ErrCatalogNotFound, v.Name, monPath)
		}
		return nil, fmt.Errorf("opening %s: %w", monPath, err)
	}
	defer monFile.Close()

	monsters, err := ParseMonstersCSV(monPath, monFile)
	if err != nil {
		return nil, err
	}

	return &Catalog{Venue: v, Monsters: monsters, Encounters: encounters}, nil
}
