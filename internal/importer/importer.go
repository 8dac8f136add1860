// Package importer copies venue catalogs from one source, typically a content
// directory, into a catalog store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cory-johannsen/colosseum/internal/game/venue"
)

// CatalogWriter stores a venue catalog.
//
// Postcondition: SaveCatalog either stores the whole catalog or returns an error.
type CatalogWriter interface {
	SaveCatalog(ctx context.Context, cat *venue.Catalog) error
}

// Summary reports what a Run did.
type Summary struct {
	Imported []string
	Skipped  []string
}

// Importer orchestrates catalog import from a Source to a CatalogWriter.
type Importer struct {
	table  *venue.Table
	source venue.Source
	writer CatalogWriter
	out    io.Writer
}

// New constructs an Importer. Progress lines are written to out.
//
// Precondition: table, source, writer and out must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(table *venue.Table, source venue.Source, writer CatalogWriter, out io.Writer) *Importer {
	return &Importer{table: table, source: source, writer: writer, out: out}
}

// Run imports every venue in the table. Venues the source has no data for
// are skipped; any other load or write failure aborts the run.
//
// Postcondition: Returns a Summary of imported and skipped venue names, or
// the first error. Venues imported before the error stay imported.
func (imp *Importer) Run(ctx context.Context) (Summary, error) {
	overall := time.Now()
	var sum Summary

	for _, v := range imp.table.All() {
		t0 := time.Now()
		cat, err := imp.source.Catalog(ctx, v)
		if errors.Is(err, venue.ErrCatalogNotFound) {
			fmt.Fprintf(imp.out, "skip    %s (no data)\n", v.Name)
			sum.Skipped = append(sum.Skipped, v.Name)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("loading %q: %w", v.Name, err)
		}

		if err := imp.writer.SaveCatalog(ctx, cat); err != nil {
			return sum, fmt.Errorf("saving %q: %w", v.Name, err)
		}
		sum.Imported = append(sum.Imported, v.Name)

		fmt.Fprintf(imp.out, "wrote   %s  (%d monsters, %d encounters)  in %s\n",
			v.Name, len(cat.Monsters), len(cat.Encounters), time.Since(t0).Round(time.Millisecond))
	}

	fmt.Fprintf(imp.out, "total   %s\n", time.Since(overall).Round(time.Millisecond))
	return sum, nil
}
