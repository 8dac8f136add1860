package importer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colosseum/internal/game/venue"
	"github.com/cory-johannsen/colosseum/internal/importer"
)

type memWriter struct {
	saved map[string]*venue.Catalog
	err   error
}

func (w *memWriter) SaveCatalog(_ context.Context, cat *venue.Catalog) error {
	if w.err != nil {
		return w.err
	}
	if w.saved == nil {
		w.saved = make(map[string]*venue.Catalog)
	}
	w.saved[cat.Venue.Slug] = cat
	return nil
}

func writeVenue(t *testing.T, root, slug, csv, json string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "monsterdata"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "encounters"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "monsterdata", slug+".csv"), []byte(csv), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "encounters", slug+".json"), []byte(json), 0644))
}

func testTable(t *testing.T) *venue.Table {
	t.Helper()
	tbl, err := venue.NewTable([]venue.Venue{
		{Name: "Mire", Slug: "mire"},
		{Name: "Arena", Slug: "arena"},
	})
	require.NoError(t, err)
	return tbl
}

func TestImporter_Run_ImportsAndSkips(t *testing.T) {
	root := t.TempDir()
	writeVenue(t, root, "mire", "name,quickness\nBog Wisp,12\n", `[["Bog Wisp"]]`)

	w := &memWriter{}
	var out bytes.Buffer
	imp := importer.New(testTable(t), venue.NewDirSource(root), w, &out)

	sum, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mire"}, sum.Imported)
	assert.Equal(t, []string{"Arena"}, sum.Skipped)

	require.Contains(t, w.saved, "mire")
	assert.Equal(t, []venue.MonsterRecord{{Name: "Bog Wisp", Quickness: 12}}, w.saved["mire"].Monsters)
	assert.Contains(t, out.String(), "skip    Arena")
	assert.Contains(t, out.String(), "wrote   Mire")
}

func TestImporter_Run_ParseErrorAborts(t *testing.T) {
	root := t.TempDir()
	writeVenue(t, root, "mire", "name,quickness\nBog Wisp,soggy\n", `[["Bog Wisp"]]`)

	imp := importer.New(testTable(t), venue.NewDirSource(root), &memWriter{}, &bytes.Buffer{})
	_, err := imp.Run(context.Background())
	var dataErr *venue.DataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestImporter_Run_WriterErrorAborts(t *testing.T) {
	root := t.TempDir()
	writeVenue(t, root, "mire", "name,quickness\nBog Wisp,12\n", `[["Bog Wisp"]]`)
	boom := errors.New("db down")

	imp := importer.New(testTable(t), venue.NewDirSource(root), &memWriter{err: boom}, &bytes.Buffer{})
	sum, err := imp.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sum.Imported)
}

func TestImporter_Run_ShippedContent(t *testing.T) {
	w := &memWriter{}
	imp := importer.New(venue.DefaultTable(), venue.NewDirSource("../../content"), w, &bytes.Buffer{})
	sum, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sum.Imported, "Training Fields")
	assert.Equal(t, venue.DefaultTable().Len(), len(sum.Imported)+len(sum.Skipped))
}

func TestProperty_ImportedPlusSkippedCoversTable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root, err := os.MkdirTemp("", "import")
		if err != nil {
			rt.Fatalf("tempdir: %v", err)
		}
		defer os.RemoveAll(root)
		_ = os.MkdirAll(filepath.Join(root, "monsterdata"), 0755)
		_ = os.MkdirAll(filepath.Join(root, "encounters"), 0755)

		tbl := venue.DefaultTable()
		present := 0
		for _, v := range tbl.All() {
			if rapid.Bool().Draw(rt, v.Slug) {
				present++
				_ = os.WriteFile(filepath.Join(root, "monsterdata", v.Slug+".csv"), []byte("name,quickness\nX,1\n"), 0644)
				_ = os.WriteFile(filepath.Join(root, "encounters", v.Slug+".json"), []byte(`[["X"]]`), 0644)
			}
		}
		sum, err := importer.New(tbl, venue.NewDirSource(root), &memWriter{}, &bytes.Buffer{}).Run(context.Background())
		if err != nil {
			rt.Fatalf("Run: %v", err)
		}
		if len(sum.Imported) != present || len(sum.Imported)+len(sum.Skipped) != tbl.Len() {
			rt.Fatalf("imported %d skipped %d, want %d present of %d", len(sum.Imported), len(sum.Skipped), present, tbl.Len())
		}
	})
}
