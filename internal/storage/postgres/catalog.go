package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
)

// CatalogRepository persists venue catalogs. It implements venue.Source.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SaveCatalog replaces everything stored for cat.Venue with cat's monsters
// and encounters, preserving their order.
//
// Precondition: cat must be non-nil with a non-empty venue name and slug.
// Postcondition: Either the whole catalog is stored or nothing changes.
func (r *CatalogRepository) SaveCatalog(ctx context.Context, cat *venue.Catalog) error {
	if cat.Venue.Slug == "" || cat.Venue.Name == "" {
		return errors.New("saving catalog: venue name and slug must not be empty")
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO venues (slug, name) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
			cat.Venue.Slug, cat.Venue.Name,
		); err != nil {
			return fmt.Errorf("upserting venue %q: %w", cat.Venue.Slug, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM venue_monsters WHERE venue_slug = $1`, cat.Venue.Slug); err != nil {
			return fmt.Errorf("clearing monsters for %q: %w", cat.Venue.Slug, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM venue_encounters WHERE venue_slug = $1`, cat.Venue.Slug); err != nil {
			return fmt.Errorf("clearing encounters for %q: %w", cat.Venue.Slug, err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"venue_monsters"},
			[]string{"venue_slug", "position", "name", "quickness"},
			pgx.CopyFromSlice(len(cat.Monsters), func(i int) ([]any, error) {
				m := cat.Monsters[i]
				return []any{cat.Venue.Slug, i, m.Name, m.Quickness}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copying monsters for %q: %w", cat.Venue.Slug, err)
		}

		batch := &pgx.Batch{}
		for i, combo := range cat.Encounters {
			batch.Queue(`INSERT INTO venue_encounters (venue_slug, position, monsters) VALUES ($1, $2, $3)`,
				cat.Venue.Slug, i, []string(combo))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting encounters for %q: %w", cat.Venue.Slug, err)
		}
		return nil
	})
}

// Catalog implements venue.Source.
//
// Postcondition: Returns the stored catalog, or an error wrapping
// venue.ErrCatalogNotFound when the venue has never been saved.
func (r *CatalogRepository) Catalog(ctx context.Context, v venue.Venue) (*venue.Catalog, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM venues WHERE slug = $1)`, v.Slug,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("querying venue %q: %w", v.Slug, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: venue %q not imported", venue.ErrCatalogNotFound, v.Name)
	}

	cat := &venue.Catalog{Venue: v}

	rows, err := r.db.Query(ctx, `
		SELECT name, quickness FROM venue_monsters
		WHERE venue_slug = $1 ORDER BY position ASC`, v.Slug)
	if err != nil {
		return nil, fmt.Errorf("listing monsters for %q: %w", v.Slug, err)
	}
	cat.Monsters, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (venue.MonsterRecord, error) {
		var m venue.MonsterRecord
		err := row.Scan(&m.Name, &m.Quickness)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning monsters for %q: %w", v.Slug, err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT monsters FROM venue_encounters
		WHERE venue_slug = $1 ORDER BY position ASC`, v.Slug)
	if err != nil {
		return nil, fmt.Errorf("listing encounters for %q: %w", v.Slug, err)
	}
	cat.Encounters, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (encounter.Combination, error) {
		var names []string
		err := row.Scan(&names)
		return encounter.Combination(names), err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning encounters for %q: %w", v.Slug, err)
	}

	return cat, nil
}

// ListVenueSlugs returns the slugs of every stored venue in slug order.
func (r *CatalogRepository) ListVenueSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT slug FROM venues ORDER BY slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing venues: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning venues: %w", err)
	}
	return slugs, nil
}
