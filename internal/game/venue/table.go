// Package venue provides venue metadata and the per-venue monster and
// encounter catalogs consumed by the encounter selector and turn scheduler.
package venue

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownVenue is returned when a venue name or slug is not in the table.
var ErrUnknownVenue = errors.New("unknown venue")

// Venue names a Coliseum location and the slug its data files are stored under.
type Venue struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// Table is an immutable, ordered lookup of venues.
type Table struct {
	venues []Venue
	byName map[string]int
	bySlug map[string]int
}

type yamlTableFile struct {
	Venues []Venue `yaml:"venues"`
}

// NewTable builds a Table from venues in display order.
//
// Precondition: none.
// Postcondition: Returns a Table, or an error if a name or slug is empty or duplicated.
func NewTable(venues []Venue) (*Table, error) {
	t := &Table{
		venues: make([]Venue, 0, len(venues)),
		byName: make(map[string]int, len(venues)),
		bySlug: make(map[string]int, len(venues)),
	}
	for _, v := range venues {
		if v.Name == "" || v.Slug == "" {
			return nil, fmt.Errorf("venue %q/%q: name and slug must not be empty", v.Name, v.Slug)
		}
		if _, dup := t.byName[v.Name]; dup {
			return nil, fmt.Errorf("duplicate venue name %q", v.Name)
		}
		if _, dup := t.bySlug[v.Slug]; dup {
			return nil, fmt.Errorf("duplicate venue slug %q", v.Slug)
		}
		t.byName[v.Name] = len(t.venues)
		t.bySlug[v.Slug] = len(t.venues)
		t.venues = append(t.venues, v)
	}
	return t, nil
}

// LoadTableFromBytes parses a venue table from YAML of the form
// `venues: [{name: ..., slug: ...}]`.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var file yamlTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing venue table YAML: %w", err)
	}
	if len(file.Venues) == 0 {
		return nil, errors.New("venue table must list at least one venue")
	}
	return NewTable(file.Venues)
}

// LoadTable reads a venue table YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading venue table %s: %w", path, err)
	}
	return LoadTableFromBytes(data)
}

// DefaultTable returns the built-in table of Coliseum venues.
func DefaultTable() *Table {
	t, err := NewTable([]Venue{
		{Name: "Training Fields", Slug: "trainingfields"},
		{Name: "Woodland Path", Slug: "woodlandpath"},
		{Name: "Scorched Forest", Slug: "scorchedforest"},
		{Name: "Sandswept Delta", Slug: "delta"},
		{Name: "Blooming Grove", Slug: "grove"},
		{Name: "Forgotten Cave", Slug: "forgottencave"},
		{Name: "Bamboo Falls", Slug: "bamboofalls"},
		{Name: "Thunderhead Savanna", Slug: "savanna"},
		{Name: "Redrock Cove", Slug: "cove"},
		{Name: "Waterway", Slug: "waterway"},
		{Name: "Arena", Slug: "arena"},
		{Name: "Volcanic Vents", Slug: "vents"},
		{Name: "Rainsong Jungle", Slug: "jungle"},
		{Name: "Boreal Wood", Slug: "borealwood"},
		{Name: "Crystal Pools", Slug: "pools"},
		{Name: "Harpy's Roost", Slug: "roost"},
		{Name: "Ghostlight Ruins", Slug: "ruins"},
		{Name: "Mire", Slug: "mire"},
		{Name: "Kelp Beds", Slug: "kelpbeds"},
		{Name: "Golem Workshop", Slug: "workshop"},
		{Name: "Forbidden Portal", Slug: "portal"},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the venue with the given display name.
func (t *Table) Lookup(name string) (Venue, error) {
	i, ok := t.byName[name]
	if !ok {
		return Venue{}, fmt.Errorf("%w: %q", ErrUnknownVenue, name)
	}
	return t.venues[i], nil
}

// BySlug returns the venue with the given slug.
func (t *Table) BySlug(slug string) (Venue, error) {
	i, ok := t.bySlug[slug]
	if !ok {
		return Venue{}, fmt.Errorf("%w: slug %q", ErrUnknownVenue, slug)
	}
	return t.venues[i], nil
}

// Resolve accepts either a display name or a slug.
func (t *Table) Resolve(key string) (Venue, error) {
	if v, err := t.Lookup(key); err == nil {
		return v, nil
	}
	return t.BySlug(key)
}

// All returns a copy of the venues in display order.
func (t *Table) All() []Venue {
	out := make([]Venue, len(t.venues))
	copy(out, t.venues)
	return out
}

// Len returns the number of venues.
func (t *Table) Len() int { return len(t.venues) }
