package venue

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
)

// MonsterRecord is one row of a venue's monster data.
type MonsterRecord struct {
	Name      string `json:"name" yaml:"name"`
	Quickness int    `json:"quickness" yaml:"quickness"`
}

// Catalog holds everything loaded for one venue.
type Catalog struct {
	Venue      Venue
	Monsters   []MonsterRecord
	Encounters []encounter.Combination
}

// Monster returns the first monster record with the given name.
func (c *Catalog) Monster(name string) (MonsterRecord, bool) {
	for _, m := range c.Monsters {
		if m.Name == name {
			return m, true
		}
	}
	return MonsterRecord{}, false
}

// DataError reports malformed catalog data.
type DataError struct {
	// Source identifies the file or table the data came from.
	Source string
	// Row is the 1-based record number, or 0 when not row-specific.
	Row    int
	Reason string
}

// Error implements error.
func (e *DataError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: %s", e.Source, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

// ParseQuickness parses the leading integer of s, ignoring surrounding
// whitespace and any trailing non-digit text ("15abc" yields 15).
//
// Postcondition: Returns an error iff s has no leading integer.
func ParseQuickness(s string) (int, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("quickness %q is not a number", s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("quickness %q: %w", s, err)
	}
	return n, nil
}

// ParseMonstersCSV reads monster records from CSV whose header row names a
// "name" and a "quickness" column. Other columns and blank rows are ignored.
//
// Precondition: r must be non-nil.
// Postcondition: Returns the records in file order, or a *DataError / read error.
func ParseMonstersCSV(source string, r io.Reader) ([]MonsterRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataError{Source: source, Reason: "missing header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", source, err)
	}
	nameCol, quickCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			nameCol = i
		case "quickness":
			quickCol = i
		}
	}
	if nameCol < 0 || quickCol < 0 {
		return nil, &DataError{Source: source, Reason: "header must contain name and quickness columns"}
	}

	var out []MonsterRecord
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		if blankRecord(rec) {
			continue
		}
		if nameCol >= len(rec) || quickCol >= len(rec) {
			return nil, &DataError{Source: source, Row: row, Reason: "missing name or quickness field"}
		}
		name := strings.TrimSpace(rec[nameCol])
		if name == "" {
			return nil, &DataError{Source: source, Row: row, Reason: "name must not be empty"}
		}
		q, err := ParseQuickness(rec[quickCol])
		if err != nil {
			return nil, &DataError{Source: source, Row: row, Reason: err.Error()}
		}
		out = append(out, MonsterRecord{Name: name, Quickness: q})
	}
	return out, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ParseEncountersJSON reads a JSON array of monster-name arrays.
//
// Postcondition: Every returned combination has 1 to encounter.MaxSlots
// non-empty names, or a *DataError is returned.
func ParseEncountersJSON(source string, r io.Reader) ([]encounter.Combination, error) {
	var raw [][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	out := make([]encounter.Combination, 0, len(raw))
	for i, names := range raw {
		if len(names) == 0 || len(names) > encounter.MaxSlots {
			return nil, &DataError{Source: source, Row: i + 1,
				Reason: fmt.Sprintf("combination must list 1-%d monsters, got %d", encounter.MaxSlots, len(names))}
		}
		for _, n := range names {
			if n == "" {
				return nil, &DataError{Source: source, Row: i + 1, Reason: "monster name must not be empty"}
			}
		}
		out = append(out, encounter.Combination(names))
	}
	return out, nil
}
