// Package encounter derives the monster choices that keep a partial
// encounter selection consistent with a venue's sanctioned combinations.
package encounter

import (
	"slices"
)

// MaxSlots is the maximum number of monsters in an encounter.
const MaxSlots = 4

// Combination is one sanctioned ordered grouping of monster names.
type Combination []string

// Selection is a partial, ordered choice of monster names. Unset slots hold
// the empty string. A Selection is treated as a value: use With to derive a
// changed copy rather than editing one in place.
type Selection []string

// Choices holds the permissible monster names for every slot.
type Choices [MaxSlots][]string

// With returns a copy of s with slot set to name, growing the copy with
// empty slots when slot is past the end. Later slots are kept; callers
// recompute choices to learn whether they remain consistent.
//
// Precondition: 0 <= slot < MaxSlots.
// Postcondition: s is not modified.
func (s Selection) With(slot int, name string) Selection {
	if slot < 0 || slot >= MaxSlots {
		return slices.Clone(s)
	}
	size := len(s)
	if slot >= size {
		size = slot + 1
	}
	out := make(Selection, size)
	copy(out, s)
	out[slot] = name
	return out
}

// Complete returns the selection with trailing unset slots removed.
func (s Selection) Complete() Selection {
	end := len(s)
	for end > 0 && s[end-1] == "" {
		end--
	}
	return slices.Clone(s[:end])
}

// ChoicesAt returns the sorted, distinct monster names allowed at slot k:
// those at position k of every combination longer than k whose first k
// names equal the selection's first k names. A selection shorter than k
// matches nothing past slot 0.
//
// Postcondition: Returns nil when k is outside [0, MaxSlots) or nothing matches.
func ChoicesAt(combos []Combination, sel Selection, k int) []string {
	if k < 0 || k >= MaxSlots {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range combos {
		if len(c) <= k || !prefixMatches(c, sel, k) {
			continue
		}
		name := c[k]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func prefixMatches(c Combination, sel Selection, k int) bool {
	for i := 0; i < k; i++ {
		if i >= len(sel) || sel[i] == "" || c[i] != sel[i] {
			return false
		}
	}
	return true
}

// ComputeChoices derives all four slot choice sets from the same selection.
func ComputeChoices(combos []Combination, sel Selection) Choices {
	var ch Choices
	for k := range MaxSlots {
		ch[k] = ChoicesAt(combos, sel, k)
	}
	return ch
}

// IsValid reports whether sel equals some combination exactly, in length,
// order and value.
func IsValid(combos []Combination, sel Selection) bool {
	for _, c := range combos {
		if slices.Equal([]string(c), []string(sel)) {
			return true
		}
	}
	return false
}
