// Package sorter orders item lists for display.
//
// Sorting is a top-down merge sort. It is stable in both directions:
// Descending inverts the comparator and leaves the merge unchanged, so items
// that compare equal keep their input order whichever way the list is sorted.
package sorter

import (
	"cmp"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/erazemk/shramba/internal/model"
)

// Key selects the field items are ordered by.
type Key int

// Sort keys.
const (
	ByName Key = iota
	ByQuantity
	ByDateAdded
)

func (k Key) String() string {
	switch k {
	case ByName:
		return "name"
	case ByQuantity:
		return "quantity"
	case ByDateAdded:
		return "date"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// ParseKey parses a sort key name as typed by a user.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "":
		return ByName, nil
	case "quantity", "qty":
		return ByQuantity, nil
	case "date", "added", "date-added", "created":
		return ByDateAdded, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q (want name, quantity or date)", s)
	}
}

// Direction is ascending or descending order.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection parses "asc"/"ascending" or "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
	}
}

// Items returns a sorted copy of items. The input slice is not modified.
func Items(items []model.Item, key Key, dir Direction) []model.Item {
	return MergeSort(items, Comparator(key, dir))
}

// Comparator returns the item ordering for key and dir.
func Comparator(key Key, dir Direction) func(a, b model.Item) int {
	var c func(a, b model.Item) int
	switch key {
	case ByQuantity:
		c = compareQuantity
	case ByDateAdded:
		c = compareDateAdded
	default:
		c = compareName
	}

	if dir == Descending {
		return func(a, b model.Item) int { return -c(a, b) }
	}
	return c
}

// compareName orders case-insensitively. Items without a name go last.
func compareName(a, b model.Item) int {
	switch {
	case a.Name == "" && b.Name == "":
		return 0
	case a.Name == "":
		return 1
	case b.Name == "":
		return -1
	}
	return compareFold(a.Name, b.Name)
}

func compareQuantity(a, b model.Item) int {
	return cmp.Compare(a.Quantity, b.Quantity)
}

// compareDateAdded orders chronologically. Items without a creation time go last.
func compareDateAdded(a, b model.Item) int {
	switch {
	case a.CreatedAt.IsZero() && b.CreatedAt.IsZero():
		return 0
	case a.CreatedAt.IsZero():
		return 1
	case b.CreatedAt.IsZero():
		return -1
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// compareFold compares two strings rune by rune, ignoring case.
func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if c := cmp.Compare(foldRune(ra), foldRune(rb)); c != 0 {
			return c
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}
