// Package featureid derives the stable anchor key that ties a rendered
// neighborhood shape to its tooltip and hover state.
package featureid

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Namespace prefixes every id so it is usable as an anchor key even when the
// normalized name starts with a digit.
const Namespace = "path-"

// ID is a normalized, namespaced neighborhood identifier.
type ID string

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// For lowercases name, strips every non-word character and prefixes Namespace.
func For(name string) ID {
	return ID(Namespace + nonWord.ReplaceAllString(strings.ToLower(name), ""))
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// CollisionError reports two distinct names that normalize to the same ID.
type CollisionError struct {
	ID     ID
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("featureid: %q and %q both normalize to %s", e.First, e.Second, e.ID)
}

// Validate returns an index from ID to name, or a *CollisionError for the
// first pair of distinct names sharing an ID. Repeated identical names are
// not collisions. Names are checked in sorted order so the reported pair is
// deterministic.
func Validate(names []string) (map[ID]string, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	index := make(map[ID]string, len(sorted))
	for _, n := range sorted {
		id := For(n)
		if prev, ok := index[id]; ok {
			if prev != n {
				return nil, &CollisionError{ID: id, First: prev, Second: n}
			}
			continue
		}
		index[id] = n
	}
	return index, nil
}
