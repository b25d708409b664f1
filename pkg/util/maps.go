// Package util holds small generic helpers shared by the tidyhook packages.
package util

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order, so map-backed sets
// print and serialize deterministically.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// SetOf returns a membership set holding every element of every list.
func SetOf[K comparable](lists ...[]K) map[K]bool {
	set := make(map[K]bool)
	for _, list := range lists {
		for _, k := range list {
			set[k] = true
		}
	}
	return set
}
