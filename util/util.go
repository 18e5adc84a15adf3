package util

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Round keeps 5 decimal places, enough for sub-sample timing precision
// while keeping serialized artifacts stable across platforms.
func Round(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func Min[A constraints.Ordered](a A, b A) A {
	if a < b {
		return a
	}
	return b
}

func Max[A constraints.Ordered](a A, b A) A {
	if a > b {
		return a
	}
	return b
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}
