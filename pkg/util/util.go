package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDList. parse a comma separated list of vertex ids, e.g. "1, 5,9". duplicates are kept.
func ParseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty vertex id list %q", s)
	}
	return ids, nil
}

// Dedup. copy of arr without repeated elements, first occurrence order kept.
func Dedup[T comparable](arr []T) []T {
	seen := make(map[T]struct{}, len(arr))
	out := make([]T, 0, len(arr))
	for _, x := range arr {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
