package version

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// parse reads "v1.2.3" or "1.2.3-rc1" into its numeric components. Pre-release
// and build suffixes are ignored.
func parse(s string) ([]int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed version %q", s)
	}

	numbers := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("malformed version %q", s)
		}
		numbers[i] = n
	}
	return numbers, nil
}

// Compare returns 1 when a is newer than b, -1 when older and 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}
	return slices.Compare(av, bv), nil
}
