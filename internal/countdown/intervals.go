package countdown

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultIntervals are the staged lead times, in minutes, used when none are configured.
var DefaultIntervals = []int{180, 120, 90, 60, 45, 30, 20}

// Intervals is an immutable set of lead times in minutes. Every whole minute
// below the smallest configured value is a lead time too.
type Intervals struct {
	set      map[int]struct{}
	ordered  []int
	smallest int
}

// NewIntervals validates and builds an Intervals set. Duplicates are folded.
func NewIntervals(minutes ...int) (Intervals, error) {
	if len(minutes) == 0 {
		return Intervals{}, fmt.Errorf("at least one announcement interval is required")
	}
	iv := Intervals{set: make(map[int]struct{}, len(minutes))}
	for _, m := range minutes {
		if m <= 0 {
			return Intervals{}, fmt.Errorf("announcement interval must be positive, got %d", m)
		}
		if _, dup := iv.set[m]; dup {
			continue
		}
		iv.set[m] = struct{}{}
		iv.ordered = append(iv.ordered, m)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(iv.ordered)))
	iv.smallest = iv.ordered[len(iv.ordered)-1]
	return iv, nil
}

// ParseIntervals reads a comma separated list such as "180,120,90".
func ParseIntervals(s string) (Intervals, error) {
	var minutes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil {
			return Intervals{}, fmt.Errorf("invalid announcement interval %q: %w", part, err)
		}
		minutes = append(minutes, m)
	}
	return NewIntervals(minutes...)
}

// Due reports whether minutes is a lead time.
func (iv Intervals) Due(minutes int) bool {
	if minutes <= 0 {
		return false
	}
	if minutes < iv.smallest {
		return true
	}
	_, ok := iv.set[minutes]
	return ok
}

// Minutes returns the configured values, largest first.
func (iv Intervals) Minutes() []int {
	return append([]int(nil), iv.ordered...)
}

// PerMinuteBelow is the smallest configured value; every minute under it is announced.
func (iv Intervals) PerMinuteBelow() int {
	return iv.smallest
}

func (iv Intervals) String() string {
	parts := make([]string, len(iv.ordered))
	for i, m := range iv.ordered {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
