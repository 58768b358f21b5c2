package chunkproto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Range is an inclusive closed range of chunk numbers, [Lo, Hi].
type Range struct {
	Lo, Hi int32
}

// ParseRanges parses a comma-separated list of integers and "a-b"
// inclusive ranges, e.g. "1-3,5,8-10". An empty string yields no
// ranges.
func ParseRanges(s string) ([]Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]Range, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if i := strings.IndexByte(p, '-'); i > 0 {
			lo, err := strconv.ParseInt(p[:i], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("chunkproto: bad range %q: %w", p, err)
			}

			hi, err := strconv.ParseInt(p[i+1:], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("chunkproto: bad range %q: %w", p, err)
			}

			if hi < lo {
				return nil, fmt.Errorf("chunkproto: bad range %q: hi < lo", p)
			}

			out = append(out, Range{Lo: int32(lo), Hi: int32(hi)})

			continue
		}

		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("chunkproto: bad range %q: %w", p, err)
		}

		out = append(out, Range{Lo: int32(v), Hi: int32(v)})
	}

	return out, nil
}

// FormatRanges renders ranges as a compact comma-separated string, in
// ascending order, with adjacent and overlapping ranges merged.
func FormatRanges(ranges []Range) string {
	ranges = CompactRanges(ranges)
	if len(ranges) == 0 {
		return ""
	}

	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Lo == r.Hi {
			parts[i] = strconv.Itoa(int(r.Lo))
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Lo, r.Hi)
		}
	}

	return strings.Join(parts, ",")
}

// CompactRanges sorts ranges and merges adjacent or overlapping ones.
func CompactRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	out := make([]Range, 0, len(sorted))
	cur := sorted[0]

	for _, r := range sorted[1:] {
		if r.Lo <= cur.Hi+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}

			continue
		}

		out = append(out, cur)
		cur = r
	}

	out = append(out, cur)

	return out
}

// Max returns the highest chunk number covered by ranges, and false if
// ranges is empty.
func Max(ranges []Range) (int32, bool) {
	if len(ranges) == 0 {
		return 0, false
	}

	max := ranges[0].Hi
	for _, r := range ranges[1:] {
		if r.Hi > max {
			max = r.Hi
		}
	}

	return max, true
}

// Contains reports whether n falls within any of ranges.
func Contains(ranges []Range, n int32) bool {
	for _, r := range ranges {
		if n >= r.Lo && n <= r.Hi {
			return true
		}
	}

	return false
}

// Numbers expands ranges into the individual chunk numbers it covers.
func Numbers(ranges []Range) []int32 {
	var out []int32

	for _, r := range ranges {
		for n := r.Lo; n <= r.Hi; n++ {
			out = append(out, n)
		}
	}

	return out
}
