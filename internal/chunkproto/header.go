package chunkproto

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrDirectiveWithoutList is returned when an "ad:", "sd:", "u:" or
// "r:pleasereset" directive appears before any "i:" directive has
// named the list it applies to.
var ErrDirectiveWithoutList = errors.New("chunkproto: directive before i:")

// ListUpdate collects the directives an update response header issued
// for one list, in the order they were seen.
type ListUpdate struct {
	List      string
	DeleteAdd []Range
	DeleteSub []Range
	Redirects []string
	Reset     bool
}

// Header is the parsed text header of an update response.
type Header struct {
	// Wait is the minimum wait before the next poll, from the last
	// "n:" directive seen. Zero if absent.
	Wait time.Duration

	// Lists holds one ListUpdate per "i:" directive encountered, in
	// order.
	Lists []ListUpdate
}

// ParseHeader reads the ASCII, line-oriented directives of spec
// section 4.3's update-response header. Unrecognized directive
// prefixes are skipped for forward compatibility; malformed range
// syntax on a recognized directive is an error.
func ParseHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	var current *ListUpdate

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 4096)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch key {
		case "n":
			secs, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("chunkproto: bad n: directive %q: %w", line, err)
			}

			h.Wait = time.Duration(secs) * time.Second

		case "i":
			h.Lists = append(h.Lists, ListUpdate{List: val})
			current = &h.Lists[len(h.Lists)-1]

		case "u":
			if current == nil {
				return nil, fmt.Errorf("%w: %q", ErrDirectiveWithoutList, line)
			}

			current.Redirects = append(current.Redirects, val)

		case "ad":
			if current == nil {
				return nil, fmt.Errorf("%w: %q", ErrDirectiveWithoutList, line)
			}

			ranges, err := ParseRanges(val)
			if err != nil {
				return nil, err
			}

			current.DeleteAdd = ranges

		case "sd":
			if current == nil {
				return nil, fmt.Errorf("%w: %q", ErrDirectiveWithoutList, line)
			}

			ranges, err := ParseRanges(val)
			if err != nil {
				return nil, err
			}

			current.DeleteSub = ranges

		case "r":
			if current == nil {
				return nil, fmt.Errorf("%w: %q", ErrDirectiveWithoutList, line)
			}

			if val == "pleasereset" {
				current.Reset = true
			}

		default:
			// Unknown directive: tolerated, per the codec's "skip
			// unknown fields" contract.
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("chunkproto: scan header: %w", err)
	}

	return h, nil
}
