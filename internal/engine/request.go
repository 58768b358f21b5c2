package engine

import (
	"github.com/listguard/urlguard/internal/chunkproto"
	"github.com/listguard/urlguard/internal/httpclient"
)

// buildRequestLine composes the update-request line for list from its
// current add/sub range strings, truncating if necessary to stay
// within httpclient.MaxUpdateRequestBytes including the trailing
// newline (spec section 4.4, invariant 6).
//
// Truncation collapses the rightmost ranges of whichever range string
// is longer into a single span up to that range set's maximum chunk
// number, so the server is still told the declared upper bound even
// though intermediate chunk numbers are omitted from the listing. A
// later poll starts again from that same maximum, so nothing is lost
// permanently — only the itemization is coarsened for this one
// request.
func buildRequestLine(list, aRange, sRange string) (string, error) {
	line := chunkproto.ComposeListLine(list, aRange, sRange)
	if len(line) <= httpclient.MaxUpdateRequestBytes {
		return line, nil
	}

	aRanges, err := chunkproto.ParseRanges(aRange)
	if err != nil {
		return "", err
	}

	sRanges, err := chunkproto.ParseRanges(sRange)
	if err != nil {
		return "", err
	}

	// Shrink whichever side is larger first; re-check after each step.
	for len(line) > httpclient.MaxUpdateRequestBytes {
		aLen, sLen := len(chunkproto.FormatRanges(aRanges)), len(chunkproto.FormatRanges(sRanges))

		switch {
		case aLen >= sLen && len(aRanges) > 1:
			aRanges = collapseTail(aRanges)
		case len(sRanges) > 1:
			sRanges = collapseTail(sRanges)
		case len(aRanges) > 1:
			aRanges = collapseTail(aRanges)
		default:
			// Both sides are already single ranges; nothing left to
			// shrink without dropping the declared upper bound, which
			// invariant 6's truncation rule forbids.
			return line, nil
		}

		line = chunkproto.ComposeListLine(list, chunkproto.FormatRanges(aRanges), chunkproto.FormatRanges(sRanges))
	}

	return line, nil
}

// collapseTail keeps the first half of ranges and merges the rest into
// a single span running up to the overall maximum, roughly halving the
// itemized range count each call.
func collapseTail(ranges []chunkproto.Range) []chunkproto.Range {
	if len(ranges) <= 1 {
		return ranges
	}

	keep := len(ranges) / 2
	max, _ := chunkproto.Max(ranges)

	out := make([]chunkproto.Range, keep+1)
	copy(out, ranges[:keep])
	out[keep] = chunkproto.Range{Lo: ranges[keep].Lo, Hi: max}

	return out
}
