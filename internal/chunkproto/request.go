package chunkproto

import "fmt"

// ComposeListLine renders one list's line of an update-request body:
// "<list>;[a:<aRange>][[:]s:<sRange>]\n", per spec section 4.4.
func ComposeListLine(list, aRange, sRange string) string {
	line := list + ";"

	if aRange != "" {
		line += "a:" + aRange
	}

	if sRange != "" {
		if aRange != "" {
			line += ":"
		}

		line += "s:" + sRange
	}

	return line + "\n"
}

// EncodeFullHashRequest renders a gethash request body: a
// "<prefixSize>:<totalBytes>\n" header followed by the concatenated
// prefix bytes, per spec section 6. All prefixes must share
// prefixSize.
func EncodeFullHashRequest(prefixSize int, prefixes [][]byte) []byte {
	total := prefixSize * len(prefixes)
	out := make([]byte, 0, len(fmt.Sprintf("%d:%d\n", prefixSize, total))+total)
	out = append(out, []byte(fmt.Sprintf("%d:%d\n", prefixSize, total))...)

	for _, p := range prefixes {
		out = append(out, p...)
	}

	return out
}
