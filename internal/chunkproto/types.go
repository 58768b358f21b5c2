// Package chunkproto implements the wire codec for the List Service's
// update protocol: the text header of an update response, the
// length-prefixed binary chunk payload it redirects to, and the mixed
// text/binary full-hash response. See spec section 4.3.
package chunkproto

import "time"

// AddChunk is one (list, chunkNumber, prefix) record. Prefix is 4 or
// 32 bytes; it may be empty for an empty-chunk announcement.
type AddChunk struct {
	List        string
	ChunkNumber int32
	Prefix      []byte
}

// SubChunk is one (list, chunkNumber, addNumber, prefix) record. It
// cancels the AddChunk with the matching (list, addNumber, prefix).
type SubChunk struct {
	List        string
	ChunkNumber int32
	AddNumber   int32
	Prefix      []byte
}

// FullHash is a resolved 32-byte hash, cached until ValidUntil.
type FullHash struct {
	List       string
	Prefix     [4]byte
	Hash       [32]byte
	ValidUntil time.Time
}
