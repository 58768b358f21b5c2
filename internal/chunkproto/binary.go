package chunkproto

import (
	"errors"
	"fmt"
	"io"
)

// ChunkType mirrors the service's ChunkData.chunk_type enum. The zero
// value is ADD, matching the wire format's default-value semantics
// for an absent field.
type ChunkType int32

const (
	ChunkTypeAdd ChunkType = 0
	ChunkTypeSub ChunkType = 1
)

// PrefixType mirrors the service's ChunkData.prefix_type enum. The
// zero value is PREFIX_4B.
type PrefixType int32

const (
	PrefixType4B  PrefixType = 0
	PrefixType32B PrefixType = 1
)

func (t PrefixType) size() int {
	if t == PrefixType32B {
		return 32
	}

	return 4
}

// Errors returned while decoding a binary chunk payload.
var (
	ErrUnknownChunkType    = errors.New("chunkproto: unknown chunk type")
	ErrUnknownPrefixType   = errors.New("chunkproto: unknown prefix type")
	ErrHashesNotMultiple   = errors.New("chunkproto: hashes length not a multiple of prefix size")
	ErrAddNumbersMismatch  = errors.New("chunkproto: len(addNumbers) != number of prefixes")
	ErrChunkRecordTooLarge = errors.New("chunkproto: chunk record exceeds length prefix sanity bound")
)

// maxChunkRecordLen bounds a single length-prefixed record so a
// corrupt or hostile length field can't make the client try to
// allocate an unbounded buffer.
const maxChunkRecordLen = 64 << 20

// chunkData is the decoded form of one ChunkData wire message.
type chunkData struct {
	ChunkNumber int32
	ChunkType   ChunkType
	PrefixType  PrefixType
	Hashes      []byte
	AddNumbers  []int32
}

// decodeChunkData hand-decodes the three scalar fields plus packed
// repeated int32 of the ChunkData message directly off the protobuf
// wire format, tolerating and skipping any field it doesn't
// recognize.
func decodeChunkData(data []byte) (*chunkData, error) {
	cd := &chunkData{}
	r := newWireReader(data)

	for !r.done() {
		fieldNum, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}

		switch fieldNum {
		case 1:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}

			cd.ChunkNumber = int32(v)

		case 2:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}

			cd.ChunkType = ChunkType(v)

		case 3:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}

			cd.PrefixType = PrefixType(v)

		case 4:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}

			cd.Hashes = b

		case 5:
			switch wireType {
			case wireBytes:
				b, err := r.readBytes()
				if err != nil {
					return nil, err
				}

				nums, err := packedVarints(b)
				if err != nil {
					return nil, err
				}

				cd.AddNumbers = append(cd.AddNumbers, nums...)

			case wireVarint:
				v, err := r.readVarint()
				if err != nil {
					return nil, err
				}

				cd.AddNumbers = append(cd.AddNumbers, int32(v))

			default:
				return nil, fmt.Errorf("%w: field 5 wire type %d", ErrUnsupportedWireType, wireType)
			}

		default:
			if err := r.skipField(wireType); err != nil {
				return nil, err
			}
		}
	}

	if cd.ChunkType != ChunkTypeAdd && cd.ChunkType != ChunkTypeSub {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChunkType, cd.ChunkType)
	}

	if cd.PrefixType != PrefixType4B && cd.PrefixType != PrefixType32B {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPrefixType, cd.PrefixType)
	}

	return cd, nil
}

// splitPrefixes slices hashes into prefixSize-byte chunks.
func splitPrefixes(hashes []byte, prefixSize int) ([][]byte, error) {
	if len(hashes)%prefixSize != 0 {
		return nil, ErrHashesNotMultiple
	}

	n := len(hashes) / prefixSize
	out := make([][]byte, n)

	for i := 0; i < n; i++ {
		out[i] = hashes[i*prefixSize : (i+1)*prefixSize]
	}

	return out, nil
}

// toRecords converts a decoded ChunkData into the AddChunk or
// SubChunk records it carries, tagged with list. An empty-chunk
// announcement (no hashes) yields no records.
func (cd *chunkData) toRecords(list string) ([]AddChunk, []SubChunk, error) {
	size := cd.PrefixType.size()

	prefixes, err := splitPrefixes(cd.Hashes, size)
	if err != nil {
		return nil, nil, err
	}

	switch cd.ChunkType {
	case ChunkTypeAdd:
		adds := make([]AddChunk, len(prefixes))
		for i, p := range prefixes {
			adds[i] = AddChunk{List: list, ChunkNumber: cd.ChunkNumber, Prefix: p}
		}

		return adds, nil, nil

	case ChunkTypeSub:
		if len(cd.AddNumbers) != len(prefixes) {
			return nil, nil, fmt.Errorf("%w: %d add numbers for %d prefixes", ErrAddNumbersMismatch, len(cd.AddNumbers), len(prefixes))
		}

		subs := make([]SubChunk, len(prefixes))
		for i, p := range prefixes {
			subs[i] = SubChunk{List: list, ChunkNumber: cd.ChunkNumber, AddNumber: cd.AddNumbers[i], Prefix: p}
		}

		return nil, subs, nil

	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownChunkType, cd.ChunkType)
	}
}

// ParseChunkPayload decodes a binary chunk payload — a concatenation
// of u32_be length || ChunkData(length) records — into the add- and
// sub-chunk records it carries, tagged with list.
func ParseChunkPayload(r io.Reader, list string) ([]AddChunk, []SubChunk, error) {
	var adds []AddChunk
	var subs []SubChunk

	lenBuf := make([]byte, 4)

	for {
		_, err := io.ReadFull(r, lenBuf)
		if err == io.EOF {
			return adds, subs, nil
		}

		if err != nil {
			return nil, nil, fmt.Errorf("chunkproto: read record length: %w", err)
		}

		n := uint32BE(lenBuf)
		if n > maxChunkRecordLen {
			return nil, nil, fmt.Errorf("%w: %d", ErrChunkRecordTooLarge, n)
		}

		record := make([]byte, n)
		if _, err := io.ReadFull(r, record); err != nil {
			return nil, nil, fmt.Errorf("chunkproto: read record body: %w", err)
		}

		cd, err := decodeChunkData(record)
		if err != nil {
			return nil, nil, err
		}

		a, s, err := cd.toRecords(list)
		if err != nil {
			return nil, nil, err
		}

		adds = append(adds, a...)
		subs = append(subs, s...)
	}
}
