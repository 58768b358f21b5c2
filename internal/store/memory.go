package store

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/listguard/urlguard/internal/chunkproto"
)

type addKey struct {
	list        string
	chunkNumber int32
	prefixHex   string
}

type subKey struct {
	list        string
	chunkNumber int32
	addNumber   int32
	prefixHex   string
}

// Memory is an in-memory Store, the "in-memory map" backing choice
// spec section 1 names alongside a replicated key-value store. It is
// safe for concurrent use and is the default for tests and small
// single-process deployments.
type Memory struct {
	mu sync.RWMutex

	adds         map[addKey]chunkproto.AddChunk
	addByChunk   map[string]map[int32]map[addKey]struct{} // list -> chunkNumber -> keys
	addByPrefix4 map[string]map[addKey]struct{}           // prefix4hex -> keys

	subs         map[subKey]chunkproto.SubChunk
	subByChunk   map[string]map[int32]map[subKey]struct{}
	subByPrefix4 map[string]map[subKey]struct{}

	fullHashes map[string]map[string][]chunkproto.FullHash // list -> prefix4hex -> records
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		adds:         make(map[addKey]chunkproto.AddChunk),
		addByChunk:   make(map[string]map[int32]map[addKey]struct{}),
		addByPrefix4: make(map[string]map[addKey]struct{}),
		subs:         make(map[subKey]chunkproto.SubChunk),
		subByChunk:   make(map[string]map[int32]map[subKey]struct{}),
		subByPrefix4: make(map[string]map[subKey]struct{}),
		fullHashes:   make(map[string]map[string][]chunkproto.FullHash),
	}
}

func (m *Memory) Ranges(_ context.Context, list string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return chunkproto.FormatRanges(singlePointRanges(keysOf(m.addByChunk[list]))),
		chunkproto.FormatRanges(singlePointRanges(keysOf(m.subByChunk[list]))), nil
}

func keysOf[V any](m map[int32]V) []int32 {
	out := make([]int32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func singlePointRanges(nums []int32) []chunkproto.Range {
	out := make([]chunkproto.Range, len(nums))
	for i, n := range nums {
		out[i] = chunkproto.Range{Lo: n, Hi: n}
	}

	return out
}

func (m *Memory) DeleteAdd(_ context.Context, list string, chunkNums []int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range chunkNums {
		for k := range m.addByChunk[list][n] {
			delete(m.adds, k)
			delete(m.addByPrefix4[k.prefixHex], k)
		}

		delete(m.addByChunk[list], n)
	}

	return nil
}

func (m *Memory) DeleteSub(_ context.Context, list string, chunkNums []int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range chunkNums {
		for k := range m.subByChunk[list][n] {
			delete(m.subs, k)
			delete(m.subByPrefix4[k.prefixHex], k)
		}

		delete(m.subByChunk[list], n)
	}

	return nil
}

func (m *Memory) GetAdd(_ context.Context, prefix4 string, lists []string) ([]chunkproto.AddChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := toSet(lists)
	out := make([]chunkproto.AddChunk, 0, len(m.addByPrefix4[prefix4]))

	for k := range m.addByPrefix4[prefix4] {
		if len(wanted) > 0 && !wanted[k.list] {
			continue
		}

		out = append(out, m.adds[k])
	}

	return out, nil
}

func (m *Memory) GetSub(_ context.Context, prefix4 string, lists []string) ([]chunkproto.SubChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := toSet(lists)
	out := make([]chunkproto.SubChunk, 0, len(m.subByPrefix4[prefix4]))

	for k := range m.subByPrefix4[prefix4] {
		if len(wanted) > 0 && !wanted[k.list] {
			continue
		}

		out = append(out, m.subs[k])
	}

	return out, nil
}

func (m *Memory) AddBulkAdd(_ context.Context, chunks []chunkproto.AddChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chunks {
		k := addKey{list: c.List, chunkNumber: c.ChunkNumber, prefixHex: hex.EncodeToString(c.Prefix)}
		m.adds[k] = c

		if m.addByChunk[c.List] == nil {
			m.addByChunk[c.List] = make(map[int32]map[addKey]struct{})
		}

		if m.addByChunk[c.List][c.ChunkNumber] == nil {
			m.addByChunk[c.List][c.ChunkNumber] = make(map[addKey]struct{})
		}

		m.addByChunk[c.List][c.ChunkNumber][k] = struct{}{}

		p4 := prefixHex(c.Prefix)
		if m.addByPrefix4[p4] == nil {
			m.addByPrefix4[p4] = make(map[addKey]struct{})
		}

		m.addByPrefix4[p4][k] = struct{}{}
	}

	return nil
}

func (m *Memory) AddBulkSub(_ context.Context, chunks []chunkproto.SubChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chunks {
		k := subKey{list: c.List, chunkNumber: c.ChunkNumber, addNumber: c.AddNumber, prefixHex: hex.EncodeToString(c.Prefix)}
		m.subs[k] = c

		if m.subByChunk[c.List] == nil {
			m.subByChunk[c.List] = make(map[int32]map[subKey]struct{})
		}

		if m.subByChunk[c.List][c.ChunkNumber] == nil {
			m.subByChunk[c.List][c.ChunkNumber] = make(map[subKey]struct{})
		}

		m.subByChunk[c.List][c.ChunkNumber][k] = struct{}{}

		p4 := prefixHex(c.Prefix)
		if m.subByPrefix4[p4] == nil {
			m.subByPrefix4[p4] = make(map[subKey]struct{})
		}

		m.subByPrefix4[p4][k] = struct{}{}
	}

	return nil
}

func (m *Memory) GetFullHashes(_ context.Context, prefix4, list string, now time.Time) ([]chunkproto.FullHash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.fullHashes[list][prefix4]
	live := records[:0:0]

	for _, r := range records {
		if r.ValidUntil.After(now) {
			live = append(live, r)
		}
	}

	if len(live) == 0 {
		delete(m.fullHashes[list], prefix4)
	} else {
		m.fullHashes[list][prefix4] = live
	}

	out := make([]chunkproto.FullHash, len(live))
	copy(out, live)

	return out, nil
}

func (m *Memory) AddFullHashes(_ context.Context, hashes []chunkproto.FullHash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range hashes {
		p4 := hex.EncodeToString(h.Prefix[:])

		if m.fullHashes[h.List] == nil {
			m.fullHashes[h.List] = make(map[string][]chunkproto.FullHash)
		}

		existing := m.fullHashes[h.List][p4]

		dup := false

		for i, e := range existing {
			if e.Hash == h.Hash {
				existing[i] = h
				dup = true

				break
			}
		}

		if !dup {
			existing = append(existing, h)
		}

		m.fullHashes[h.List][p4] = existing
	}

	return nil
}

func (m *Memory) Reset(_ context.Context, list string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n := range m.addByChunk[list] {
		for k := range m.addByChunk[list][n] {
			delete(m.adds, k)
			delete(m.addByPrefix4[k.prefixHex], k)
		}
	}

	delete(m.addByChunk, list)

	for n := range m.subByChunk[list] {
		for k := range m.subByChunk[list][n] {
			delete(m.subs, k)
			delete(m.subByPrefix4[k.prefixHex], k)
		}
	}

	delete(m.subByChunk, list)
	delete(m.fullHashes, list)

	return nil
}

func toSet(lists []string) map[string]bool {
	if len(lists) == 0 {
		return nil
	}

	out := make(map[string]bool, len(lists))
	for _, l := range lists {
		out[l] = true
	}

	return out
}

var _ Store = (*Memory)(nil)
