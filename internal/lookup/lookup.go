// Package lookup is the lookup pipeline of spec section 4.7: given a
// URL and the lists to check it against, canonicalize, hash, find
// locally active prefix candidates, and resolve them to authoritative
// full hashes.
package lookup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/hashcache"
	"github.com/listguard/urlguard/internal/store"
	"github.com/listguard/urlguard/internal/urlhash"
)

// Pipeline glues the canonicalizer/hasher, chunk store and full-hash
// resolver together into the single lookup(lists, url) operation of
// spec section 4.7.
type Pipeline struct {
	store    store.Store
	resolver *hashcache.Resolver
	clk      clock.Clock
}

// New constructs a Pipeline. st and resolver are owned by the caller
// and must outlive the Pipeline.
func New(st store.Store, resolver *hashcache.Resolver, clk clock.Clock) *Pipeline {
	return &Pipeline{store: st, resolver: resolver, clk: clk}
}

// Match is one confirmed hit: url matched list via hash on prefix.
type Match struct {
	List   string
	Prefix urlhash.Prefix
	Hash   urlhash.FullHash
}

// Lookup canonicalizes url, computes its candidate prefixes, finds
// which of lists have a locally active add-record for any of them,
// resolves those candidates to authoritative full hashes, and returns
// every list that truly matches (spec section 4.7). Order reflects
// the order candidate prefixes were resolved in, per spec; duplicate
// (list, prefix, hash) matches are not re-emitted.
func (p *Pipeline) Lookup(ctx context.Context, lists []string, url string) ([]Match, error) {
	fullHashes, err := urlhash.FullHashes(url)
	if err != nil {
		return nil, fmt.Errorf("lookup: compute full hashes: %w", err)
	}

	wanted := make(map[urlhash.FullHash]struct{}, len(fullHashes))
	for _, h := range fullHashes {
		wanted[h] = struct{}{}
	}

	var prefixes []urlhash.Prefix

	seenPrefix := make(map[urlhash.Prefix]struct{}, len(fullHashes))

	for _, h := range fullHashes {
		prefix := urlhash.PrefixOf(h)
		if _, dup := seenPrefix[prefix]; dup {
			continue
		}

		seenPrefix[prefix] = struct{}{}
		prefixes = append(prefixes, prefix)
	}

	now := p.clk.Now()

	// Each prefix's local add/sub lookup is an independent store round
	// trip; fan them out instead of resolving prefixes one at a time
	// (spec section 5 treats each store RPC as a suspension point with
	// no ordering requirement across prefixes).
	active := make([][]string, len(prefixes))

	g, gctx := errgroup.WithContext(ctx)

	for i, prefix := range prefixes {
		i, prefix := i, prefix

		g.Go(func() error {
			a, err := p.activeLists(gctx, prefix, lists)
			if err != nil {
				return err
			}

			active[i] = a

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var candidates []hashcache.Candidate

	for i, prefix := range prefixes {
		if len(active[i]) == 0 {
			continue
		}

		candidates = append(candidates, hashcache.Candidate{Prefix: prefix, Lists: active[i]})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	resolved, err := p.resolver.Resolve(ctx, candidates, now)
	if err != nil {
		return nil, fmt.Errorf("lookup: resolve candidates: %w", err)
	}

	var matches []Match

	seen := make(map[Match]struct{})

	for _, c := range candidates {
		for _, fh := range resolved[c.Prefix] {
			if _, isURLHash := wanted[fh.Hash]; !isURLHash {
				continue
			}

			m := Match{List: fh.List, Prefix: c.Prefix, Hash: fh.Hash}
			if _, dup := seen[m]; dup {
				continue
			}

			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}

	return matches, nil
}

// activeLists returns the subset of lists (all lists known to the
// store, if lists is empty) that still hold an active add-record for
// prefix: an add-record with no matching sub-record, per spec section
// 3 invariant 2 (subtraction by (addNumber, prefix), not chunk
// number).
func (p *Pipeline) activeLists(ctx context.Context, prefix urlhash.Prefix, lists []string) ([]string, error) {
	adds, err := p.store.GetAdd(ctx, prefix.Hex(), lists)
	if err != nil {
		return nil, fmt.Errorf("lookup: get add candidates for %s: %w", prefix.Hex(), err)
	}

	if len(adds) == 0 {
		return nil, nil
	}

	subs, err := p.store.GetSub(ctx, prefix.Hex(), lists)
	if err != nil {
		return nil, fmt.Errorf("lookup: get sub candidates for %s: %w", prefix.Hex(), err)
	}

	cancelled := make(map[subKey]struct{}, len(subs))
	for _, s := range subs {
		cancelled[subKey{list: s.List, addNumber: s.AddNumber, prefixHex: hexOf(s.Prefix)}] = struct{}{}
	}

	seen := make(map[string]struct{}, len(adds))

	var active []string

	for _, a := range adds {
		key := subKey{list: a.List, addNumber: a.ChunkNumber, prefixHex: hexOf(a.Prefix)}
		if _, dead := cancelled[key]; dead {
			continue
		}

		if _, dup := seen[a.List]; dup {
			continue
		}

		seen[a.List] = struct{}{}
		active = append(active, a.List)
	}

	return active, nil
}

type subKey struct {
	list      string
	addNumber int32
	prefixHex string
}

func hexOf(b []byte) string {
	const hexdigits = "0123456789abcdef"

	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, hexdigits[c>>4], hexdigits[c&0xf])
	}

	return string(out)
}
