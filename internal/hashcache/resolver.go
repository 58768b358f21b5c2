package hashcache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/listguard/urlguard/internal/chunkproto"
	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/httpclient"
	"github.com/listguard/urlguard/internal/logger"
	"github.com/listguard/urlguard/internal/scratch"
	"github.com/listguard/urlguard/internal/store"
	"github.com/listguard/urlguard/internal/urlhash"
)

// Candidate is one local add-chunk hit awaiting full-hash resolution:
// prefix matched an active add-record on every list in Lists.
type Candidate struct {
	Prefix urlhash.Prefix
	Lists  []string
}

// Resolver is the full-hash cache and resolver of spec section 4.6.
type Resolver struct {
	cfg   Config
	http  *httpclient.Client
	store store.Store
	db    *scratch.DB
	clk   clock.Clock

	backoff *lru.Cache[string, backoffEntry]
}

// New constructs a Resolver. st and db are owned by the caller and
// must outlive the Resolver.
func New(cfg Config, httpClient *httpclient.Client, st store.Store, db *scratch.DB, clk clock.Clock) *Resolver {
	return &Resolver{
		cfg:     cfg,
		http:    httpClient,
		store:   st,
		db:      db,
		clk:     clk,
		backoff: newBackoffCache(cfg.BackoffCacheSize),
	}
}

// Resolve answers each candidate from the local full-hash cache where
// possible and, for the rest, issues a single batched gethash round
// trip covering every uncached, unsuppressed prefix. The returned map
// is keyed by prefix and holds every live record found or resolved
// for that prefix's requested lists — callers intersect this against
// the URL's own computed full hashes (spec section 4.6/4.7).
//
// A transport or parse failure during the batched round trip is
// folded into per-prefix backoff and logged, not returned: per spec
// section 7, only the affected prefixes are suppressed from future
// batches, and a lookup proceeds with whatever was already cached.
func (r *Resolver) Resolve(ctx context.Context, candidates []Candidate, now time.Time) (map[urlhash.Prefix][]chunkproto.FullHash, error) {
	result := make(map[urlhash.Prefix][]chunkproto.FullHash)

	var toFetch []Candidate

	for _, c := range candidates {
		cached, err := r.cachedHashes(ctx, c, now)
		if err != nil {
			return nil, err
		}

		if len(cached) > 0 {
			result[c.Prefix] = append(result[c.Prefix], cached...)

			continue
		}

		state, err := r.backoffState(ctx, c.Prefix.Hex())
		if err != nil {
			return nil, err
		}

		if suppressed(state, now) {
			continue
		}

		toFetch = append(toFetch, c)
	}

	if len(toFetch) == 0 {
		return result, nil
	}

	if err := r.fetch(ctx, toFetch, now, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Resolver) cachedHashes(ctx context.Context, c Candidate, now time.Time) ([]chunkproto.FullHash, error) {
	var out []chunkproto.FullHash

	for _, list := range c.Lists {
		hashes, err := r.store.GetFullHashes(ctx, c.Prefix.Hex(), list, now)
		if err != nil {
			return nil, fmt.Errorf("hashcache: get cached hashes for %s/%s: %w", list, c.Prefix.Hex(), err)
		}

		out = append(out, hashes...)
	}

	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, candidates []Candidate, now time.Time, result map[urlhash.Prefix][]chunkproto.FullHash) error {
	prefixes := make([][]byte, len(candidates))
	wantedLists := make(map[urlhash.Prefix]map[string]bool, len(candidates))

	for i, c := range candidates {
		p := c.Prefix
		prefixes[i] = p[:]

		lists := make(map[string]bool, len(c.Lists))
		for _, l := range c.Lists {
			lists[l] = true
		}

		wantedLists[c.Prefix] = lists
	}

	body := chunkproto.EncodeFullHashRequest(urlhash.PrefixLen, prefixes)

	respBody, err := r.http.PostFullHash(ctx, body)
	if err != nil {
		logger.Warning.Printf("hashcache: gethash request failed: %s\n", err)

		return r.recordFailures(ctx, candidates, now)
	}

	parsed, err := chunkproto.ParseFullHashResponse(respBody)
	respBody.Close()

	if err != nil {
		logger.Warning.Printf("hashcache: gethash response malformed: %s\n", err)

		return r.recordFailures(ctx, candidates, now)
	}

	lifetime := parsed.CacheLifetime
	if r.cfg.CacheTime > 0 {
		lifetime = r.cfg.CacheTime
	}

	validUntil := now.Add(lifetime)

	var toPersist []chunkproto.FullHash

	for _, e := range parsed.Entries {
		prefix := urlhash.PrefixOf(urlhash.FullHash(e.Hash))

		fh := chunkproto.FullHash{
			List:       e.List,
			Prefix:     [4]byte(prefix),
			Hash:       e.Hash,
			ValidUntil: validUntil,
		}

		toPersist = append(toPersist, fh)

		if lists, ok := wantedLists[prefix]; ok && lists[e.List] {
			result[prefix] = append(result[prefix], fh)
		}
	}

	if len(toPersist) > 0 {
		if err := r.store.AddFullHashes(ctx, toPersist); err != nil {
			return fmt.Errorf("hashcache: persist resolved hashes: %w", err)
		}
	}

	return r.recordSuccesses(ctx, candidates)
}

func (r *Resolver) backoffState(ctx context.Context, hexPrefix string) (backoffEntry, error) {
	if s, ok := r.backoff.Get(hexPrefix); ok {
		return s, nil
	}

	s, found, err := r.db.PrefixErrorState(ctx, hexPrefix)
	if err != nil {
		return backoffEntry{}, fmt.Errorf("hashcache: read error state for %s: %w", hexPrefix, err)
	}

	if !found {
		s = backoffEntry{}
	}

	r.backoff.Add(hexPrefix, s)

	return s, nil
}

func (r *Resolver) recordFailures(ctx context.Context, candidates []Candidate, now time.Time) error {
	for _, c := range candidates {
		hexPrefix := c.Prefix.Hex()

		prior, err := r.backoffState(ctx, hexPrefix)
		if err != nil {
			return err
		}

		next := onFailure(prior, now)

		r.backoff.Add(hexPrefix, next)

		if err := r.db.SetPrefixErrorState(ctx, hexPrefix, next); err != nil {
			return fmt.Errorf("hashcache: persist error state for %s: %w", hexPrefix, err)
		}
	}

	return nil
}

func (r *Resolver) recordSuccesses(ctx context.Context, candidates []Candidate) error {
	for _, c := range candidates {
		hexPrefix := c.Prefix.Hex()

		r.backoff.Add(hexPrefix, backoffEntry{})

		if err := r.db.DeletePrefixErrorState(ctx, hexPrefix); err != nil {
			return fmt.Errorf("hashcache: clear error state for %s: %w", hexPrefix, err)
		}
	}

	return nil
}
