package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/listguard/urlguard/internal/chunkproto"
	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/httpclient"
	"github.com/listguard/urlguard/internal/logger"
	"github.com/listguard/urlguard/internal/scratch"
	"github.com/listguard/urlguard/internal/store"
)

// Engine drives the per-list update state machine of spec section 4.4.
// It owns no goroutines of its own; Update runs one pass over the
// lists it is given and returns once every list has either applied an
// update, deferred because it wasn't due, or failed into backoff.
type Engine struct {
	cfg   Config
	http  *httpclient.Client
	store store.Store
	db    *scratch.DB
	clk   clock.Clock
	rnd   *rand.Rand

	mu       sync.Mutex
	inFlight map[string]bool
}

// New constructs an Engine. st and db are owned by the caller and must
// outlive the Engine.
func New(cfg Config, st store.Store, db *scratch.DB, clk clock.Clock) *Engine {
	cfg = cfg.withDefaults()

	hc := httpclient.New(httpclient.Config{
		Server:     cfg.Server,
		APIKey:     cfg.APIKey,
		AppVer:     cfg.AppVer,
		PVer:       cfg.Version,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.HTTPTimeout,
		HTTPClient: cfg.HTTPClient,
	})

	return &Engine{
		cfg:      cfg,
		http:     hc,
		store:    st,
		db:       db,
		clk:      clk,
		rnd:      rand.New(rand.NewSource(clk.Now().UnixNano())),
		inFlight: make(map[string]bool),
	}
}

// ListResult reports the outcome of one list's update attempt.
type ListResult struct {
	List    string
	Applied bool
	Wait    time.Duration
	Err     error
}

// Update runs one pass of the per-list state machine over lists,
// bounded by the cross-list concurrency cap of spec section 5
// (len(lists) concurrent HTTP requests, one per list). A list already
// in flight from a previous Update call is skipped and reported with
// Config.DefaultRetry, per the §4.4 guard.
func (e *Engine) Update(ctx context.Context, lists []string, force bool) []ListResult {
	if len(lists) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(int64(len(lists)))
	results := make([]ListResult, len(lists))

	var wg sync.WaitGroup

	for i, list := range lists {
		wg.Add(1)

		go func(i int, list string) {
			defer wg.Done()

			results[i] = e.updateList(ctx, list, force, sem)
		}(i, list)
	}

	wg.Wait()

	return results
}

func (e *Engine) tryMarkInFlight(list string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight[list] {
		return false
	}

	e.inFlight[list] = true

	return true
}

func (e *Engine) unmarkInFlight(list string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.inFlight, list)
}

func (e *Engine) updateList(ctx context.Context, list string, force bool, sem *semaphore.Weighted) ListResult {
	result := ListResult{List: list}

	if err := sem.Acquire(ctx, 1); err != nil {
		result.Err = fmt.Errorf("engine: acquire slot for %s: %w", list, err)

		return result
	}
	defer sem.Release(1)

	if !e.tryMarkInFlight(list) {
		result.Wait = e.cfg.DefaultRetry

		return result
	}
	defer e.unmarkInFlight(list)

	prior, found, err := e.db.ListState(ctx, list)
	if err != nil {
		result.Err = fmt.Errorf("engine: read list state for %s: %w", list, err)

		return result
	}

	now := e.clk.Now()

	if !force && found && now.Before(prior.Time.Add(prior.Wait)) {
		result.Wait = prior.Time.Add(prior.Wait).Sub(now)

		return result
	}

	return e.pollList(ctx, list, prior, now)
}

// pollList runs one full BuildRequest..ApplyChunks cycle for list. Any
// failure along the way goes through backoff, which replaces the prior
// list state with the failure time, the backoff wait and the bumped
// error count; only a cycle that runs to completion commits a success
// state with the error count reset to 0.
func (e *Engine) pollList(ctx context.Context, list string, prior scratch.ListState, now time.Time) ListResult {
	result := ListResult{List: list}

	aRange, sRange, err := e.store.Ranges(ctx, list)
	if err != nil {
		return e.backoff(ctx, list, prior, result, fmt.Errorf("engine: read ranges for %s: %w", list, err))
	}

	line, err := buildRequestLine(list, aRange, sRange)
	if err != nil {
		return e.backoff(ctx, list, prior, result, fmt.Errorf("engine: build request for %s: %w", list, err))
	}

	respBody, err := e.http.PostUpdate(ctx, []byte(line))
	if err != nil {
		return e.backoff(ctx, list, prior, result, fmt.Errorf("engine: post update for %s: %w", list, err))
	}

	header, err := chunkproto.ParseHeader(respBody)
	respBody.Close()

	if err != nil {
		return e.backoff(ctx, list, prior, result, fmt.Errorf("engine: parse header for %s: %w", list, err))
	}

	lu := findListUpdate(header, list)

	if lu != nil && lu.Reset {
		return e.applyReset(ctx, list, prior, result, now)
	}

	if lu != nil {
		if err := e.applyDeletes(ctx, list, lu.DeleteAdd, lu.DeleteSub); err != nil {
			return e.backoff(ctx, list, prior, result, err)
		}

		if err := e.applyRedirects(ctx, list, lu.Redirects); err != nil {
			return e.backoff(ctx, list, prior, result, err)
		}
	}

	wait := header.Wait
	if wait <= 0 {
		wait = e.cfg.DefaultRetry
	}

	result.Applied = true
	result.Wait = wait

	if err := e.db.SetListState(ctx, list, scratch.ListState{Time: now, Wait: wait, Errors: 0}); err != nil {
		result.Err = fmt.Errorf("engine: commit list state for %s: %w", list, err)
	}

	return result
}

func findListUpdate(h *chunkproto.Header, list string) *chunkproto.ListUpdate {
	for i := range h.Lists {
		if h.Lists[i].List == list {
			return &h.Lists[i]
		}
	}

	return nil
}

func (e *Engine) applyReset(ctx context.Context, list string, prior scratch.ListState, result ListResult, now time.Time) ListResult {
	if err := e.store.Reset(ctx, list); err != nil {
		return e.backoff(ctx, list, prior, result, fmt.Errorf("engine: reset %s: %w", list, err))
	}

	result.Applied = true
	result.Wait = 10 * time.Second

	if err := e.db.SetListState(ctx, list, scratch.ListState{Time: now, Wait: result.Wait, Errors: 0}); err != nil {
		result.Err = fmt.Errorf("engine: commit list state for %s: %w", list, err)
	}

	logger.Info.Printf("list %s reset by r:pleasereset\n", list)

	return result
}

// backoff computes the next backoff wait from prior's error count,
// persists it so a restart resumes the same schedule, and returns a
// ListResult reporting the failure.
func (e *Engine) backoff(ctx context.Context, list string, prior scratch.ListState, result ListResult, cause error) ListResult {
	errs := prior.Errors + 1
	wait := backoffWait(errs, e.rnd)

	result.Err = cause
	result.Wait = wait

	if err := e.db.SetListState(ctx, list, scratch.ListState{Time: e.clk.Now(), Wait: wait, Errors: errs}); err != nil {
		logger.Error.Printf("engine: failed to persist backoff state for %s: %s\n", list, err)
	}

	return result
}

func (e *Engine) applyDeletes(ctx context.Context, list string, addRanges, subRanges []chunkproto.Range) error {
	for _, b := range batch(chunkproto.Numbers(addRanges), 500) {
		if err := e.store.DeleteAdd(ctx, list, b); err != nil {
			return fmt.Errorf("engine: delete add chunks for %s: %w", list, err)
		}
	}

	for _, b := range batch(chunkproto.Numbers(subRanges), 500) {
		if err := e.store.DeleteSub(ctx, list, b); err != nil {
			return fmt.Errorf("engine: delete sub chunks for %s: %w", list, err)
		}
	}

	return nil
}

func (e *Engine) applyRedirects(ctx context.Context, list string, redirects []string) error {
	for _, u := range redirects {
		body, err := e.http.FetchRedirect(ctx, u)
		if err != nil {
			return fmt.Errorf("engine: fetch redirect %s: %w", u, err)
		}

		adds, subs, err := chunkproto.ParseChunkPayload(body, list)
		body.Close()

		if err != nil {
			return fmt.Errorf("engine: parse payload from %s: %w", u, err)
		}

		if err := e.bulkInsert(ctx, adds, subs); err != nil {
			return err
		}
	}

	return nil
}

// bulkInsert fans out add/sub batches of at most 1000 records each
// (spec section 4.4) and waits for every batch to complete before
// returning, so the caller never transitions a list to Idle with
// inserts still in flight.
func (e *Engine) bulkInsert(ctx context.Context, adds []chunkproto.AddChunk, subs []chunkproto.SubChunk) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, b := range batch(adds, 1000) {
		b := b

		g.Go(func() error { return e.store.AddBulkAdd(gctx, b) })
	}

	for _, b := range batch(subs, 1000) {
		b := b

		g.Go(func() error { return e.store.AddBulkSub(gctx, b) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("engine: bulk insert: %w", err)
	}

	return nil
}

func batch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}

	out := make([][]T, 0, (len(items)+size-1)/size)

	for len(items) > 0 {
		n := size
		if n > len(items) {
			n = len(items)
		}

		out = append(out, items[:n])
		items = items[n:]
	}

	return out
}
