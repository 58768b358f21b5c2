package hashcache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/httpclient"
	"github.com/listguard/urlguard/internal/scratch"
	"github.com/listguard/urlguard/internal/store"
	"github.com/listguard/urlguard/internal/urlhash"
)

func newTestDB(t *testing.T) *scratch.DB {
	t.Helper()

	db, err := scratch.Open(scratch.Config{Path: ":memory:", PoolSize: 1})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return db
}

func gethashResponse(cacheLifetimeSecs int, list string, hashes ...[32]byte) string {
	body := fmt.Sprintf("%d\n", cacheLifetimeSecs)
	if len(hashes) == 0 {
		return body
	}

	body += fmt.Sprintf("%s:32:%d\n", list, len(hashes))

	for _, h := range hashes {
		body += string(h[:])
	}

	return body
}

func newResolver(t *testing.T, cfg Config, handler http.HandlerFunc) (*Resolver, store.Store, *scratch.DB, *clock.FakeClock) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := store.NewMemory()
	db := newTestDB(t)
	clk := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	hc := httpclient.New(httpclient.Config{Server: srv.URL + "/", APIKey: "k", HTTPClient: srv.Client()})

	return New(cfg, hc, st, db, clk), st, db, clk
}

func TestResolveFetchesAndCachesMiss(t *testing.T) {
	var prefix urlhash.Prefix
	copy(prefix[:], []byte{0xde, 0xad, 0xbe, 0xef})

	var hash [32]byte
	copy(hash[:], prefix[:])

	requests := 0

	r, st, _, clk := newResolver(t, Config{}, func(w http.ResponseWriter, req *http.Request) {
		requests++
		_, _ = w.Write([]byte(gethashResponse(900, "goog-malware-shavar", hash)))
	})

	now := clk.Now()

	result, err := r.Resolve(context.Background(), []Candidate{
		{Prefix: prefix, Lists: []string{"goog-malware-shavar"}},
	}, now)
	require.NoError(t, err)
	require.Len(t, result[prefix], 1)
	require.Equal(t, hash, result[prefix][0].Hash)
	require.Equal(t, 1, requests)

	cached, err := st.GetFullHashes(context.Background(), prefix.Hex(), "goog-malware-shavar", now)
	require.NoError(t, err)
	require.Len(t, cached, 1)

	// Second resolve is answered entirely from the store; no new request.
	result2, err := r.Resolve(context.Background(), []Candidate{
		{Prefix: prefix, Lists: []string{"goog-malware-shavar"}},
	}, now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, result2[prefix], 1)
	require.Equal(t, 1, requests)
}

func TestResolveHonorsConfiguredCacheTimeOverServer(t *testing.T) {
	var prefix urlhash.Prefix
	copy(prefix[:], []byte{0x01, 0x02, 0x03, 0x04})

	var hash [32]byte
	copy(hash[:], prefix[:])

	r, st, _, clk := newResolver(t, Config{CacheTime: 2700 * time.Second}, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(gethashResponse(900, "goog-malware-shavar", hash)))
	})

	now := clk.Now()

	_, err := r.Resolve(context.Background(), []Candidate{
		{Prefix: prefix, Lists: []string{"goog-malware-shavar"}},
	}, now)
	require.NoError(t, err)

	cached, err := st.GetFullHashes(context.Background(), prefix.Hex(), "goog-malware-shavar", now)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.WithinDuration(t, now.Add(2700*time.Second), cached[0].ValidUntil, time.Second)
}

func TestResolveSuppressesPrefixAfterRepeatedFailures(t *testing.T) {
	var prefix urlhash.Prefix
	copy(prefix[:], []byte{0xaa, 0xbb, 0xcc, 0xdd})

	requests := 0

	r, _, db, clk := newResolver(t, Config{}, func(w http.ResponseWriter, req *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})

	now := clk.Now()
	ctx := context.Background()

	// First failure: errors becomes 1, gated for errorWindow.
	_, err := r.Resolve(ctx, []Candidate{{Prefix: prefix, Lists: []string{"l"}}}, now)
	require.NoError(t, err)
	require.Equal(t, 1, requests)

	state, found, err := db.PrefixErrorState(ctx, prefix.Hex())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, state.Errors)

	// Immediately retrying inside the 5-minute window is suppressed:
	// no second HTTP call is made.
	_, err = r.Resolve(ctx, []Candidate{{Prefix: prefix, Lists: []string{"l"}}}, now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, requests)

	// Past the window, errors==1 is retried and, on failure again,
	// escalates to errors==2 which the table marks unconditionally
	// retryable.
	_, err = r.Resolve(ctx, []Candidate{{Prefix: prefix, Lists: []string{"l"}}}, now.Add(10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, requests)
}
