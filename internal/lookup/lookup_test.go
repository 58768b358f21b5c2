package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listguard/urlguard/internal/chunkproto"
	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/hashcache"
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

const testURL = "http://evil.example.com/phish"

func newPipeline(t *testing.T) (*Pipeline, store.Store, *clock.FakeClock) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected network call to %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemory()
	db := newTestDB(t)
	clk := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	hc := httpclient.New(httpclient.Config{Server: srv.URL + "/", APIKey: "k", HTTPClient: srv.Client()})
	resolver := hashcache.New(hashcache.Config{}, hc, st, db, clk)

	return New(st, resolver, clk), st, clk
}

func TestLookupMatchesCachedFullHash(t *testing.T) {
	p, st, clk := newPipeline(t)
	ctx := context.Background()

	hashes, err := urlhash.FullHashes(testURL)
	require.NoError(t, err)
	require.NotEmpty(t, hashes)

	h := hashes[0]
	prefix := urlhash.PrefixOf(h)

	require.NoError(t, st.AddBulkAdd(ctx, []chunkproto.AddChunk{
		{List: "goog-malware-shavar", ChunkNumber: 17, Prefix: prefix[:]},
	}))
	require.NoError(t, st.AddFullHashes(ctx, []chunkproto.FullHash{
		{List: "goog-malware-shavar", Prefix: prefix, Hash: h, ValidUntil: clk.Now().Add(time.Hour)},
	}))

	matches, err := p.Lookup(ctx, []string{"goog-malware-shavar"}, testURL)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "goog-malware-shavar", matches[0].List)
	require.Equal(t, h, matches[0].Hash)
}

func TestLookupSubCancelsAdd(t *testing.T) {
	p, st, _ := newPipeline(t)
	ctx := context.Background()

	hashes, err := urlhash.FullHashes(testURL)
	require.NoError(t, err)

	h := hashes[0]
	prefix := urlhash.PrefixOf(h)

	require.NoError(t, st.AddBulkAdd(ctx, []chunkproto.AddChunk{
		{List: "goog-malware-shavar", ChunkNumber: 17, Prefix: prefix[:]},
	}))
	require.NoError(t, st.AddBulkSub(ctx, []chunkproto.SubChunk{
		{List: "goog-malware-shavar", ChunkNumber: 9, AddNumber: 17, Prefix: prefix[:]},
	}))
	require.NoError(t, st.AddFullHashes(ctx, []chunkproto.FullHash{
		{List: "goog-malware-shavar", Prefix: prefix, Hash: h, ValidUntil: time.Now().Add(time.Hour)},
	}))

	matches, err := p.Lookup(ctx, []string{"goog-malware-shavar"}, testURL)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestLookupNoCandidatesIsEmptyWithoutNetworkCall(t *testing.T) {
	p, _, _ := newPipeline(t)

	matches, err := p.Lookup(context.Background(), []string{"goog-malware-shavar"}, "http://totally-benign.example/")
	require.NoError(t, err)
	require.Empty(t, matches)
}
