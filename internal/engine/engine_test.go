package engine

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listguard/urlguard/internal/chunkproto"
	"github.com/listguard/urlguard/internal/clock"
	"github.com/listguard/urlguard/internal/scratch"
	"github.com/listguard/urlguard/internal/store"
)

func encodeVarint(v uint64) []byte {
	var b []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7

		if v != 0 {
			b = append(b, c|0x80)
		} else {
			return append(b, c)
		}
	}
}

func tagBytes(field, wireType int) []byte {
	return encodeVarint(uint64(field<<3 | wireType))
}

// buildAddChunkRecord constructs ChunkData bytes for an ADD chunk
// carrying one prefix (field 1 = chunkNumber varint, field 4 = hashes
// bytes), scenario S3 of spec section 8.
func buildAddChunkRecord(chunkNumber int32, prefix []byte) []byte {
	var b []byte
	b = append(b, tagBytes(1, 0)...)
	b = append(b, encodeVarint(uint64(chunkNumber))...)
	b = append(b, tagBytes(4, 2)...)
	b = append(b, encodeVarint(uint64(len(prefix)))...)
	b = append(b, prefix...)

	return b
}

func wrapRecord(cd []byte) []byte {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(cd)))

	return append(lenBuf, cd...)
}

func newTestDB(t *testing.T) *scratch.DB {
	t.Helper()

	db, err := scratch.Open(scratch.Config{Path: ":memory:", PoolSize: 1})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return db
}

func TestUpdateAppliesAddChunkFromRedirect(t *testing.T) {
	prefix, _ := hex.DecodeString("deadbeef")
	payload := wrapRecord(buildAddChunkRecord(17, prefix))

	var redirectHost string

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/downloads":
			_, _ = w.Write([]byte("n:1200\ni:goog-malware-shavar\nu:" + redirectHost + "/chunks\n"))
		case "/chunks":
			_, _ = w.Write(payload)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	redirectHost = strings.TrimPrefix(srv.URL, "https://")

	st := store.NewMemory()
	db := newTestDB(t)
	clk := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	e := New(Config{
		Server:     srv.URL + "/",
		APIKey:     "thekey",
		HTTPClient: srv.Client(),
	}, st, db, clk)

	results := e.Update(context.Background(), []string{"goog-malware-shavar"}, false)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Applied)
	require.Equal(t, 1200*time.Second, results[0].Wait)

	adds, err := st.GetAdd(context.Background(), "deadbeef", nil)
	require.NoError(t, err)
	require.Len(t, adds, 1)
	require.Equal(t, int32(17), adds[0].ChunkNumber)

	state, found, err := db.ListState(context.Background(), "goog-malware-shavar")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 0, state.Errors)
}

func TestUpdateSkipsListNotYetDue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	st := store.NewMemory()
	db := newTestDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.Fake(now)

	require.NoError(t, db.SetListState(context.Background(), "goog-malware-shavar", scratch.ListState{
		Time: now, Wait: time.Hour, Errors: 0,
	}))

	e := New(Config{Server: srv.URL + "/", APIKey: "k"}, st, db, clk)

	results := e.Update(context.Background(), []string{"goog-malware-shavar"}, false)
	require.Len(t, results, 1)
	require.False(t, results[0].Applied)
	require.True(t, results[0].Wait > 0)
}

func TestUpdateBacksOffOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	st := store.NewMemory()
	db := newTestDB(t)
	clk := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	e := New(Config{Server: srv.URL + "/", APIKey: "k"}, st, db, clk)

	results := e.Update(context.Background(), []string{"goog-malware-shavar"}, false)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	require.Equal(t, 60*time.Second, results[0].Wait)

	state, found, err := db.ListState(context.Background(), "goog-malware-shavar")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, state.Errors)
}

func TestUpdatePleaseResetWipesListAndShortensWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("i:goog-malware-shavar\nr:pleasereset\n"))
	}))
	defer srv.Close()

	st := store.NewMemory()
	require.NoError(t, st.AddBulkAdd(context.Background(), []chunkproto.AddChunk{
		{List: "goog-malware-shavar", ChunkNumber: 5, Prefix: []byte{0xde, 0xad, 0xbe, 0xef}},
	}))

	db := newTestDB(t)
	clk := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	e := New(Config{Server: srv.URL + "/", APIKey: "k"}, st, db, clk)

	results := e.Update(context.Background(), []string{"goog-malware-shavar"}, false)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, 10*time.Second, results[0].Wait)

	adds, err := st.GetAdd(context.Background(), "deadbeef", nil)
	require.NoError(t, err)
	require.Empty(t, adds)
}
