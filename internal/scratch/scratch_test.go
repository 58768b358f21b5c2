package scratch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{Path: ":memory:", PoolSize: 1})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return db
}

func TestGetSetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, found, err := db.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, db.Set(ctx, "k", []byte("v1")))

	v, found, err := db.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v1", string(v))

	require.NoError(t, db.Set(ctx, "k", []byte("v2")))

	v, _, err = db.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", string(v))

	require.NoError(t, db.Delete(ctx, "k"))

	_, found, err = db.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestListStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, found, err := db.ListState(ctx, "goog-malware-shavar")
	require.NoError(t, err)
	require.False(t, found)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := ListState{Time: now, Wait: 45 * time.Second, Errors: 0}
	require.NoError(t, db.SetListState(ctx, "goog-malware-shavar", want))

	got, found, err := db.ListState(ctx, "goog-malware-shavar")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, got.Time.Equal(want.Time))
	require.Equal(t, want.Wait, got.Wait)
	require.Equal(t, want.Errors, got.Errors)

	require.NoError(t, db.DeleteListState(ctx, "goog-malware-shavar"))

	_, found, err = db.ListState(ctx, "goog-malware-shavar")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPrefixErrorStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.SetPrefixErrorState(ctx, "deadbeef", PrefixErrorState{Timestamp: t0, Errors: 1}))

	got, found, err := db.PrefixErrorState(ctx, "deadbeef")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, got.Errors)
	require.True(t, got.Timestamp.Equal(t0))

	require.NoError(t, db.SetPrefixErrorState(ctx, "deadbeef", PrefixErrorState{Timestamp: t0, Errors: 2}))

	got, _, err = db.PrefixErrorState(ctx, "deadbeef")
	require.NoError(t, err)
	require.Equal(t, 2, got.Errors)

	require.NoError(t, db.DeletePrefixErrorState(ctx, "deadbeef"))

	_, found, err = db.PrefixErrorState(ctx, "deadbeef")
	require.NoError(t, err)
	require.False(t, found)
}
