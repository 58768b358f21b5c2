package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostUpdateSendsQueryParamsAndReturnsBody(t *testing.T) {
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/downloads", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "goog-malware-shavar;\n", string(body))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("n:1200\n"))
	}))
	defer srv.Close()

	c := New(Config{Server: srv.URL + "/", APIKey: "thekey", AppVer: "1.0", PVer: "3.0"})

	rc, err := c.PostUpdate(context.Background(), []byte("goog-malware-shavar;\n"))
	require.NoError(t, err)

	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "n:1200\n", string(body))

	require.Contains(t, gotQuery, "client=api")
	require.Contains(t, gotQuery, "key=thekey")
	require.Contains(t, gotQuery, "appver=1.0")
	require.Contains(t, gotQuery, "pver=3.0")
}

func TestPostUpdateRejectsOversizedBody(t *testing.T) {
	c := New(Config{Server: "https://example.invalid/"})

	_, err := c.PostUpdate(context.Background(), bytes.Repeat([]byte("a"), MaxUpdateRequestBytes+1))
	require.ErrorIs(t, err, ErrRequestTooLarge)
}

func TestDoReturnsErrNot200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{Server: srv.URL + "/"})

	_, err := c.PostFullHash(context.Background(), []byte("4:4\ndead"))
	require.ErrorIs(t, err, ErrNot200)
}
