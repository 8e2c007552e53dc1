package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fetch")
	defer teardown()
	//
	payload := []byte("\x00\x01\x00\x00font data")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ofl/notosanskr/NotoSansKR%5Bwght%5D.ttf", r.URL.EscapedPath())
		w.Write(payload)
	}))
	defer srv.Close()
	dest := filepath.Join(t.TempDir(), "NotoSansKR-Variable.ttf")
	n, err := Download(context.Background(), srv.Client(), srv.URL+"/ofl/notosanskr/NotoSansKR%5Bwght%5D.ttf", dest)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	dir := t.TempDir()
	dest := filepath.Join(dir, "font.ttf")
	_, err := Download(context.Background(), nil, srv.URL+"/missing.ttf", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "no file is created on failure")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file is removed")
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Download(ctx, srv.Client(), srv.URL, filepath.Join(t.TempDir(), "font.ttf"))
	assert.Error(t, err)
}
