package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depviz/pkg/errors"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoaderTestMode(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.txt", []byte("A: B\nB:\n"))
	l := NewLoader(newTestFetcher(t), APKOptions{})

	idx, err := l.Load(context.Background(), ModeTest, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, idx.Lookup("A"))

	idx, err = l.Load(context.Background(), ModeTest, "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestLoaderTestModeMissingFile(t *testing.T) {
	l := NewLoader(newTestFetcher(t), APKOptions{})
	_, err := l.Load(context.Background(), ModeTest, filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)
}

func TestLoaderOfflinePlainAndArchive(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, APKIndexEntry, []byte(sampleAPKIndex))
	archiveDir := t.TempDir()
	writeFile(t, archiveDir, "APKINDEX.tar.gz", apkArchive(t, sampleAPKIndex))

	l := NewLoader(newTestFetcher(t), APKOptions{ResolveProvides: true})
	ctx := context.Background()

	for _, repo := range []string{plain, archiveDir} {
		idx, err := l.Load(ctx, ModeOffline, repo)
		require.NoError(t, err, repo)
		assert.Equal(t, []string{"musl"}, idx.Lookup("busybox"), repo)
	}
}

func TestLoaderOfflineEmptyDirectory(t *testing.T) {
	l := NewLoader(newTestFetcher(t), APKOptions{})
	_, err := l.Load(context.Background(), ModeOffline, t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)
}

func TestLoaderOnline(t *testing.T) {
	archive := apkArchive(t, sampleAPKIndex)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/alpine/main/x86_64/APKINDEX.tar.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	l := NewLoader(newTestFetcher(t), APKOptions{ResolveProvides: true})
	ctx := context.Background()

	idx, err := l.Load(ctx, ModeOnline, srv.URL+"/alpine/main/x86_64/")
	require.NoError(t, err)
	assert.Equal(t, []string{"ca-certificates-bundle", "musl", "zlib"}, idx.Lookup("libcurl"))

	again, err := l.Load(ctx, ModeOnline, srv.URL+"/alpine/main/x86_64/")
	require.NoError(t, err)
	assert.Same(t, idx, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoaderOnlineNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l := NewLoader(newTestFetcher(t), APKOptions{})
	_, err := l.Load(context.Background(), ModeOnline, srv.URL+"/missing/")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "err = %v", err)
}

func TestLoaderOnlineFallsBackToLocal(t *testing.T) {
	path := writeFile(t, t.TempDir(), APKIndexEntry, []byte(sampleAPKIndex))
	l := NewLoader(newTestFetcher(t), APKOptions{})

	idx, err := l.Load(context.Background(), ModeOnline, "file://"+path)
	require.NoError(t, err)
	assert.True(t, idx.Has("curl"))
}

func TestLoaderUnknownMode(t *testing.T) {
	l := NewLoader(nil, APKOptions{})
	_, err := l.Load(context.Background(), "remote", "x")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMode), "err = %v", err)
}

func TestLoaderMemoIsBypassedOnRefresh(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "repo.txt", []byte("A: B\n"))
	f := newTestFetcher(t)
	l := NewLoader(f, APKOptions{})
	ctx := context.Background()

	first, err := l.Load(ctx, ModeTest, path)
	require.NoError(t, err)

	writeFile(t, dir, "repo.txt", []byte("A: C\n"))
	cached, err := l.Load(ctx, ModeTest, path)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	f.Refresh = true
	fresh, err := l.Load(ctx, ModeTest, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, fresh.Lookup("A"))
}
