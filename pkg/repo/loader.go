package repo

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

// Repository modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeTest    = "test"
)

// DefaultMemoSize is how many parsed indexes a [Loader] keeps in memory.
const DefaultMemoSize = 8

// Loader turns a (mode, repository) pair into an [Index].
type Loader struct {
	Fetcher *Fetcher
	Options APKOptions
	Logger  *log.Logger

	memo *lru.Cache[string, *Index]
}

// NewLoader creates a Loader that downloads through f and remembers the
// last [DefaultMemoSize] indexes it parsed.
func NewLoader(f *Fetcher, opts APKOptions) *Loader {
	memo, _ := lru.New[string, *Index](DefaultMemoSize)
	if f == nil {
		f = NewFetcher(nil)
	}
	return &Loader{
		Fetcher: f,
		Options: opts,
		Logger:  log.New(io.Discard),
		memo:    memo,
	}
}

// Load reads the repository for mode:
//
//   - test: repo is a fixture file (local path, file:// or http(s) URL)
//   - offline: repo is a local APKINDEX, APKINDEX.tar.gz or a directory
//     holding one of them
//   - online: repo is an http(s) URL of a mirror directory or archive;
//     local locations are read as in offline mode
//
// Results are memoized per mode and location unless the fetcher is in
// refresh mode.
func (l *Loader) Load(ctx context.Context, mode, repo string) (*Index, error) {
	key := mode + "\x00" + repo
	if !l.Fetcher.Refresh {
		if idx, ok := l.memo.Get(key); ok {
			return idx, nil
		}
	}

	start := time.Now()
	idx, err := l.load(ctx, mode, repo)
	observability.Analysis().OnIndexLoaded(ctx, mode, repo, idxLen(idx), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("index loaded", "mode", mode, "repo", repo, "packages", idx.Len(), "took", time.Since(start))
	l.memo.Add(key, idx)
	return idx, nil
}

func (l *Loader) load(ctx context.Context, mode, repo string) (*Index, error) {
	switch mode {
	case ModeTest:
		data, err := l.read(ctx, repo)
		if err != nil {
			return nil, err
		}
		return ParseFixture(bytes.NewReader(data))

	case ModeOffline:
		path, err := localPath(repo)
		if err != nil {
			return nil, err
		}
		path, err = resolveIndexFile(path)
		if err != nil {
			return nil, err
		}
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return l.parseAPK(data)

	case ModeOnline:
		if !isRemote(repo) {
			l.Logger.Debug("repository is local, reading without download", "repo", repo)
			return l.load(ctx, ModeOffline, repo)
		}
		data, err := l.Fetcher.Fetch(ctx, IndexURL(repo))
		if err != nil {
			return nil, err
		}
		return l.parseAPK(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
}

func (l *Loader) parseAPK(data []byte) (*Index, error) {
	if isGzip(data) {
		text, err := ReadArchive(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		data = text
	}
	return ParseAPKIndex(bytes.NewReader(data), l.Options)
}

// read returns the bytes of a local file or a remote document.
func (l *Loader) read(ctx context.Context, repo string) ([]byte, error) {
	if isRemote(repo) {
		return l.Fetcher.Fetch(ctx, repo)
	}
	path, err := localPath(repo)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "repository file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

// resolveIndexFile maps a directory to the index file inside it.
func resolveIndexFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, nil
	}
	for _, name := range []string{"APKINDEX.tar.gz", APKIndexEntry} {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound, "no APKINDEX.tar.gz or APKINDEX in %s", path)
}

func isRemote(repo string) bool {
	u, err := url.Parse(repo)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// localPath accepts a plain path or a file:// URL.
func localPath(repo string) (string, error) {
	u, err := url.Parse(repo)
	if err != nil || u.Scheme == "" {
		return repo, nil
	}
	if u.Scheme == "file" {
		return u.Path, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPath, "expected a local path or file:// URL, got %q", repo)
}

func idxLen(idx *Index) int {
	if idx == nil {
		return 0
	}
	return idx.Len()
}
