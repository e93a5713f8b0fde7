package repo

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// ParseFixture reads a test repository: one package per line in the form
//
//	package: dep1 dep2 ...
//
// Blank lines and lines starting with '#' are ignored. A package with
// nothing after the colon has no dependencies. Dependency order and
// duplicates are kept as written.
//
// A line without a colon, with an empty package name, or naming a package
// defined earlier is reported as ErrCodeInvalidManifest with its line number.
func ParseFixture(r io.Reader) (*Index, error) {
	idx := NewIndex()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		name, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "line %d: expected \"package: deps\", got %q", line, text)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "line %d: empty package name", line)
		}
		if !idx.Add(name, strings.Fields(rest)) {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "line %d: package %q defined twice", line, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read fixture")
	}
	return idx, nil
}
