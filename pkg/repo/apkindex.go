package repo

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// APKOptions controls how dependency tokens of an APKINDEX are resolved.
type APKOptions struct {
	// ResolveProvides maps dependency tokens that name something a package
	// provides (so:libc.musl-x86_64.so.1, cmd:sh, pc:zlib, virtual names)
	// to the providing package. Tokens nobody provides stay as written and
	// become leaves in the graph.
	ResolveProvides bool
}

type apkRecord struct {
	name     string
	deps     []string
	provides []string
}

// ParseAPKIndex reads the text form of an Alpine APKINDEX. Records are
// separated by blank lines; each line is a one-letter field, a colon and a
// value. P: is the package name, D: its space-separated dependencies and p:
// what it provides. Records without P: are skipped. When a package appears
// more than once the first record wins.
//
// Dependency tokens are normalized: conflicts (a leading '!') are dropped
// and version constraints (from the first '=', '<', '>' or '~') are cut.
// Order and duplicates are otherwise kept.
func ParseAPKIndex(r io.Reader, opts APKOptions) (*Index, error) {
	records, err := scanAPKRecords(r)
	if err != nil {
		return nil, err
	}

	var providers map[string]string
	if opts.ResolveProvides {
		providers = make(map[string]string)
		for _, rec := range records {
			for _, p := range rec.provides {
				if _, ok := providers[p]; !ok {
					providers[p] = rec.name
				}
			}
		}
	}

	names := make(map[string]bool, len(records))
	for _, rec := range records {
		names[rec.name] = true
	}

	idx := NewIndex()
	for _, rec := range records {
		deps := make([]string, 0, len(rec.deps))
		for _, d := range rec.deps {
			if !names[d] {
				if p, ok := providers[d]; ok {
					d = p
				}
			}
			if opts.ResolveProvides && d == rec.name {
				continue
			}
			deps = append(deps, d)
		}
		idx.Add(rec.name, deps)
	}
	return idx, nil
}

func scanAPKRecords(r io.Reader) ([]apkRecord, error) {
	var (
		records []apkRecord
		cur     apkRecord
	)
	flush := func() {
		if cur.name != "" {
			records = append(records, cur)
		}
		cur = apkRecord{}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || len(key) != 1 {
			continue
		}
		switch key {
		case "P":
			cur.name = strings.TrimSpace(value)
		case "D":
			cur.deps = normalizeTokens(value, true)
		case "p":
			cur.provides = normalizeTokens(value, false)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read APKINDEX")
	}
	flush()
	return records, nil
}

func normalizeTokens(value string, dropConflicts bool) []string {
	fields := strings.Fields(value)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "!") {
			if dropConflicts {
				continue
			}
			f = f[1:]
		}
		if i := strings.IndexAny(f, "=<>~"); i >= 0 {
			f = f[:i]
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
