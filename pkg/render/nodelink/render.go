package nodelink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depviz/pkg/cache"
	deperrors "github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

var (
	// ErrRendererUnavailable means the rendering backend is not installed.
	ErrRendererUnavailable = errors.New("renderer unavailable")

	// ErrRenderFailed means the backend ran but did not produce an image.
	ErrRenderFailed = errors.New("render failed")

	// ErrUnsupportedFormat means the backend cannot produce the requested format.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Renderer turns a DOT file into an image. The image format follows the
// extension of outPath.
type Renderer interface {
	Name() string
	Render(ctx context.Context, dotPath, outPath string) error
}

// Backend names accepted by [NewRenderer].
const (
	BackendExec     = "exec"
	BackendGraphviz = "graphviz"
	BackendNone     = "none"
)

// NewRenderer returns the backend called name. "none" yields a nil
// Renderer, meaning only the DOT file is written. dotBinary overrides the
// executable used by the exec backend.
func NewRenderer(name, dotBinary string) (Renderer, error) {
	switch name {
	case BackendExec, "":
		return ExecRenderer{Binary: dotBinary}, nil
	case BackendGraphviz:
		return GraphvizRenderer{}, nil
	case BackendNone:
		return nil, nil
	}
	return nil, deperrors.New(deperrors.ErrCodeInvalidInput,
		"unknown renderer %q (want %s, %s or %s)", name, BackendExec, BackendGraphviz, BackendNone)
}

// ExecRenderer runs the Graphviz dot command as a subprocess.
type ExecRenderer struct {
	// Binary is the executable name or path. Defaults to "dot".
	Binary string
}

// Name returns "exec".
func (ExecRenderer) Name() string { return BackendExec }

// Render runs `dot -T<format> dotPath -o outPath`.
func (r ExecRenderer) Render(ctx context.Context, dotPath, outPath string) error {
	bin := r.Binary
	if bin == "" {
		bin = "dot"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%w: %s not found (install Graphviz)", ErrRendererUnavailable, bin)
	}

	cmd := exec.CommandContext(ctx, path, "-T"+Format(outPath), dotPath, "-o", outPath)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			return fmt.Errorf("%w: %s: %v", ErrRenderFailed, bin, err)
		}
		return fmt.Errorf("%w: %s: %v: %s", ErrRenderFailed, bin, err, msg)
	}
	return nil
}

// GraphvizRenderer renders in-process with go-graphviz. It supports svg,
// png and jpg; pdf needs the dot executable.
type GraphvizRenderer struct{}

// Name returns "graphviz".
func (GraphvizRenderer) Name() string { return BackendGraphviz }

var graphvizFormats = map[string]graphviz.Format{
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

// Render parses dotPath and writes the image to outPath.
func (GraphvizRenderer) Render(ctx context.Context, dotPath, outPath string) error {
	format, ok := graphvizFormats[Format(outPath)]
	if !ok {
		return fmt.Errorf("%w: %q with the graphviz backend", ErrUnsupportedFormat, Format(outPath))
	}

	src, err := os.ReadFile(dotPath)
	if err != nil {
		return fmt.Errorf("read DOT: %w", err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("%w: init graphviz: %v", ErrRendererUnavailable, err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(src)
	if err != nil {
		return fmt.Errorf("%w: parse DOT: %v", ErrRenderFailed, err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	data := buf.Bytes()
	if format == graphviz.SVG {
		data = normalizeViewBox(data)
	}
	return os.WriteFile(outPath, data, 0o644)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Format returns the image format named by the extension of path, without
// the dot.
func Format(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// DOTPath returns the side file that holds the diagram text for an image
// written to outPath: the same path with its extension replaced by ".dot".
func DOTPath(outPath string) string {
	return strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".dot"
}

// Digest returns 16 hex characters of the xxhash64 of the DOT text. Since
// [ToDOT] is deterministic the digest identifies a graph's diagram.
func Digest(dot string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(dot))
}

// Writer writes the DOT side file and, when a Renderer is set, the image.
type Writer struct {
	Renderer Renderer
	Cache    cache.Cache
	Keyer    cache.Keyer
	TTL      time.Duration
}

// Output describes what [Writer.Write] produced.
type Output struct {
	DOTPath   string
	ImagePath string
	Cached    bool
	Duration  time.Duration

	// RenderErr holds a rendering failure. It is not returned as an error:
	// the DOT file is still valid and the run goes on.
	RenderErr error
}

// Write stores dot next to outPath and renders the image. Only failure to
// write the DOT file is returned as an error. Rendering problems end up in
// Output.RenderErr.
//
// When a Cache is configured, rendered bytes are stored under a key derived
// from the DOT digest, format and backend, and reused on the next run with
// identical input.
func (w *Writer) Write(ctx context.Context, dot, outPath string) (*Output, error) {
	out := &Output{DOTPath: DOTPath(outPath)}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, deperrors.Wrap(deperrors.ErrCodeInvalidPath, err, "create output directory")
		}
	}
	if err := os.WriteFile(out.DOTPath, []byte(dot), 0o644); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInvalidPath, err, "write %s", out.DOTPath)
	}
	if w.Renderer == nil {
		return out, nil
	}

	format := Format(outPath)
	key := ""
	if w.Cache != nil {
		keyer := w.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		key = keyer.RenderKey(Digest(dot), format, w.Renderer.Name())
		if data, ok, err := w.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "render")
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return nil, deperrors.Wrap(deperrors.ErrCodeInvalidPath, err, "write %s", outPath)
			}
			out.ImagePath = outPath
			out.Cached = true
			return out, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	err := w.Renderer.Render(ctx, out.DOTPath, outPath)
	out.Duration = time.Since(start)
	observability.Analysis().OnRenderComplete(ctx, w.Renderer.Name(), format, out.Duration, err)
	if err != nil {
		out.RenderErr = deperrors.Wrap(deperrors.ErrCodeRenderUnavailable, err, "render %s", outPath)
		return out, nil
	}
	out.ImagePath = outPath

	if key != "" {
		if data, err := os.ReadFile(outPath); err == nil {
			if err := w.Cache.Set(ctx, key, data, w.TTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "render", len(data))
			}
		}
	}
	return out, nil
}
