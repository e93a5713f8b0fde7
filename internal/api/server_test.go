package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	depio "github.com/matzehuels/depviz/pkg/io"
	"github.com/matzehuels/depviz/pkg/repo"
)

const fixture = `A: B C
B: D
C: D E
D:
E: B
X: Y
Y: X
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	idx, err := repo.ParseFixture(strings.NewReader(fixture))
	require.NoError(t, err)
	srv := httptest.NewServer(New(idx, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","packages":7}`, body)
}

func TestList(t *testing.T) {
	srv := newTestServer(t)
	_, body := get(t, srv, "/packages?q=X")
	assert.JSONEq(t, `{"packages":["X"]}`, body)
}

func TestForward(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/packages/A")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc depio.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "A", doc.Root)
	assert.Equal(t, depio.DirectionForward, doc.Direction)
	require.NotNil(t, doc.Cycle)
	assert.False(t, *doc.Cycle)

	var ids []string
	for _, n := range doc.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"A", "B", "D", "C", "E"}, ids)
}

func TestForwardCycle(t *testing.T) {
	srv := newTestServer(t)
	_, body := get(t, srv, "/packages/X")

	var doc depio.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.NotNil(t, doc.Cycle)
	assert.True(t, *doc.Cycle)
}

func TestReverse(t *testing.T) {
	srv := newTestServer(t)
	_, body := get(t, srv, "/packages/D/reverse")

	var doc depio.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, depio.DirectionReverse, doc.Direction)
	assert.Nil(t, doc.Cycle)
	require.NotEmpty(t, doc.Nodes)
	assert.Equal(t, depio.Node{ID: "D", Deps: []string{"B", "C"}}, doc.Nodes[0])
}

func TestTree(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/packages/X/tree")

	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "X\n└── Y\n    └── X [cycle]\n", body)
}

func TestDOT(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/packages/D/dot?reverse=yes")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body, "digraph dependencies {"))
	assert.Contains(t, body, `"B" -> "D";`)
}

func TestCycles(t *testing.T) {
	srv := newTestServer(t)
	_, body := get(t, srv, "/packages/X/cycles")
	assert.JSONEq(t, `{"root":"X","cycles":[["X","Y"]]}`, body)

	_, body = get(t, srv, "/packages/A/cycles")
	assert.JSONEq(t, `{"root":"A","cycles":[]}`, body)
}

func TestUnknownPackage(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/packages/nope")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"package \"nope\" not found in repository","code":"PACKAGE_NOT_FOUND"}`, body)
}

func TestInvalidPackageName(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/packages/7zip")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"code": "INVALID_PACKAGE"`)
}

func TestBadBoolean(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := get(t, srv, "/packages/A/tree?reverse=perhaps")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/graphs")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"code": "NOT_FOUND"`)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv, "/healthz")
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "trace-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-123", resp.Header.Get(RequestIDHeader))
}

func TestUnresolvedLeafIsServed(t *testing.T) {
	idx, err := repo.ParseFixture(strings.NewReader("app: musl\n"))
	require.NoError(t, err)
	srv := httptest.NewServer(New(idx, log.New(io.Discard)).Handler())
	defer srv.Close()

	resp, body := get(t, srv, "/packages/musl/reverse")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"app"`)
}
