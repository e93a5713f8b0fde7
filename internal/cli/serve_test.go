package cli

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depviz/internal/api"
	"github.com/matzehuels/depviz/pkg/repo"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	idx, err := repo.ParseFixture(strings.NewReader(cyclicFixture))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, api.New(idx, nil).Handler()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/packages/X/tree")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "[cycle]")

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
