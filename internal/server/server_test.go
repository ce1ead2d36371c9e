// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/health"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestServer_StartServeShutdown(t *testing.T) {
	port := freePort(t)
	hh := health.NewHandler()

	srv := New(Config{
		ServerConfig: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         port,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		HealthHandler: hh,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	hh.RegisterRoutes(srv.Router())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx, 10*time.Millisecond))

	assert.NoError(t, <-errCh)

	_, err := http.Get(url) //nolint:noctx // test
	assert.Error(t, err)
}

type flag struct{ set bool }

func (f *flag) SetShutdown(v bool) { f.set = v }

func TestShutdown_FlipsHealthBeforeStopping(t *testing.T) {
	f := &flag{}
	srv := New(Config{
		ServerConfig:  config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)},
		HealthHandler: f,
	})

	require.NoError(t, srv.Shutdown(context.Background(), 0))
	assert.True(t, f.set)
}
