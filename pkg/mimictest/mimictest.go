// Package mimictest starts mimic servers for tests.
package mimictest

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/getmockd/mimic/pkg/config"
	"github.com/getmockd/mimic/pkg/server"
)

// LocalListen is the listen address used for test servers.
const LocalListen = "127.0.0.1:0"

// StartTestServer starts a server on a free loopback port and stops it when
// the test finishes. A nil cfg serves the default configuration. The listen
// address of cfg is always replaced.
func StartTestServer(t testing.TB, cfg *config.ServerConfiguration, opts ...server.Option) *server.Server {
	t.Helper()

	srv, stop, err := StartServer(context.Background(), cfg, opts...)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.EPERM) {
			t.Skipf("skipping server tests: %v", err)
		}
		t.Fatalf("start mimic server: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := stop(ctx); err != nil {
			t.Errorf("shutdown mimic server: %v", err)
		}
	})
	return srv
}

// StartServer starts a server on a free loopback port and waits until it is
// ready. The caller must invoke the returned stop function.
func StartServer(ctx context.Context, cfg *config.ServerConfiguration, opts ...server.Option) (*server.Server, func(context.Context) error, error) {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	} else {
		clone := *cfg
		cfg = &clone
	}
	cfg.Listen = LocalListen
	cfg.BaseURL = ""

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := srv.Start(); err != nil {
		return nil, nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := srv.WaitReady(readyCtx); err != nil {
		_ = srv.Shutdown(ctx)
		return nil, nil, err
	}
	return srv, srv.Shutdown, nil
}
