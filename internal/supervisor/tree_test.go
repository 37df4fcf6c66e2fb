// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/supervisor/services"
)

// stubService fails its first failures runs, then blocks until canceled.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func (s *stubService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

func newTestTree(t *testing.T, cfg TreeConfig) *SupervisorTree {
	t.Helper()
	tree, err := NewSupervisorTree(logging.NewSlogLogger(zerolog.Nop()), cfg)
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	return tree
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()
	tree := newTestTree(t, TreeConfig{})

	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()
	tree := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})

	data := &stubService{name: "data"}
	background := &stubService{name: "background"}
	api := &stubService{name: "api"}
	tree.AddDataService(data)
	tree.AddBackgroundService(background)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, s := range []*stubService{data, background, api} {
		if s.starts.Load() < 1 {
			t.Errorf("%s service was not started", s.name)
		}
	}
}

func TestSupervisorTree_RestartsFailingBackgroundService(t *testing.T) {
	t.Parallel()
	tree := newTestTree(t, TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := &stubService{name: "flaky", failures: 2}
	api := &stubService{name: "api"}
	tree.AddBackgroundService(flaky)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	<-tree.ServeBackground(ctx)

	if flaky.starts.Load() < 3 {
		t.Errorf("flaky starts = %d, want at least 3", flaky.starts.Load())
	}
	if api.starts.Load() != 1 {
		t.Errorf("api starts = %d, want 1; background failures must not restart the api layer", api.starts.Load())
	}
}

func TestSupervisorTree_RemoveBackgroundService(t *testing.T) {
	t.Parallel()
	tree := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})

	var swept atomic.Int32
	janitor := services.NewPeriodicService("janitor", func(context.Context) error {
		swept.Add(1)
		return nil
	}, services.PeriodicConfig{Interval: 5 * time.Millisecond}, zerolog.Nop())
	token := tree.AddBackgroundService(janitor)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	time.Sleep(50 * time.Millisecond)
	if err := tree.RemoveBackgroundService(token); err != nil {
		t.Fatalf("RemoveBackgroundService() error = %v", err)
	}
	<-errCh

	if swept.Load() == 0 {
		t.Error("periodic service never ran")
	}
}
