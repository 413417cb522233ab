package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.ZapLogger {
	zl, err := logger.NewZapLogger(logger.ZapConfig{Level: "error"}, nil)
	require.NoError(t, err)
	return zl
}

func TestShutdownManager_RunsInReverseOrder(t *testing.T) {
	// Arrange
	sm := NewShutdownManager(testLogger(t))
	var order []string
	sm.Register("nats", func(context.Context) error {
		order = append(order, "nats")
		return nil
	})
	sm.Register("redis", func(context.Context) error {
		order = append(order, "redis")
		return errors.New("already closed")
	})
	sm.Register("registry", func(context.Context) error {
		order = append(order, "registry")
		return nil
	})

	// Act
	err := sm.Shutdown(context.Background())

	// Assert
	assert.EqualError(t, err, "already closed")
	assert.Equal(t, []string{"registry", "redis", "nats"}, order)
}

func TestGracefulServer_RunStopsOnContextCancel(t *testing.T) {
	// Arrange
	zl := testLogger(t)
	sm := NewShutdownManager(zl)
	cleaned := make(chan struct{})
	sm.Register("probe", func(context.Context) error {
		close(cleaned)
		return nil
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	gs := NewGracefulServer(e, zl, 0, sm)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- gs.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup function was not called")
	}
}
