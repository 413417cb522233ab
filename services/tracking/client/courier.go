package client

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	wspkg "github.com/piresc/ordertrack/internal/pkg/websocket"
)

const defaultReportInterval = 2 * time.Second

// PositionSource yields the courier's current position. Returning io.EOF
// ends the session cleanly.
type PositionSource interface {
	Next(ctx context.Context) (models.Position, error)
}

// PositionSourceFunc adapts a function to PositionSource
type PositionSourceFunc func(ctx context.Context) (models.Position, error)

// Next implements PositionSource
func (f PositionSourceFunc) Next(ctx context.Context) (models.Position, error) {
	return f(ctx)
}

// CourierSession reports positions for one order on a fixed interval
type CourierSession struct {
	session  *session
	source   PositionSource
	interval time.Duration
	now      func() time.Time
}

// NewCourierSession creates a courier session; interval <= 0 uses the default
func NewCourierSession(cfg Config, source PositionSource, interval time.Duration) *CourierSession {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	return &CourierSession{
		session:  newSession(cfg, models.RoleCourier),
		source:   source,
		interval: interval,
		now:      time.Now,
	}
}

// Run joins as courier and reports until ctx ends, the source is exhausted
// or the relay ends the session.
func (c *CourierSession) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		sourceErr error
		wg        sync.WaitGroup
	)

	err := c.session.run(ctx, callbacks{
		onJoined: func(connCtx context.Context, conn *wspkg.Client, _ models.JoinedMessage) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.report(connCtx, conn); err != nil {
					mu.Lock()
					sourceErr = err
					mu.Unlock()
					cancel()
				}
			}()
		},
	})

	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	if sourceErr != nil {
		if errors.Is(sourceErr, io.EOF) {
			return nil
		}
		return sourceErr
	}
	return err
}

// report sends the first fix immediately, then one per tick
func (c *CourierSession) report(ctx context.Context, conn *wspkg.Client) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		pos, err := c.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		ts := c.now().UTC()
		if !conn.Send(constants.EventPositionReport, models.PositionReport{
			Lat:       pos.Lat,
			Lng:       pos.Lng,
			Timestamp: &ts,
		}) {
			logger.Debug("Position report dropped", logger.String("role", string(models.RoleCourier)))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
