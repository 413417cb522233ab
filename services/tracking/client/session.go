// Package client connects couriers and customers to the tracking relay.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/pkg/retry"
	wspkg "github.com/piresc/ordertrack/internal/pkg/websocket"
)

var (
	// ErrJoinDenied is terminal; the wrapped message carries the server's reason
	ErrJoinDenied = errors.New("join denied")
	// ErrEvicted means a newer connection took over this role
	ErrEvicted = errors.New("evicted by newer connection")
	// ErrChannelClosed means the order reached a terminal state
	ErrChannelClosed = errors.New("channel closed")
)

// Status is reported through Config.OnStatus
type Status string

const (
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
	StatusStale        Status = "stale"
)

const defaultJoinTimeout = 10 * time.Second

// Config is shared by courier and customer sessions
type Config struct {
	// URL is the websocket endpoint, e.g. ws://host:8080/ws/tracking
	URL        string
	Credential string
	OrderID    string

	JoinTimeout time.Duration
	Retry       retry.Config
	Dialer      *websocket.Dialer
	OnStatus    func(Status)
}

// JoinDenied extracts the server reason from an ErrJoinDenied error
func JoinDenied(err error) (string, bool) {
	var denied *joinDeniedError
	if errors.As(err, &denied) {
		return denied.reason, true
	}
	return "", false
}

type joinDeniedError struct {
	reason string
}

func (e *joinDeniedError) Error() string { return fmt.Sprintf("%s: %s", ErrJoinDenied, e.reason) }

func (e *joinDeniedError) Unwrap() error { return ErrJoinDenied }

// terminal errors end the session instead of reconnecting
func terminal(err error) bool {
	return errors.Is(err, ErrJoinDenied) || errors.Is(err, ErrEvicted) || errors.Is(err, ErrChannelClosed)
}

// callbacks plug role specific behavior into a session
type callbacks struct {
	// onJoined runs after each successful join; connCtx ends with the connection
	onJoined func(connCtx context.Context, conn *wspkg.Client, joined models.JoinedMessage)
	// onMessage handles every frame after the join ack
	onMessage func(msg models.WSMessage)
}

type session struct {
	cfg  Config
	role models.Role
}

func newSession(cfg Config, role models.Role) *session {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = defaultJoinTimeout
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.BaseDelay == 0 {
		cfg.Retry = retry.DefaultConfig()
		cfg.Retry.MaxRetries = 5
		cfg.Retry.BaseDelay = 500 * time.Millisecond
		cfg.Retry.MaxDelay = 10 * time.Second
	}
	return &session{cfg: cfg, role: role}
}

func (s *session) status(st Status) {
	if s.cfg.OnStatus != nil {
		s.cfg.OnStatus(st)
	}
}

// run keeps the session joined until ctx ends or a terminal error occurs.
// A cancelled ctx is a clean exit and returns nil.
func (s *session) run(ctx context.Context, cb callbacks) error {
	retryCfg := s.cfg.Retry
	retryCfg.RetryableFunc = func(err error) bool { return !terminal(err) }
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn("Tracking connection failed, retrying",
			logger.OrderID(s.cfg.OrderID),
			logger.String("role", string(s.role)),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err))
		s.status(StatusReconnecting)
	}
	retrier := retry.New(retryCfg)

	for {
		var (
			conn   *wspkg.Client
			joined models.JoinedMessage
		)
		err := retrier.Execute(ctx, func(ctx context.Context) error {
			var err error
			conn, joined, err = s.dialAndJoin(ctx)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !terminal(err) {
				s.status(StatusStale)
			}
			return err
		}

		s.status(StatusConnected)
		err = s.serve(ctx, conn, joined, cb)
		if ctx.Err() != nil {
			return nil
		}
		if terminal(err) {
			return err
		}

		logger.Info("Tracking connection lost, reconnecting",
			logger.OrderID(s.cfg.OrderID),
			logger.String("role", string(s.role)),
			logger.Err(err))
		s.status(StatusReconnecting)
	}
}

func (s *session) dialAndJoin(ctx context.Context) (*wspkg.Client, models.JoinedMessage, error) {
	var joined models.JoinedMessage

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.JoinTimeout)
	defer cancel()

	ws, resp, err := s.cfg.Dialer.DialContext(dialCtx, s.cfg.URL, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, joined, fmt.Errorf("failed to dial %s: %w", s.cfg.URL, err)
	}

	conn := wspkg.NewClient(ws, wspkg.ClientConfig{})
	stop := closeOnDone(dialCtx, conn)
	defer stop()

	conn.Send(constants.EventJoin, models.JoinRequest{
		Credential: s.cfg.Credential,
		OrderID:    s.cfg.OrderID,
		Role:       s.role,
	})

	for {
		msg, err := conn.Next()
		if errors.Is(err, wspkg.ErrMalformedMessage) {
			continue
		}
		if err != nil {
			conn.Close()
			return nil, joined, fmt.Errorf("connection lost before join ack: %w", err)
		}

		switch msg.Event {
		case constants.EventJoined:
			if err := json.Unmarshal(msg.Data, &joined); err != nil {
				conn.Close()
				return nil, joined, fmt.Errorf("failed to decode join ack: %w", err)
			}
			return conn, joined, nil
		case constants.EventJoinDenied:
			var denied models.JoinDeniedMessage
			_ = json.Unmarshal(msg.Data, &denied)
			conn.Close()
			return nil, joined, &joinDeniedError{reason: denied.Reason}
		case constants.EventError:
			var wsErr models.WSErrorMessage
			_ = json.Unmarshal(msg.Data, &wsErr)
			conn.Close()
			if wsErr.Code == constants.ErrorValidationFailed {
				return nil, joined, &joinDeniedError{reason: wsErr.Code}
			}
			return nil, joined, fmt.Errorf("join failed: %s", wsErr.Code)
		}
	}
}

// serve reads frames until the connection drops, ctx ends or the server
// ends the session. Leaving on cancellation is graceful.
func (s *session) serve(ctx context.Context, conn *wspkg.Client, joined models.JoinedMessage, cb callbacks) error {
	connCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-connCtx.Done()
		if ctx.Err() != nil {
			conn.Send(constants.EventLeave, struct{}{})
		}
		conn.Close()
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	if cb.onJoined != nil {
		cb.onJoined(connCtx, conn, joined)
	}

	for {
		msg, err := conn.Next()
		if errors.Is(err, wspkg.ErrMalformedMessage) {
			logger.Debug("Ignoring malformed frame from relay", logger.OrderID(s.cfg.OrderID))
			continue
		}
		if err != nil {
			return err
		}

		switch msg.Event {
		case constants.EventEvicted:
			return ErrEvicted
		case constants.EventChannelClosed:
			var notice models.ChannelNotice
			_ = json.Unmarshal(msg.Data, &notice)
			return fmt.Errorf("%w: %s", ErrChannelClosed, notice.Reason)
		case constants.EventError:
			var wsErr models.WSErrorMessage
			_ = json.Unmarshal(msg.Data, &wsErr)
			logger.Warn("Relay rejected a message",
				logger.OrderID(s.cfg.OrderID),
				logger.String("code", wsErr.Code),
				logger.String("message", wsErr.Message))
			if wsErr.Code == constants.ErrorChannelGone {
				return fmt.Errorf("membership lost: %s", wsErr.Code)
			}
		default:
			if cb.onMessage != nil {
				cb.onMessage(msg)
			}
		}
	}
}

// closeOnDone closes conn if ctx ends before stop is called. stop returns
// once the watcher has exited, so cancelling ctx afterwards is harmless.
func closeOnDone(ctx context.Context, conn *wspkg.Client) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
