package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
)

// ErrMalformedMessage is returned by Next for frames that are not a valid envelope
var ErrMalformedMessage = errors.New("malformed message")

// ClientConfig tunes a single connection
type ClientConfig struct {
	SendQueueSize  int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = constants.DefaultSendQueueSize
	}
	if c.WriteWait <= 0 {
		c.WriteWait = constants.DefaultWriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = constants.DefaultPongWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = constants.MaxMessageSize
	}
	return c
}

type outbound struct {
	event   string
	payload []byte
}

// Client is one server-side websocket connection. Outbound messages go
// through a bounded queue drained by a single writer goroutine, so Send
// never blocks on the network.
type Client struct {
	id   string
	conn *websocket.Conn
	cfg  ClientConfig

	send       chan outbound
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once
	dropped    atomic.Uint64
}

// NewClient wraps an upgraded connection and starts its writer goroutine
func NewClient(conn *websocket.Conn, cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		id:         uuid.NewString(),
		conn:       conn,
		cfg:        cfg,
		send:       make(chan outbound, cfg.SendQueueSize),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}

	conn.SetReadLimit(cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	go c.writePump()
	return c
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// Dropped returns how many outbound messages were discarded on a full queue
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// Send marshals an event and queues it without blocking. It returns false when
// the message was dropped because the queue is full or the client is closed.
func (c *Client) Send(event string, data interface{}) bool {
	rawData, err := json.Marshal(data)
	if err != nil {
		logger.Error("Error marshaling message data",
			logger.ConnID(c.id),
			logger.String("event", event),
			logger.Err(err))
		return false
	}

	payload, err := json.Marshal(models.WSMessage{Event: event, Data: rawData})
	if err != nil {
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- outbound{event: event, payload: payload}:
		return true
	default:
		c.dropped.Add(1)
		metrics.DroppedEvents.WithLabelValues(event).Inc()
		logger.Debug("Send queue full, dropping event",
			logger.ConnID(c.id),
			logger.String("event", event))
		return false
	}
}

// Next blocks for the next inbound envelope. Errors other than
// ErrMalformedMessage mean the connection is gone.
func (c *Client) Next() (models.WSMessage, error) {
	var msg models.WSMessage

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return msg, err
	}

	if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
		return models.WSMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

// Close stops the writer after it flushes what is already queued, then closes the socket.
// It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		select {
		case <-c.writerDone:
		case <-time.After(c.cfg.WriteWait):
		}
		_ = c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		close(c.writerDone)
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg.payload); err != nil {
				logger.Debug("Websocket write failed",
					logger.ConnID(c.id),
					logger.String("event", msg.event),
					logger.Err(err))
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.flush()
			_ = c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) flush() {
	for {
		select {
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg.payload); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	return c.conn.WriteMessage(messageType, data)
}
