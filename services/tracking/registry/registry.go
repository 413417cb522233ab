// Package registry holds the live order channels of the relay.
//
// Lock order is always Registry.mu then channel.mu. Membership changes
// (join, leave, close) take Registry.mu exclusively; reports and broadcasts
// take it shared, so traffic for different orders runs in parallel while
// traffic within one order is serialized by the channel mutex.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/prometheus/client_golang/prometheus"
)

// Membership describes where a connection currently sits
type Membership struct {
	OrderID string
	Role    models.Role
	UserID  string
}

// JoinResult is returned by Join
type JoinResult struct {
	// Evicted is the connection that previously held the role, if any
	Evicted tracking.Conn
	// LastPosition is the channel's last known courier position, if any
	LastPosition *models.TrackedPosition
}

// ReportResult is returned by Report for a relayed position
type ReportResult struct {
	OrderID   string
	CourierID string
	Position  models.TrackedPosition
	Delivered int
}

// Stats is a point-in-time view of the registry size
type Stats struct {
	Channels    int `json:"channels"`
	Connections int `json:"connections"`
}

type participant struct {
	conn   tracking.Conn
	userID string
}

type channel struct {
	mu       sync.Mutex
	orderID  string
	courier  *participant
	customer *participant
	last     *models.TrackedPosition
	seq      uint64
}

func (ch *channel) slot(role models.Role) **participant {
	if role == models.RoleCourier {
		return &ch.courier
	}
	return &ch.customer
}

func (ch *channel) empty() bool {
	return ch.courier == nil && ch.customer == nil
}

func (ch *channel) participants() []*participant {
	out := make([]*participant, 0, 2)
	if ch.courier != nil {
		out = append(out, ch.courier)
	}
	if ch.customer != nil {
		out = append(out, ch.customer)
	}
	return out
}

// closedRetention is how long a closed order keeps refusing joins
const closedRetention = 15 * time.Minute

// Registry maps order ids to channels and connections to memberships
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*channel
	members  map[string]Membership
	closed   map[string]time.Time
	now      func() time.Time
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		channels: make(map[string]*channel),
		members:  make(map[string]Membership),
		closed:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Join places conn in the role slot of the order's channel, creating the channel
// if needed. A previous holder of the slot is evicted and told so; a connection
// joined to another order leaves it first. The joined ack and, for customers,
// the last known position are queued to conn before any later broadcast.
// Orders closed by Close are refused with tracking.ErrOrderNotFound.
func (r *Registry) Join(orderID string, role models.Role, userID string, conn tracking.Conn, destination models.Position) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if closedAt, ok := r.closed[orderID]; ok && r.now().Sub(closedAt) < closedRetention {
		return JoinResult{}, fmt.Errorf("%w: order %s was closed", tracking.ErrOrderNotFound, orderID)
	}

	prevMembership, joined := r.members[conn.ID()]
	if joined && prevMembership.OrderID != orderID {
		r.removeLocked(conn, prevMembership)
	}

	ch, ok := r.channels[orderID]
	if !ok {
		ch = &channel{orderID: orderID}
		r.channels[orderID] = ch
		logger.Debug("Channel opened", logger.OrderID(orderID))
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if joined && prevMembership.OrderID == orderID && prevMembership.Role != role {
		// same order, switching role: free the old slot without tearing the channel down
		if old := ch.slot(prevMembership.Role); *old != nil && (*old).conn.ID() == conn.ID() {
			*old = nil
		}
	}

	var result JoinResult
	slot := ch.slot(role)
	if prev := *slot; prev != nil && prev.conn.ID() != conn.ID() {
		delete(r.members, prev.conn.ID())
		prev.conn.Send(constants.EventEvicted, models.ChannelNotice{
			OrderID: orderID,
			Reason:  constants.ReasonReplaced,
		})
		result.Evicted = prev.conn
		metrics.Evictions.WithLabelValues(string(role)).Inc()
		logger.Info("Participant evicted by newer connection",
			logger.OrderID(orderID),
			logger.String("role", string(role)),
			logger.ConnID(prev.conn.ID()))
	}

	*slot = &participant{conn: conn, userID: userID}
	r.members[conn.ID()] = Membership{OrderID: orderID, Role: role, UserID: userID}

	conn.Send(constants.EventJoined, models.JoinedMessage{
		OrderID:     orderID,
		Role:        role,
		Destination: destination,
	})

	if ch.last != nil {
		last := *ch.last
		result.LastPosition = &last
		if role == models.RoleCustomer {
			conn.Send(constants.EventPositionUpdate, models.PositionUpdateMessage{
				OrderID:         orderID,
				TrackedPosition: last,
			})
		}
	}

	return result, nil
}

// Leave removes conn from its channel. Empty channels are deleted.
// It reports whether conn was a member of any channel.
func (r *Registry) Leave(conn tracking.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[conn.ID()]
	if !ok {
		return false
	}
	r.removeLocked(conn, m)
	return true
}

// removeLocked must be called with r.mu held exclusively
func (r *Registry) removeLocked(conn tracking.Conn, m Membership) {
	delete(r.members, conn.ID())

	ch, ok := r.channels[m.OrderID]
	if !ok {
		return
	}

	ch.mu.Lock()
	slot := ch.slot(m.Role)
	if *slot != nil && (*slot).conn.ID() == conn.ID() {
		*slot = nil
	}
	empty := ch.empty()
	ch.mu.Unlock()

	if empty {
		delete(r.channels, m.OrderID)
		logger.Debug("Channel closed, no participants left", logger.OrderID(m.OrderID))
	}
}

// Membership returns the channel membership of conn
func (r *Registry) Membership(conn tracking.Conn) (Membership, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[conn.ID()]
	return m, ok
}

// Report stamps pos with the next sequence number, stores it as the channel's
// last known position and broadcasts it to everyone but the reporter.
// Only the connection currently holding the courier slot may report.
func (r *Registry) Report(conn tracking.Conn, pos models.Position) (*ReportResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[conn.ID()]
	if !ok {
		return nil, tracking.ErrChannelGone
	}
	if m.Role != models.RoleCourier {
		return nil, tracking.ErrNotCourier
	}

	ch, ok := r.channels[m.OrderID]
	if !ok {
		return nil, tracking.ErrChannelGone
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.courier == nil || ch.courier.conn.ID() != conn.ID() {
		return nil, tracking.ErrChannelGone
	}

	ch.seq++
	tracked := models.TrackedPosition{
		Position:   pos,
		Seq:        ch.seq,
		ReceivedAt: r.now().UTC(),
	}
	ch.last = &tracked

	result := &ReportResult{
		OrderID:   ch.orderID,
		CourierID: ch.courier.userID,
		Position:  tracked,
	}

	result.Delivered = broadcastLocked(ch, conn, constants.EventPositionUpdate, models.PositionUpdateMessage{
		OrderID:         ch.orderID,
		TrackedPosition: tracked,
	})

	return result, nil
}

// Broadcast queues an event to every participant of the order except exclude,
// which may be nil. It returns how many participants accepted the event.
func (r *Registry) Broadcast(orderID string, exclude tracking.Conn, event string, data interface{}) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[orderID]
	if !ok {
		return 0
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	return broadcastLocked(ch, exclude, event, data)
}

// broadcastLocked must be called with ch.mu held
func broadcastLocked(ch *channel, exclude tracking.Conn, event string, data interface{}) int {
	delivered := 0
	for _, p := range ch.participants() {
		if exclude != nil && p.conn.ID() == exclude.ID() {
			continue
		}
		if p.conn.Send(event, data) {
			delivered++
		}
	}
	return delivered
}

// Close tears down the order's channel, telling every participant why, and
// refuses later joins to the order. It returns the number of participants removed.
func (r *Registry) Close(orderID, reason string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, closedAt := range r.closed {
		if now.Sub(closedAt) >= closedRetention {
			delete(r.closed, id)
		}
	}
	r.closed[orderID] = now

	ch, ok := r.channels[orderID]
	if !ok {
		return 0
	}
	delete(r.channels, orderID)

	ch.mu.Lock()
	defer ch.mu.Unlock()

	notice := models.ChannelNotice{OrderID: orderID, Reason: reason}
	removed := 0
	for _, p := range ch.participants() {
		delete(r.members, p.conn.ID())
		p.conn.Send(constants.EventChannelClosed, notice)
		removed++
	}
	ch.courier, ch.customer = nil, nil

	logger.Info("Channel closed",
		logger.OrderID(orderID),
		logger.String("reason", reason),
		logger.Int("participants", removed))

	return removed
}

// Snapshot returns a copy of the channel state for orderID
func (r *Registry) Snapshot(orderID string) models.PositionSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := models.PositionSnapshot{OrderID: orderID}
	ch, ok := r.channels[orderID]
	if !ok {
		return snap
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	snap.Active = true
	snap.CourierOn = ch.courier != nil
	if ch.last != nil {
		last := *ch.last
		snap.LastPosition = &last
	}
	return snap
}

// Stats returns the number of channels and joined connections
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{Channels: len(r.channels), Connections: len(r.members)}
}

// Describe implements prometheus.Collector
func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- metrics.ChannelsDesc
	ch <- metrics.JoinedConnectionsDesc
}

// Collect implements prometheus.Collector with the current Stats
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	stats := r.Stats()
	ch <- prometheus.MustNewConstMetric(metrics.ChannelsDesc, prometheus.GaugeValue, float64(stats.Channels))
	ch <- prometheus.MustNewConstMetric(metrics.JoinedConnectionsDesc, prometheus.GaugeValue, float64(stats.Connections))
}
