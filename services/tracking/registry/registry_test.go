package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	event string
	data  interface{}
}

type fakeConn struct {
	id   string
	mu   sync.Mutex
	sent []sentMessage
	full bool
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(event string, data interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.sent = append(f.sent, sentMessage{event: event, data: data})
	return true
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.event)
	}
	return out
}

func (f *fakeConn) updates() []models.PositionUpdateMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PositionUpdateMessage
	for _, m := range f.sent {
		if u, ok := m.data.(models.PositionUpdateMessage); ok {
			out = append(out, u)
		}
	}
	return out
}

var dest = models.Position{Lat: -12.10, Lng: -77.00}

func TestRegistry_JoinSendsAckAndInitialFix(t *testing.T) {
	// Arrange
	r := New()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.now = func() time.Time { return fixed }
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")

	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	_, err := r.Report(courier, models.Position{Lat: -12.05, Lng: -77.04})
	require.NoError(t, err)

	// Act
	res, err := r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)
	require.NoError(t, err)

	// Assert
	require.NotNil(t, res.LastPosition)
	assert.Nil(t, res.Evicted)
	assert.Equal(t, []string{constants.EventJoined, constants.EventPositionUpdate}, customer.events())

	updates := customer.updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "O1", updates[0].OrderID)
	assert.Equal(t, -12.05, updates[0].Lat)
	assert.Equal(t, -77.04, updates[0].Lng)
	assert.Equal(t, uint64(1), updates[0].Seq)
	assert.Equal(t, fixed, updates[0].ReceivedAt)
}

func TestRegistry_CustomerWithoutFixGetsOnlyAck(t *testing.T) {
	r := New()
	customer := newFakeConn("customer")

	res, err := r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)
	require.NoError(t, err)

	assert.Nil(t, res.LastPosition)
	assert.Equal(t, []string{constants.EventJoined}, customer.events())
}

func TestRegistry_SecondCourierEvictsFirst(t *testing.T) {
	// Arrange
	r := New()
	first := newFakeConn("courier-1")
	second := newFakeConn("courier-2")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)
	r.Join("O1", models.RoleCourier, "u-courier", first, dest)

	// Act
	res, err := r.Join("O1", models.RoleCourier, "u-courier", second, dest)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, res.Evicted)
	assert.Contains(t, first.events(), constants.EventEvicted)

	_, err = r.Report(first, models.Position{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, tracking.ErrChannelGone)

	_, err = r.Report(second, models.Position{Lat: 2, Lng: 2})
	require.NoError(t, err)

	updates := customer.updates()
	require.Len(t, updates, 1)
	assert.Equal(t, 2.0, updates[0].Lat)
}

func TestRegistry_CustomerCannotReport(t *testing.T) {
	r := New()
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)

	_, err := r.Report(customer, models.Position{Lat: 1, Lng: 1})

	assert.ErrorIs(t, err, tracking.ErrNotCourier)
	assert.Nil(t, r.Snapshot("O1").LastPosition)
}

func TestRegistry_ReportWithoutMembership(t *testing.T) {
	r := New()

	_, err := r.Report(newFakeConn("stranger"), models.Position{Lat: 1, Lng: 1})

	assert.ErrorIs(t, err, tracking.ErrChannelGone)
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_LeaveTearsDownEmptyChannel(t *testing.T) {
	// Arrange
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)
	_, err := r.Report(courier, models.Position{Lat: 1, Lng: 1})
	require.NoError(t, err)

	// Act & Assert
	assert.True(t, r.Leave(courier))
	snap := r.Snapshot("O1")
	assert.True(t, snap.Active)
	assert.False(t, snap.CourierOn)
	require.NotNil(t, snap.LastPosition)

	assert.True(t, r.Leave(customer))
	assert.False(t, r.Leave(customer))
	assert.False(t, r.Snapshot("O1").Active)
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_JoinAnotherOrderMovesConnection(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)

	r.Join("O2", models.RoleCourier, "u-courier", courier, dest)

	assert.False(t, r.Snapshot("O1").Active)
	m, ok := r.Membership(courier)
	require.True(t, ok)
	assert.Equal(t, "O2", m.OrderID)
	assert.Equal(t, Stats{Channels: 1, Connections: 1}, r.Stats())
}

func TestRegistry_RejoinSameSlotKeepsLastPosition(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	_, err := r.Report(courier, models.Position{Lat: 1, Lng: 1})
	require.NoError(t, err)

	res, err := r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	require.NoError(t, err)

	assert.Nil(t, res.Evicted)
	require.NotNil(t, res.LastPosition)
	assert.NotContains(t, courier.events(), constants.EventEvicted)
}

func TestRegistry_CloseNotifiesEveryone(t *testing.T) {
	// Arrange
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)

	// Act
	removed := r.Close("O1", constants.ReasonOrderDelivered)

	// Assert
	assert.Equal(t, 2, removed)
	assert.Contains(t, courier.events(), constants.EventChannelClosed)
	assert.Contains(t, customer.events(), constants.EventChannelClosed)
	assert.Equal(t, Stats{}, r.Stats())

	_, err := r.Report(courier, models.Position{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, tracking.ErrChannelGone)
	assert.Equal(t, 0, r.Close("O1", constants.ReasonOrderDelivered))
}

func TestRegistry_BroadcastExcludesSender(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)

	n := r.Broadcast("O1", courier, constants.EventError, models.WSErrorMessage{Code: "x"})

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{constants.EventJoined}, courier.events())
	assert.Equal(t, []string{constants.EventJoined, constants.EventError}, customer.events())
	assert.Equal(t, 0, r.Broadcast("missing", nil, constants.EventError, nil))
}

func TestRegistry_FullQueueDropsWithoutBlocking(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)
	customer.full = true

	res, err := r.Report(courier, models.Position{Lat: 1, Lng: 1})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Delivered)
	assert.Equal(t, uint64(1), res.Position.Seq)
}

func TestRegistry_ReportsWithinOrderAreSequenced(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)

	for i := 1; i <= 50; i++ {
		_, err := r.Report(courier, models.Position{Lat: float64(i) / 100, Lng: 0})
		require.NoError(t, err)
	}

	updates := customer.updates()
	require.Len(t, updates, 50)
	for i, u := range updates {
		assert.Equal(t, uint64(i+1), u.Seq)
		assert.Equal(t, float64(i+1)/100, u.Lat)
	}
}

func TestRegistry_ConcurrentOrdersDoNotLeak(t *testing.T) {
	r := New()
	const orders = 20
	const reports = 25

	var wg sync.WaitGroup
	customers := make([]*fakeConn, orders)
	for i := 0; i < orders; i++ {
		orderID := fmt.Sprintf("O%d", i)
		courier := newFakeConn("courier-" + orderID)
		customers[i] = newFakeConn("customer-" + orderID)
		customer := customers[i]

		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Join(orderID, models.RoleCustomer, "cu", customer, dest)
			r.Join(orderID, models.RoleCourier, "co", courier, dest)
			for j := 0; j < reports; j++ {
				_, _ = r.Report(courier, models.Position{Lat: float64(j), Lng: 0})
				r.Snapshot(orderID)
			}
			r.Leave(courier)
			r.Leave(customer)
		}()
	}
	wg.Wait()

	assert.Equal(t, Stats{}, r.Stats())
	for _, c := range customers {
		updates := c.updates()
		assert.Len(t, updates, reports)
		for i := 1; i < len(updates); i++ {
			assert.Less(t, updates[i-1].Seq, updates[i].Seq)
		}
	}
}

func TestRegistry_ReportReachesEveryoneButReporter(t *testing.T) {
	// Arrange
	r := New()
	courier := newFakeConn("courier")
	customer := newFakeConn("customer")
	r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	r.Join("O1", models.RoleCustomer, "u-customer", customer, dest)

	// Act
	res, err := r.Report(courier, models.Position{Lat: 1, Lng: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, res.Delivered)
	assert.Equal(t, []string{constants.EventJoined}, courier.events())
	assert.Equal(t, []string{constants.EventJoined, constants.EventPositionUpdate}, customer.events())
}

func TestRegistry_CollectsStatsAsGauges(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(r *Registry)
		channels    float64
		connections float64
	}{
		{
			name:  "empty",
			setup: func(r *Registry) {},
		},
		{
			name: "one order with both participants",
			setup: func(r *Registry) {
				r.Join("O1", models.RoleCourier, "u-courier", newFakeConn("courier"), dest)
				r.Join("O1", models.RoleCustomer, "u-customer", newFakeConn("customer"), dest)
			},
			channels:    1,
			connections: 2,
		},
		{
			name: "closed order is not counted",
			setup: func(r *Registry) {
				r.Join("O1", models.RoleCourier, "u-courier", newFakeConn("courier"), dest)
				r.Join("O2", models.RoleCustomer, "u-customer", newFakeConn("customer"), dest)
				r.Close("O1", constants.ReasonOrderDelivered)
			},
			channels:    1,
			connections: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			r := New()
			tt.setup(r)
			promReg := prometheus.NewRegistry()
			require.NoError(t, promReg.Register(r))

			// Act
			families, err := promReg.Gather()

			// Assert
			require.NoError(t, err)
			got := map[string]float64{}
			for _, mf := range families {
				require.Len(t, mf.GetMetric(), 1)
				got[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
			}
			assert.Equal(t, map[string]float64{
				"tracking_active_channels":    tt.channels,
				"tracking_joined_connections": tt.connections,
			}, got)
		})
	}
}

func TestRegistry_ClosedOrderRefusesJoin(t *testing.T) {
	// Arrange
	r := New()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	courier := newFakeConn("courier")

	// closing an order nobody joined yet still counts
	assert.Equal(t, 0, r.Close("O1", constants.ReasonOrderCancelled))

	// Act
	_, err := r.Join("O1", models.RoleCourier, "u-courier", courier, dest)

	// Assert
	assert.ErrorIs(t, err, tracking.ErrOrderNotFound)
	assert.Empty(t, courier.events())
	assert.False(t, r.Snapshot("O1").Active)
	assert.Equal(t, Stats{}, r.Stats())

	_, err = r.Join("O2", models.RoleCourier, "u-courier", courier, dest)
	require.NoError(t, err)

	// the record expires
	now = now.Add(closedRetention)
	_, err = r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	require.NoError(t, err)
	assert.False(t, r.Snapshot("O2").Active)
}

func TestRegistry_RefusedJoinKeepsPreviousMembership(t *testing.T) {
	r := New()
	courier := newFakeConn("courier")
	_, err := r.Join("O1", models.RoleCourier, "u-courier", courier, dest)
	require.NoError(t, err)
	r.Close("O2", constants.ReasonOrderDelivered)

	_, err = r.Join("O2", models.RoleCourier, "u-courier", courier, dest)

	assert.ErrorIs(t, err, tracking.ErrOrderNotFound)
	m, ok := r.Membership(courier)
	require.True(t, ok)
	assert.Equal(t, "O1", m.OrderID)
}
