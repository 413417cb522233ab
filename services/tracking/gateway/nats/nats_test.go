package gateway_nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/models"
	natspkg "github.com/piresc/ordertrack/internal/pkg/nats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSGateway_PublishPositionRelayed(t *testing.T) {
	// Arrange
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	client, err := natspkg.NewClient(srv.ClientURL())
	require.NoError(t, err)
	defer client.Close()

	received := make(chan []byte, 1)
	require.NoError(t, client.QueueSubscribe(constants.SubjectPositionRelayed, "test", func(data []byte) error {
		received <- data
		return nil
	}))
	require.NoError(t, client.Flush())

	gw := NewNATSGateway(client)
	event := &models.PositionRelayedEvent{
		OrderID:    "O1",
		CourierID:  "courier-1",
		Lat:        -12.05,
		Lng:        -77.04,
		GeoHash:    "6mc5qym",
		Seq:        3,
		ReceivedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	// Act
	err = gw.PublishPositionRelayed(context.Background(), event)

	// Assert
	require.NoError(t, err)
	select {
	case data := <-received:
		var got models.PositionRelayedEvent
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, *event, got)
	case <-time.After(2 * time.Second):
		t.Fatal("relayed position not published")
	}
}

func TestNATSGateway_NilClientIsNoop(t *testing.T) {
	gw := NewNATSGateway(nil)
	assert.NoError(t, gw.PublishPositionRelayed(context.Background(), &models.PositionRelayedEvent{OrderID: "O1"}))
}
