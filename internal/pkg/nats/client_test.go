package nats

import (
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PublishJSONAndQueueSubscribe(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	client, err := NewClient(srv.ClientURL())
	require.NoError(t, err)
	defer client.Close()

	received := make(chan []byte, 1)
	require.NoError(t, client.QueueSubscribe("order.delivered", "tracking-relay", func(data []byte) error {
		received <- data
		return nil
	}))
	require.NoError(t, client.Flush())

	require.NoError(t, client.PublishJSON("order.delivered", map[string]string{"order_id": "o-1"}))

	select {
	case data := <-received:
		assert.JSONEq(t, `{"order_id":"o-1"}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}
}

func TestClient_HandlerErrorDoesNotStopSubscription(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	client, err := NewClient(srv.ClientURL())
	require.NoError(t, err)
	defer client.Close()

	calls := make(chan struct{}, 2)
	require.NoError(t, client.QueueSubscribe("order.cancelled", "q", func(data []byte) error {
		calls <- struct{}{}
		return errors.New("boom")
	}))
	require.NoError(t, client.Flush())

	require.NoError(t, client.Publish("order.cancelled", []byte(`{}`)))
	require.NoError(t, client.Publish("order.cancelled", []byte(`{}`)))

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected call %d", i+1)
		}
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient("nats://127.0.0.1:1")
	assert.Error(t, err)
}
