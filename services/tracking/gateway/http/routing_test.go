package gateway_http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	origin      = models.Position{Lat: -12.05, Lng: -77.04}
	destination = models.Position{Lat: -12.1, Lng: -77}
)

func TestRoutingClient_Route(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		timeout   time.Duration
		wantRoute *models.Route
		wantErrIs error
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/route", r.URL.Path)
				assert.Equal(t, "-12.05,-77.04", r.URL.Query().Get("origin"))
				assert.Equal(t, "-12.1,-77", r.URL.Query().Get("destination"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"duration_text":"7 mins","path_geometry":"abc~def"}`))
			},
			wantRoute: &models.Route{DurationText: "7 mins", PathGeometry: "abc~def"},
		},
		{
			name: "provider error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErrIs: tracking.ErrRouteUnavailable,
		},
		{
			name: "provider too slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			timeout:   50 * time.Millisecond,
			wantErrIs: tracking.ErrRouteUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			client := NewRoutingClient(srv.URL, tt.timeout)

			// Act
			route, err := client.Route(context.Background(), origin, destination)

			// Assert
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, route)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, route)
		})
	}
}

func TestRoutingClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	client := NewRoutingClient(srv.URL, time.Second)

	for i := 0; i < 8; i++ {
		_, err := client.Route(context.Background(), origin, destination)
		assert.ErrorIs(t, err, tracking.ErrRouteUnavailable)
	}

	// default breaker trips after 5 consecutive failures
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestRoutingClient_CallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	client := NewRoutingClient(srv.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Route(ctx, origin, destination)

	assert.ErrorIs(t, err, context.Canceled)
}
