// Command simulator drives one courier towards a drop-off point and follows
// it as the customer, printing positions and ETAs. It signs its own tokens
// with the identity secret, so it is meant for local environments only.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/config"
	jwtpkg "github.com/piresc/ordertrack/internal/pkg/jwt"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/pkg/retry"
	"github.com/piresc/ordertrack/internal/utils"
	"github.com/piresc/ordertrack/services/tracking/client"
	gateway_http "github.com/piresc/ordertrack/services/tracking/gateway/http"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "config/tracking.env", "env file loaded when APP_ENV=local")
		orderID    = flag.String("order", "", "order to simulate")
		courierID  = flag.String("courier", "", "courier user id assigned to the order")
		customerID = flag.String("customer", "", "customer user id of the order")
		from       = flag.String("from", "-12.0464,-77.0428", "courier start position as lat,lng")
		to         = flag.String("to", "-12.1211,-77.0297", "drop-off position as lat,lng")
		speedKmh   = flag.Float64("speed", 30, "courier speed in km/h")
	)
	flag.Parse()

	if *orderID == "" || *courierID == "" || *customerID == "" {
		flag.Usage()
		os.Exit(2)
	}

	start, err := parsePosition(*from)
	if err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	dropoff, err := parsePosition(*to)
	if err != nil {
		log.Fatalf("invalid -to: %v", err)
	}

	configs := config.InitConfig(*configPath)
	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nil)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	courierToken, _, err := jwtpkg.GenerateToken(*courierID, string(models.RoleCourier), configs.JWT)
	if err != nil {
		zapLogger.Fatal("Failed to sign courier token", zap.Error(err))
	}
	customerToken, _, err := jwtpkg.GenerateToken(*customerID, string(models.RoleCustomer), configs.JWT)
	if err != nil {
		zapLogger.Fatal("Failed to sign customer token", zap.Error(err))
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = configs.Tracking.MaxReconnectTries
	retryCfg.BaseDelay = 500 * time.Millisecond
	retryCfg.MaxDelay = 10 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := client.NewSnapshotClient(httpBaseURL(configs.Services.TrackingURL), customerToken, 5*time.Second)
	renderer := &logRenderer{log: zapLogger}
	customer := client.NewCustomerSession(client.Config{
		URL:        configs.Services.TrackingURL,
		Credential: customerToken,
		OrderID:    *orderID,
		Retry:      retryCfg,
		OnStatus: func(st client.Status) {
			zapLogger.Info("Customer connection status", zap.String("status", string(st)))
			if st != client.StatusConnected {
				go fetchSnapshot(ctx, snapshots, *orderID, zapLogger)
			}
		},
	}, gateway_http.NewRoutingClient(configs.Services.RoutingServiceURL, configs.Tracking.RoutingTimeout), renderer)

	interval := configs.Tracking.CourierInterval
	stepKm := *speedKmh * interval.Hours()
	courier := client.NewCourierSession(client.Config{
		URL:        configs.Services.TrackingURL,
		Credential: courierToken,
		OrderID:    *orderID,
		Retry:      retryCfg,
		OnStatus: func(st client.Status) {
			zapLogger.Info("Courier connection status", zap.String("status", string(st)))
		},
	}, newRouteWalker(start, dropoff, stepKm), interval)

	customerCtx, stopCustomer := context.WithCancel(ctx)
	defer stopCustomer()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := customer.Run(customerCtx); err != nil {
			zapLogger.Warn("Customer session ended", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		err := courier.Run(ctx)
		if err != nil {
			zapLogger.Warn("Courier session ended", zap.Error(err))
		} else {
			zapLogger.Info("Courier arrived at drop-off")
		}
		// let the last update and ETA reach the customer
		time.Sleep(2 * time.Second)
		stopCustomer()
	}()
	wg.Wait()
}

// routeWalker moves in a straight line towards the drop-off, one step per call
type routeWalker struct {
	mu      sync.Mutex
	current models.Position
	target  models.Position
	stepKm  float64
	arrived bool
}

func newRouteWalker(start, target models.Position, stepKm float64) *routeWalker {
	return &routeWalker{current: start, target: target, stepKm: stepKm}
}

func (w *routeWalker) Next(ctx context.Context) (models.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.arrived {
		return models.Position{}, io.EOF
	}
	pos := w.current
	if pos == w.target {
		w.arrived = true
	}
	w.current = utils.MoveTowards(w.current, w.target, w.stepKm)
	return pos, nil
}

type logRenderer struct {
	log *logger.ZapLogger
}

func (r *logRenderer) OnJoined(joined models.JoinedMessage) {
	r.log.Info("Following order",
		zap.String("order_id", joined.OrderID),
		zap.Float64("destination_lat", joined.Destination.Lat),
		zap.Float64("destination_lng", joined.Destination.Lng))
}

func (r *logRenderer) OnPosition(update models.PositionUpdateMessage) {
	r.log.Info("Courier position",
		zap.Uint64("seq", update.Seq),
		zap.Float64("lat", update.Lat),
		zap.Float64("lng", update.Lng),
		zap.String("geohash", utils.EncodePosition(update.Position, 7)))
}

func (r *logRenderer) OnETA(eta models.ETA) {
	r.log.Info("ETA",
		zap.String("duration", eta.DurationText),
		zap.Bool("stale", eta.Stale))
}

func fetchSnapshot(ctx context.Context, snapshots *client.SnapshotClient, orderID string, zapLogger *logger.ZapLogger) {
	snap, err := snapshots.Fetch(ctx, orderID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			zapLogger.Warn("Snapshot unavailable", zap.Error(err))
		}
		return
	}
	if snap.LastPosition == nil {
		zapLogger.Info("No courier position yet", zap.Bool("courier_online", snap.CourierOn))
		return
	}
	zapLogger.Info("Last known courier position",
		zap.Uint64("seq", snap.LastPosition.Seq),
		zap.Float64("lat", snap.LastPosition.Lat),
		zap.Float64("lng", snap.LastPosition.Lng),
		zap.Bool("courier_online", snap.CourierOn))
}

func parsePosition(s string) (models.Position, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return models.Position{}, errors.New("expected lat,lng")
	}
	latV, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return models.Position{}, err
	}
	lngV, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return models.Position{}, err
	}
	pos := models.Position{Lat: latV, Lng: lngV}
	if !pos.InRange() {
		return models.Position{}, errors.New("coordinates out of range")
	}
	return pos, nil
}

// httpBaseURL turns ws://host/ws/tracking into http://host
func httpBaseURL(wsURL string) string {
	u, err := url.Parse(wsURL)
	if err != nil {
		return wsURL
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	default:
		u.Scheme = "http"
	}
	u.Path = ""
	return u.String()
}
