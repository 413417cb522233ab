package usecase

import (
	"context"
	"fmt"

	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/utils"
	"github.com/piresc/ordertrack/services/tracking"
	"golang.org/x/time/rate"
)

// Report relays a courier position report to the customers of its channel.
// Rejected reports change nothing and reach nobody.
func (uc *TrackingUC) Report(ctx context.Context, conn tracking.Conn, report models.PositionReport) (*models.TrackedPosition, error) {
	m, ok := uc.registry.Membership(conn)
	if !ok {
		metrics.PositionReports.WithLabelValues("channel_gone").Inc()
		return nil, tracking.ErrChannelGone
	}
	if m.Role != models.RoleCourier {
		metrics.PositionReports.WithLabelValues("not_courier").Inc()
		return nil, tracking.ErrNotCourier
	}

	pos := report.Position()
	if !pos.InRange() {
		metrics.PositionReports.WithLabelValues("invalid_position").Inc()
		return nil, fmt.Errorf("%w: lat=%v lng=%v", tracking.ErrInvalidPosition, report.Lat, report.Lng)
	}

	limiter, ok := uc.limiter(conn)
	if !ok {
		// evicted or left since the membership check
		metrics.PositionReports.WithLabelValues("channel_gone").Inc()
		return nil, tracking.ErrChannelGone
	}
	if !limiter.Allow() {
		metrics.PositionReports.WithLabelValues("rate_limited").Inc()
		return nil, tracking.ErrRateLimited
	}

	res, err := uc.registry.Report(conn, pos)
	if err != nil {
		metrics.PositionReports.WithLabelValues("channel_gone").Inc()
		return nil, err
	}
	metrics.PositionReports.WithLabelValues("relayed").Inc()

	if uc.cfg.Tracking.EventsEnabled {
		event := &models.PositionRelayedEvent{
			OrderID:    res.OrderID,
			CourierID:  res.CourierID,
			Lat:        pos.Lat,
			Lng:        pos.Lng,
			GeoHash:    utils.EncodePosition(pos, uc.cfg.Tracking.PositionGeoHashLen),
			Seq:        res.Position.Seq,
			ReceivedAt: res.Position.ReceivedAt,
		}
		if err := uc.gw.PublishPositionRelayed(ctx, event); err != nil {
			logger.Warn("Failed to publish relayed position",
				logger.OrderID(res.OrderID),
				logger.Uint64("seq", res.Position.Seq),
				logger.Err(err))
		}
	}

	tracked := res.Position
	return &tracked, nil
}

// limiter returns the report limiter installed by Join for conn
func (uc *TrackingUC) limiter(conn tracking.Conn) (*rate.Limiter, bool) {
	l, ok := uc.limiters.Load(conn.ID())
	if !ok {
		return nil, false
	}
	return l.(*rate.Limiter), true
}

func (uc *TrackingUC) newLimiter() *rate.Limiter {
	limit := rate.Limit(uc.cfg.Tracking.ReportsPerSecond)
	if uc.cfg.Tracking.ReportsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := uc.cfg.Tracking.ReportBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}
