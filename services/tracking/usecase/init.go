package usecase

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/piresc/ordertrack/services/tracking/registry"
)

// TrackingUC implements tracking.TrackingUC on top of the session registry
type TrackingUC struct {
	registry  *registry.Registry
	orderRepo tracking.OrderRepo
	gw        tracking.TrackingGW
	cfg       *models.Config
	validate  *validator.Validate

	// per-connection report limiters, keyed by connection id
	limiters sync.Map
}

// NewTrackingUC creates a new tracking usecase instance
func NewTrackingUC(
	reg *registry.Registry,
	orderRepo tracking.OrderRepo,
	gw tracking.TrackingGW,
	cfg *models.Config,
) *TrackingUC {
	return &TrackingUC{
		registry:  reg,
		orderRepo: orderRepo,
		gw:        gw,
		cfg:       cfg,
		validate:  validator.New(),
	}
}

// Leave removes conn from its channel. Disconnects are leaves.
func (uc *TrackingUC) Leave(conn tracking.Conn) {
	uc.limiters.Delete(conn.ID())
	uc.registry.Leave(conn)
}
