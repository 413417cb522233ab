package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/piresc/ordertrack/internal/pkg/database"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
)

// OrderRepo reads orders from the order-management database through a Redis cache
type OrderRepo struct {
	db          *sqlx.DB
	redisClient *database.RedisClient
	cfg         *models.Config
}

// NewOrderRepo creates a new order repository. redisClient may be nil to disable caching.
func NewOrderRepo(cfg *models.Config, db *sqlx.DB, redisClient *database.RedisClient) tracking.OrderRepo {
	return &OrderRepo{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
	}
}
