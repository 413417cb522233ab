package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration from the environment. When APP_ENV is "local"
// (the default) the env file at configPath is loaded first.
func InitConfig(configPath string) *models.Config {
	v := newViper()
	if v.GetString("APP_ENV") == "local" && configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "tracking-service")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "development")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 9995)
	v.SetDefault("SERVER_READ_TIMEOUT", 10)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("NATS_URL", "nats://localhost:4222")

	v.SetDefault("JWT_EXPIRATION", 60)
	v.SetDefault("JWT_ISSUER", "identity-service")

	v.SetDefault("ROUTING_SERVICE_URL", "http://localhost:9996")
	v.SetDefault("TRACKING_URL", "ws://localhost:9995/ws/tracking")

	v.SetDefault("TRACKING_ORDER_CACHE_TTL", "5m")
	v.SetDefault("TRACKING_REPORTS_PER_SECOND", 5.0)
	v.SetDefault("TRACKING_REPORT_BURST", 10)
	v.SetDefault("TRACKING_SEND_QUEUE_SIZE", 32)
	v.SetDefault("TRACKING_WRITE_WAIT", "10s")
	v.SetDefault("TRACKING_PONG_WAIT", "60s")
	v.SetDefault("TRACKING_ROUTING_TIMEOUT", "5s")
	v.SetDefault("TRACKING_COURIER_INTERVAL", "3s")
	v.SetDefault("TRACKING_MAX_RECONNECT_TRIES", 5)
	v.SetDefault("TRACKING_EVENTS_ENABLED", true)
	v.SetDefault("TRACKING_GEOHASH_PRECISION", 7)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_PATH", "")
	v.SetDefault("LOG_TYPE", "stdout")

	v.SetDefault("NEW_RELIC_ENABLED", false)
	v.SetDefault("NEW_RELIC_FORWARD_LOGS", false)
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	configs.NATS.URL = v.GetString("NATS_URL")

	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	configs.Services.RoutingServiceURL = v.GetString("ROUTING_SERVICE_URL")
	configs.Services.TrackingURL = v.GetString("TRACKING_URL")

	configs.Tracking.OrderCacheTTL = getDuration(v, "TRACKING_ORDER_CACHE_TTL", 5*time.Minute)
	configs.Tracking.ReportsPerSecond = v.GetFloat64("TRACKING_REPORTS_PER_SECOND")
	configs.Tracking.ReportBurst = v.GetInt("TRACKING_REPORT_BURST")
	configs.Tracking.SendQueueSize = v.GetInt("TRACKING_SEND_QUEUE_SIZE")
	configs.Tracking.WriteWait = getDuration(v, "TRACKING_WRITE_WAIT", 10*time.Second)
	configs.Tracking.PongWait = getDuration(v, "TRACKING_PONG_WAIT", 60*time.Second)
	configs.Tracking.RoutingTimeout = getDuration(v, "TRACKING_ROUTING_TIMEOUT", 5*time.Second)
	configs.Tracking.CourierInterval = getDuration(v, "TRACKING_COURIER_INTERVAL", 3*time.Second)
	configs.Tracking.MaxReconnectTries = v.GetInt("TRACKING_MAX_RECONNECT_TRIES")
	configs.Tracking.EventsEnabled = v.GetBool("TRACKING_EVENTS_ENABLED")
	configs.Tracking.PositionGeoHashLen = v.GetUint("TRACKING_GEOHASH_PRECISION")

	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.MaxSize = v.GetInt64("LOG_MAX_SIZE")
	configs.Logger.MaxAge = v.GetInt("LOG_MAX_AGE")
	configs.Logger.MaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	configs.Logger.Compress = v.GetBool("LOG_COMPRESS")
	configs.Logger.Type = v.GetString("LOG_TYPE")

	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	return configs
}

// getDuration accepts Go duration strings ("5s") and falls back on bad input
func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return d
}
