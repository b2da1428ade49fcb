// Plant Core - plant inventory service
//
// This is the main entry point for the Plant Core HTTP service. It stores
// plant records in SQLite, serves them over a REST API and, when configured,
// announces every change over MQTT and records stock levels in InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/plant-core/migrations"

	"github.com/nerrad567/plant-core/internal/api"
	"github.com/nerrad567/plant-core/internal/audit"
	"github.com/nerrad567/plant-core/internal/infrastructure/config"
	"github.com/nerrad567/plant-core/internal/infrastructure/database"
	"github.com/nerrad567/plant-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/plant-core/internal/infrastructure/logging"
	"github.com/nerrad567/plant-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/plant-core/internal/plant"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown once ctx is cancelled.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Plant Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", db.Path())

	if schemaErr := db.EnsureSchema(ctx); schemaErr != nil {
		return fmt.Errorf("ensuring schema: %w", schemaErr)
	}
	log.Info("database schema ready")

	deps := api.Deps{
		Config:      cfg.API,
		Logger:      log,
		Plants:      plant.NewSQLiteRepository(db.DB),
		AuditRepo:   audit.NewSQLiteRepository(db.DB),
		DB:          db.DB,
		Version:     version,
		EventTopics: mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix},
		EventQoS:    byte(cfg.MQTT.QoS), //nolint:gosec // validated to 0..2 by config
	}

	mqttClient := connectMQTT(cfg.MQTT, log)
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		deps.Events = mqttClient
	}

	influxClient := connectInfluxDB(cfg.InfluxDB, log)
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		deps.Inventory = influxClient
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// connectMQTT connects to the broker when MQTT is enabled.
// A broker that cannot be reached is logged and the service runs without events.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) *mqtt.Client {
	if !cfg.Enabled {
		log.Info("MQTT disabled")
		return nil
	}

	client, err := mqtt.Connect(cfg)
	if err != nil {
		log.Warn("MQTT unavailable, plant events will not be published", "error", err)
		return nil
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Debug("MQTT session ready, plant events resume")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT connection lost, plant events paused until reconnect", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
		"topic_prefix", client.Topics().Prefix,
	)
	return client
}

// connectInfluxDB connects to InfluxDB when it is enabled.
// A server that cannot be reached is logged and inventory history is skipped.
func connectInfluxDB(cfg config.InfluxDBConfig, log *logging.Logger) *influxdb.Client {
	if !cfg.Enabled {
		log.Info("InfluxDB disabled")
		return nil
	}

	client, err := influxdb.Connect(cfg)
	if err != nil {
		log.Warn("InfluxDB unavailable, inventory history will not be recorded", "error", err)
		return nil
	}
	client.SetOnError(func(err error) {
		log.Warn("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.URL,
		"org", cfg.Org,
		"bucket", cfg.Bucket,
	)
	return client
}

func getConfigPath() string {
	if path := os.Getenv("PLANTCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthChecker is implemented by every component with a HealthCheck.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func healthCheck(ctx context.Context, db healthChecker, server healthChecker) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
