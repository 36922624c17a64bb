// SoundGrid Core - Networked Audio Orchestration
//
// This is the main entry point for the SoundGrid Core application.
// SoundGrid coordinates playback across networked speakers grouped
// into zones, driving an Axis audio control service while keeping a
// locally persisted view of device and session state.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/harlandw/soundgrid-core/migrations"

	"github.com/harlandw/soundgrid-core/internal/api"
	"github.com/harlandw/soundgrid-core/internal/bridges/axis"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/config"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/database"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/influxdb"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/logging"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/mqtt"
	"github.com/harlandw/soundgrid-core/internal/session"
	"github.com/harlandw/soundgrid-core/internal/source"
	"github.com/harlandw/soundgrid-core/internal/speaker"
	"github.com/harlandw/soundgrid-core/internal/zone"
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
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SoundGrid Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
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
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Vendor control client
	vendorClient := axis.NewClient(axis.Config{
		BaseURL:            cfg.Vendor.BaseURL,
		Username:           cfg.Vendor.Username,
		Password:           cfg.Vendor.Password,
		Timeout:            cfg.GetVendorTimeout(),
		InsecureSkipVerify: cfg.Vendor.InsecureSkipVerify,
	})
	vendorClient.SetLogger(log)
	if influxClient != nil {
		vendorClient.SetTelemetry(influxClient)
	}
	log.Info("vendor client initialised", "base_url", cfg.Vendor.BaseURL)

	// Event bus over MQTT (nil-safe: orchestration runs without it)
	var events *eventBus
	if mqttClient != nil {
		events = &eventBus{client: mqttClient, qos: byte(cfg.MQTT.QoS), log: log}
	}

	// Repositories and domain services
	speakerRepo := speaker.NewSQLiteRepository(db.DB)
	zoneRepo := zone.NewSQLiteRepository(db.DB)
	sourceRepo := source.NewSQLiteRepository(db.DB)
	sessionRepo := session.NewSQLiteRepository(db.DB)

	speakerRegistry := speaker.NewRegistry(speakerRepo)
	speakerRegistry.SetLogger(log)
	speakerRegistry.SetRemote(&vendorVolumeAdapter{client: vendorClient})
	if events != nil {
		speakerRegistry.SetEvents(events)
	}
	if influxClient != nil {
		speakerRegistry.SetTelemetry(influxClient)
	}

	zoneAggregator := zone.NewAggregator(zoneRepo)
	zoneAggregator.SetLogger(log)

	sourceCatalog := source.NewCatalog(sourceRepo)
	sourceCatalog.SetLogger(log)

	sessionManager := session.NewManager(sessionRepo, zoneRepo, sourceRepo, vendorClient)
	sessionManager.SetLogger(log)
	if events != nil {
		sessionManager.SetEvents(events)
	}
	if influxClient != nil {
		sessionManager.SetTelemetry(influxClient)
	}

	log.Info("domain services initialised")

	// API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Speakers: speakerRegistry,
		Zones:    zoneAggregator,
		Sources:  sourceCatalog,
		Sessions: sessionManager,
		Remote:   vendorClient,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("SoundGrid Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SOUNDGRID_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SOUNDGRID_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// vendorVolumeAdapter adapts the axis client to the speaker registry's
// RemoteVolumeSetter interface. The push is best-effort: the client
// absorbs failures into synthesized results, so nothing propagates.
type vendorVolumeAdapter struct {
	client *axis.Client
}

// SetSpeakerVolume implements speaker.RemoteVolumeSetter.
func (a *vendorVolumeAdapter) SetSpeakerVolume(ctx context.Context, speakerID string, volume int) {
	a.client.SetVolume(ctx, speakerID, volume)
}

// eventBus publishes domain events to MQTT. It implements
// speaker.EventPublisher and session.EventPublisher; publish failures
// are logged and dropped, never propagated into orchestration.
type eventBus struct {
	client *mqtt.Client
	topics mqtt.Topics
	qos    byte
	log    *logging.Logger
}

// PublishSpeakerVolume implements speaker.EventPublisher.
func (b *eventBus) PublishSpeakerVolume(speakerID string, volume int) {
	b.publish(b.topics.SpeakerVolume(speakerID), map[string]any{
		"speaker_id": speakerID,
		"volume":     volume,
	})
}

// PublishDiscovery implements speaker.EventPublisher.
func (b *eventBus) PublishDiscovery(created, discovered int) {
	b.publish(b.topics.Discovery(), map[string]any{
		"created":    created,
		"discovered": discovered,
	})
}

// PublishSessionTransition implements session.EventPublisher.
func (b *eventBus) PublishSessionTransition(sessionID, zoneID, status, action string) {
	payload := map[string]any{
		"session_id": sessionID,
		"zone_id":    zoneID,
		"status":     status,
	}
	if action != "" {
		payload["action"] = action
	}
	b.publish(b.topics.SessionEvent(sessionID), payload)
}

func (b *eventBus) publish(topic string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("encoding event payload", "topic", topic, "error", err)
		return
	}
	if err := b.client.Publish(topic, data, b.qos, false); err != nil {
		b.log.Warn("publishing event failed", "topic", topic, "error", err)
	}
}
