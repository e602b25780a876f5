package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/onvif-integration/internal/pkg/bridge"
	"github.com/anicoll/onvif-integration/internal/pkg/config"
	"github.com/anicoll/onvif-integration/internal/pkg/contxt"
	"github.com/anicoll/onvif-integration/internal/pkg/database"
	"github.com/anicoll/onvif-integration/internal/pkg/database/migration"
	"github.com/anicoll/onvif-integration/internal/pkg/model"
	"github.com/anicoll/onvif-integration/internal/pkg/mqtt"
	"github.com/anicoll/onvif-integration/internal/pkg/natspub"
	"github.com/anicoll/onvif-integration/internal/pkg/publisher"
	"github.com/anicoll/onvif-integration/internal/pkg/server"
	"github.com/anicoll/onvif-integration/internal/pkg/stream"
)

func BridgeCommand(ctx *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if v := ctx.String("mqtt-host"); v != "" {
		cfg.MqttCfg.Host = v
	}
	if v := ctx.String("mqtt-user"); v != "" {
		cfg.MqttCfg.Username = v
	}
	if v := ctx.String("mqtt-pass"); v != "" {
		cfg.MqttCfg.Password = v
	}
	if v := ctx.String("mqtt-discovery-prefix"); v != "" {
		cfg.MqttCfg.DiscoveryPrefix = v
	}
	if v := ctx.String("nats-url"); v != "" {
		cfg.NatsCfg.URL = v
	}
	if v := ctx.String("http-addr"); v != "" {
		cfg.ServerCfg.Addr = v
	}
	if v := ctx.String("api-password-hash"); v != "" {
		cfg.ServerCfg.APIPasswordHash = v
	}
	if v := ctx.String("jwt-secret"); v != "" {
		cfg.ServerCfg.JWTSecret = v
	}
	if v := ctx.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	return run(ctx.Context, cfg, ctx.String("database-url"), ctx.String("migrations-folder"))
}

// publisherSink routes bridge output through the package-level publisher
// registry.
type publisherSink struct{}

func (publisherSink) PublishEvents(ctx context.Context, device model.Device, events []model.Event) error {
	return publisher.PublishEvents(ctx, device, events)
}

func (publisherSink) RegisterDevice(device *model.Device) error {
	return publisher.RegisterDevice(device)
}

func run(ctx context.Context, cfg *config.Config, databaseURL, migrationsFolder string) error {
	errorChan := make(chan error, 1000)
	var err error

	eg, ctx := errgroup.WithContext(ctx)
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	if migrationsFolder != "" {
		if err := migration.Migrate(databaseURL, migrationsFolder); err != nil {
			return err
		}
	}

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	db := database.NewDatabase(conn)

	if err := publisher.RegisterPublisher("postgres", db); err != nil {
		return err
	}

	if cfg.MqttCfg.Host != "" {
		opts := paho_mqtt.NewClientOptions().
			AddBroker(cfg.MqttCfg.Host).
			SetUsername(cfg.MqttCfg.Username).
			SetPassword(cfg.MqttCfg.Password).
			SetAutoReconnect(true)
		mqttSvc := mqtt.New(paho_mqtt.NewClient(opts), cfg.MqttCfg.DiscoveryPrefix)
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	if cfg.NatsCfg.URL != "" {
		natsSvc, err := natspub.New(cfg.NatsCfg.URL)
		if err != nil {
			return err
		}
		defer natsSvc.Close()
		if err := publisher.RegisterPublisher("nats", natsSvc); err != nil {
			return err
		}
	}

	hub := stream.NewHub()
	b := bridge.New(publisherSink{}, hub)

	eg.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	eg.Go(func() error {
		return cronDbCleanup(ctx, db, errorChan)
	})

	eg.Go(func() error {
		srv := &http.Server{
			Handler:      server.New(b, db, hub, cfg.ServerCfg).Handler(),
			Addr:         cfg.ServerCfg.Addr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		// handle any async errors from the cron loops
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Error("async error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

var errCron = errors.New("cron error")

func cronDbCleanup(ctx context.Context, db *database.Database, errChan chan error) error {
	if err := db.Cleanup(contxt.NewContext(time.Minute)); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		if err := db.Cleanup(contxt.NewContext(time.Minute)); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			errChan <- errCron
			return
		}
		zap.L().Info("cleaned up stale event history")
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	// Stop returns a context that is done once any in-flight job finishes.
	<-c.Stop().Done()
	return ctx.Err()
}
