package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/events"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/memory"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/metrics"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/rack-inventario-api/internal/interfaces/http"
	"github.com/jhoicas/rack-inventario-api/pkg/config"
	"github.com/jhoicas/rack-inventario-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios fuera de transacción más el TxRunner del motor.
type storage struct {
	tx         inventory.TxRunner
	slots      repository.SlotRepository
	placements repository.PlacementRepository
	movements  repository.MovementRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Bool("reconcile_on_update", cfg.Engine.ReconcileOnUpdate).
		Bool("delete_empty_placements", cfg.Engine.DeleteEmptyPlacements).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var publisher inventory.EventPublisher
	if cfg.Kafka.Enabled() {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Component("kafka"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Kafka")
		}
		defer func() { _ = kp.Close() }()
		publisher = kp
	} else {
		log.Info().Msg("KAFKA_BROKERS vacío: eventos de inventario deshabilitados")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var recorder inventory.MetricsRecorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder(registry)
	}

	engine := inventory.NewEngine(inventory.EngineDeps{
		TxRunner:   store.tx,
		Slots:      store.slots,
		Placements: store.placements,
		Movements:  store.movements,
		Publisher:  publisher,
		Metrics:    recorder,
		Logger:     log.Component("engine"),
		Options: inventory.Options{
			ReconcileOnUpdate:     cfg.Engine.ReconcileOnUpdate,
			DeleteEmptyPlacements: cfg.Engine.DeleteEmptyPlacements,
		},
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Rack Inventario API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage construye el backend según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &storage{
			tx:         mem,
			slots:      mem.Slots(),
			placements: mem.Placements(),
			movements:  mem.Movements(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de racks verificado")
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		slots:      postgres.NewSlotRepository(pool),
		placements: postgres.NewPlacementRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		close:      pool.Close,
	}, nil
}
