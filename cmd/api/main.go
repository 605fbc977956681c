package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/wms-ledger/internal/application/cyclecount"
	"github.com/jhoicas/wms-ledger/internal/application/inbound"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/application/outbound"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/wms-ledger/internal/interfaces/http"
	"github.com/jhoicas/wms-ledger/pkg/config"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()
	var txRunner inventory.TxRunner
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		txRunner = memory.NewStore()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración de esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	m := metrics.NewWithRegistry(cfg.App.Name, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	ledger := inventory.NewLedger()
	stockUC := inventory.NewStockUseCase(txRunner, ledger, log, m)
	sortUC := inbound.NewSortUseCase(txRunner, ledger, log, m)
	supplyUC := outbound.NewSupplyUseCase(txRunner, ledger, log, m)
	reconcileUC := cyclecount.NewReconcileUseCase(txRunner, ledger, log, m)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stock:       stockUC,
		Inbound:     sortUC,
		Outbound:    supplyUC,
		CycleCounts: reconcileUC,
		Metrics:     m,
		JWTSecret:   cfg.JWT.Secret,
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
