package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		read     inventory.Readers
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner = store
		read = store.Readers()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Storage.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool)
		read = postgres.Readers(pool)
	}

	// Bloqueo distribuido de confirmaciones solo si hay Redis; si no, bastan los bloqueos de fila.
	var locker inventory.Locker = lock.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueos distribuidos activos")
	}

	clock := inventory.Clock(time.Now)
	serials := dominv.NewSerialGenerator(time.Now)

	unitRegistry := inventory.NewUnitRegistry(txRunner, read, serials, clock, log)
	requestUC := inventory.NewRequestUseCase(txRunner, read, serials, clock, log)
	deliveryUC := inventory.NewDeliveryUseCase(txRunner, read, locker, serials, clock, log)
	saleUC := inventory.NewSaleUseCase(txRunner, serials, clock, log)
	productUC := usecase.NewProductUseCase(read.Products, read.Suppliers)
	supplierUC := usecase.NewSupplierUseCase(read.Suppliers)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		Units:      unitRegistry,
		Requests:   requestUC,
		Deliveries: deliveryUC,
		Sales:      saleUC,
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
