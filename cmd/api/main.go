package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/auth"
	"github.com/jhoicas/activos-api/internal/domain/docnumber"
	"github.com/jhoicas/activos-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/activos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/activos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/activos-api/internal/interfaces/http"
	"github.com/jhoicas/activos-api/pkg/config"
	"github.com/jhoicas/activos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	loanRepo := postgres.NewLoanRequestRepository(pool)
	returnRepo := postgres.NewAssetReturnRepository(pool)
	assetRepo := postgres.NewAssetRepository(pool)
	stockRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificador de transiciones: Redis pub/sub si hay broker configurado,
	// de lo contrario solo bitácora en logs.
	var notifier assetops.Notifier
	if cfg.Redis.Addr != "" {
		redisNotifier, err := notify.NewRedisNotifier(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisNotifier.Close()
		notifier = redisNotifier
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	numbering := docnumber.NewGenerator()
	requestUC := assetops.NewRequestUseCase(txRunner, requestRepo, numbering, notifier, log)
	loanUC := assetops.NewLoanUseCase(txRunner, loanRepo, returnRepo, numbering, notifier, log)
	returnUC := assetops.NewReturnUseCase(txRunner, returnRepo, notifier, log)
	ledgerUC := assetops.NewLedgerUseCase(txRunner, assetRepo, log)
	stockUC := assetops.NewStockUseCase(txRunner, stockRepo, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// PDF: actas de entrega y comprobantes de devolución
	pdfGenerator := infrapdf.NewMarotoDocGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Activos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RequestUC: requestUC,
		LoanUC:    loanUC,
		ReturnUC:  returnUC,
		LedgerUC:  ledgerUC,
		StockUC:   stockUC,
		AuthUC:    authUC,
		PDF:       pdfGenerator,
		JWTSecret: cfg.JWT.Secret,
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
