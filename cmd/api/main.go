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
	"golang.org/x/text/language"

	_ "github.com/jhoicas/Logistica-vacunas-api/docs"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/auth"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/draft"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/order"
	infrapdf "github.com/jhoicas/Logistica-vacunas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Logistica-vacunas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Logistica-vacunas-api/internal/interfaces/http"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/config"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

// @title        Logística de vacunas API
// @version      1.0
// @description  Stock, transacciones, disposición y pedidos de vacunas entre entidades de salud.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in           header
// @name         Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	reasonRepo := postgres.NewTransactionReasonRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	disposalStockRepo := postgres.NewDisposalStockRepository(pool)
	disposalRepo := postgres.NewDisposalRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	transactionUC := inventory.NewTransactionUseCase(txRunner, materialRepo, reasonRepo, stockRepo, transactionRepo, log)

	// PDF: acta de envío de material a disponer
	manifest := infrapdf.NewMarotoManifestGenerator()
	disposalUC := disposal.NewUseCase(txRunner, materialRepo, disposalStockRepo, disposalRepo, manifest, log)
	orderUC := order.NewUseCase(txRunner, materialRepo, orderRepo, log)

	// Borradores en memoria; el sweeper descarta los abandonados.
	drafts := httpRouter.NewDraftStores(cfg.Draft.TTL())
	go draft.RunSweeper(ctx, cfg.Draft.SweepInterval(), log.Component("draft").Zerolog(), drafts.Sweepers()...)

	defaultLang, err := language.Parse(cfg.Locale.Default)
	if err != nil {
		log.Warn().Str("locale", cfg.Locale.Default).Msg("idioma por defecto inválido, se usa id")
		defaultLang = language.Indonesian
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Logística de vacunas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		TransactionUC:   transactionUC,
		DisposalUC:      disposalUC,
		OrderUC:         orderUC,
		Drafts:          drafts,
		JWTSecret:       cfg.JWT.Secret,
		DefaultLanguage: defaultLang,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
