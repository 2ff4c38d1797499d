package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/services/media"
	"github.com/rajivgeraev/realty-api/internal/services/property"
)

const shutdownTimeout = 10 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "применить схему перед запуском")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем хранилище
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if autoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return err
		}
	}

	app, err := newApp(cfg, st, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		logger.Info("Останавливаем сервер")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Ошибка при остановке сервера", zap.Error(err))
		}
	}()

	// Запускаем сервер
	logger.Info("✅ Realty API запущен",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.Bool("cloudinary", cfg.CloudinaryConfig.Enabled()),
	)
	if err := app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newApp собирает приложение Fiber со всеми маршрутами
func newApp(cfg *config.Config, st store, log *zap.Logger) (*fiber.App, error) {
	resolver, err := media.NewResolver(cfg.CloudinaryConfig)
	if err != nil {
		return nil, err
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Realty API",
		ErrorHandler: newErrorHandler(log),
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: false,
	}))

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Создаём сервисы и регистрируем маршруты
	property.NewPropertyService(cfg, st, resolver, log).SetupRoutes(app)
	media.NewMediaService(cfg, resolver, st, log).SetupRoutes(app)

	return app, nil
}
