package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/config"
	applogger "github.com/rajivgeraev/realty-api/internal/logger"
)

var (
	debug  bool
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "realty-api",
	Short: "Realty API - поиск и просмотр объявлений о недвижимости",
	Long: `Realty API отдаёт каталог объявлений о продаже и аренде недвижимости:
фильтрация, постраничный вывод, карточка объекта по slug и загрузка изображений в Cloudinary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = applogger.New(cfg.AppEnv, debug)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "подробное логирование")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newErrorHandler обрабатывает ошибки Fiber
func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		// Проверяем, является ли ошибка из Fiber
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Ошибка обработки запроса",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		// Отправляем ошибку в JSON
		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
