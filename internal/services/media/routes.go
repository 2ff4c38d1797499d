package media

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/realty-api/internal/middleware"
)

// SetupRoutes настраивает маршруты загрузки изображений.
// Группы узкие: остальные маршруты /api публичные.
func (s *MediaService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Маршрут для получения параметров загрузки
	upload := app.Group("/api/upload")
	upload.Use(auth)
	upload.Get("/params", s.GenerateUploadParams)

	// Регистрация загруженного изображения
	media := app.Group("/api/media")
	media.Use(auth)
	media.Post("/", s.RegisterUpload)
}
