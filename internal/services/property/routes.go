package property

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/realty-api/internal/middleware"
)

// SetupRoutes настраивает публичные маршруты каталога
func (s *PropertyService) SetupRoutes(app *fiber.App) {
	// Токен не обязателен: он лишь открывает редактору черновики
	properties := app.Group("/properties")
	properties.Use(middleware.OptionalAuth(s.jwtService))

	// Каталог с фильтрами и пагинацией
	properties.Get("/", s.ListProperties)

	// Страница объекта
	properties.Get("/:slug", s.GetProperty)

	// Блок избранных объектов для главной страницы
	app.Get("/api/featured-listings", s.FeaturedListings)
}
