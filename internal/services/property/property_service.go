package property

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/middleware"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
	"github.com/rajivgeraev/realty-api/internal/services/media"
	"github.com/rajivgeraev/realty-api/internal/storage"
	"github.com/rajivgeraev/realty-api/internal/utils"
)

const (
	defaultFeaturedLimit = 6
	maxFeaturedLimit     = 12
)

// Store - хранилище объектов, из которого читает каталог
type Store interface {
	search.Finder
	FindOne(ctx context.Context, preds []search.Predicate) (models.Property, error)
}

// ImageResolver строит отображаемые изображения по ссылкам на медиа
type ImageResolver interface {
	Resolve(m *models.Media, size media.Size) *media.Resource
	ResolveAll(items []models.Media, size media.Size) []media.Resource
}

// PropertyService представляет сервис каталога объектов недвижимости
type PropertyService struct {
	store      Store
	images     ImageResolver
	jwtService *utils.JWTService
	timeout    time.Duration
	log        *zap.Logger
}

// NewPropertyService создает новый экземпляр PropertyService
func NewPropertyService(cfg *config.Config, store Store, images ImageResolver, log *zap.Logger) *PropertyService {
	return &PropertyService{
		store:      store,
		images:     images,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		timeout:    cfg.QueryTimeout,
		log:        log,
	}
}

// GetContext возвращает контекст запроса к хранилищу с таймаутом
func (s *PropertyService) GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// ListProperties возвращает страницу каталога по фильтрам из строки запроса
func (s *PropertyService) ListProperties(c fiber.Ctx) error {
	filters := search.ParseQuery(string(c.Request().URI().QueryString()))
	preds := search.Build(filters)

	ctx, cancel := s.GetContext()
	defer cancel()

	page, err := search.FindPage(ctx, s.store, preds, filters.Page, search.PageSize)
	if err != nil {
		s.log.Error("Ошибка получения каталога",
			zap.Stringers("predicates", preds),
			zap.Int("page", filters.Page),
			zap.Error(err))
		return err
	}

	return c.JSON(newListResponse(filters, page, s.images))
}

// GetProperty возвращает объект по slug. Черновики видны только редакторам.
func (s *PropertyService) GetProperty(c fiber.Ctx) error {
	slug := c.Params("slug")
	_, editor := middleware.UserID(c)

	ctx, cancel := s.GetContext()
	defer cancel()

	p, err := s.store.FindOne(ctx, search.DetailPredicates(slug, editor))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
		}
		s.log.Error("Ошибка получения объекта", zap.String("slug", slug), zap.Error(err))
		return err
	}

	return c.JSON(newDetail(&p, s.images))
}

// FeaturedListings возвращает избранные объекты для блока на главной странице
func (s *PropertyService) FeaturedListings(c fiber.Ctx) error {
	filters := search.ParseQuery(string(c.Request().URI().QueryString()))
	limit := featuredLimit(c.Query("limit"))

	ctx, cancel := s.GetContext()
	defer cancel()

	res, err := s.store.Find(ctx, search.Query{
		Predicates: search.FeaturedPredicates(filters),
		Limit:      limit,
	})
	if err != nil {
		s.log.Error("Ошибка получения избранных объектов", zap.Error(err))
		return err
	}

	return c.JSON(fiber.Map{
		"docs":      newCards(res.Docs, s.images),
		"totalDocs": res.TotalDocs,
		"limit":     limit,
	})
}

// featuredLimit разбирает limit: по умолчанию 6, в пределах 1..12
func featuredLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return defaultFeaturedLimit
	}
	return min(max(limit, 1), maxFeaturedLimit)
}
