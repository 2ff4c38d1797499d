package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/middleware"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/utils"
)

// Store сохраняет описания загруженных изображений
type Store interface {
	CreateMedia(ctx context.Context, m *models.Media) error
}

// MediaService выдаёт параметры подписанной загрузки в Cloudinary
// и регистрирует загруженные изображения
type MediaService struct {
	cfg        config.CloudinaryConfig
	timeout    time.Duration
	jwtService *utils.JWTService
	resolver   *Resolver
	store      Store
	log        *zap.Logger
	now        func() time.Time
}

// NewMediaService создает новый экземпляр MediaService
func NewMediaService(cfg *config.Config, resolver *Resolver, store Store, log *zap.Logger) *MediaService {
	return &MediaService{
		cfg:        cfg.CloudinaryConfig,
		timeout:    cfg.QueryTimeout,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		resolver:   resolver,
		store:      store,
		log:        log,
		now:        time.Now,
	}
}

// uploadParams возвращает подписываемые параметры загрузки
func (s *MediaService) uploadParams() url.Values {
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(s.now().Unix(), 10))
	if s.cfg.UploadFolder != "" {
		params.Set("folder", s.cfg.UploadFolder)
	}
	if s.cfg.UploadPreset != "" {
		params.Set("upload_preset", s.cfg.UploadPreset)
	}
	return params
}

// GenerateUploadParams создаёт параметры для загрузки изображений
func (s *MediaService) GenerateUploadParams(c fiber.Ctx) error {
	if !s.cfg.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Загрузка изображений не настроена",
		})
	}

	params := s.uploadParams()
	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		s.log.Error("Ошибка подписи параметров загрузки", zap.Error(err))
		return err
	}

	return c.JSON(fiber.Map{
		"timestamp":     params.Get("timestamp"),
		"signature":     signature,
		"api_key":       s.cfg.APIKey,
		"cloud_name":    s.cfg.CloudName,
		"folder":        params.Get("folder"),
		"upload_preset": params.Get("upload_preset"),
	})
}

// registerRequest - тело запроса регистрации загруженного изображения
type registerRequest struct {
	Upload json.RawMessage `json:"upload"`
	Alt    string          `json:"alt"`
}

// RegisterUpload сохраняет изображение, загруженное клиентом напрямую в Cloudinary
func (s *MediaService) RegisterUpload(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if len(req.Upload) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не передан ответ Cloudinary"})
	}

	upload, err := models.ParseUploadResponse(req.Upload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный ответ Cloudinary"})
	}

	m, err := models.MediaFromUpload(upload, req.Alt)
	if err != nil {
		if errors.Is(err, models.ErrNotAnImage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Можно загружать только изображения"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.store.CreateMedia(ctx, &m); err != nil {
		s.log.Error("Ошибка сохранения изображения",
			zap.String("public_id", m.PublicID), zap.Error(err))
		return err
	}

	userID, _ := middleware.UserID(c)
	s.log.Info("Изображение зарегистрировано",
		zap.String("media_id", m.ID.String()),
		zap.String("public_id", m.PublicID),
		zap.String("user_id", userID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"media":     m,
		"thumbnail": s.resolver.Resolve(&m, SizeThumbnail),
	})
}
