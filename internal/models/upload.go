package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UploadResponse - ответ Cloudinary на подписанную загрузку, который клиент
// пересылает нам для регистрации изображения
type UploadResponse struct {
	AssetID          string    `json:"asset_id"`
	PublicID         string    `json:"public_id"`
	Version          int       `json:"version"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Format           string    `json:"format"`
	ResourceType     string    `json:"resource_type"`
	CreatedAt        time.Time `json:"created_at"`
	Bytes            int       `json:"bytes"`
	SecureURL        string    `json:"secure_url"`
	OriginalFilename string    `json:"original_filename"`
	Context          struct {
		Custom struct {
			Alt string `json:"alt"`
		} `json:"custom"`
	} `json:"context"`
}

// ErrNotAnImage возвращается для загрузок, которые не являются изображениями
var ErrNotAnImage = errors.New("upload is not an image")

// ParseUploadResponse конвертирует JSON-ответ от Cloudinary в структуру
func ParseUploadResponse(data []byte) (UploadResponse, error) {
	var response UploadResponse
	err := json.Unmarshal(data, &response)
	return response, err
}

// MediaFromUpload извлекает метаданные изображения из ответа Cloudinary
func MediaFromUpload(ur UploadResponse, alt string) (Media, error) {
	if ur.PublicID == "" {
		return Media{}, errors.New("upload has no public_id")
	}
	if ur.ResourceType != "" && ur.ResourceType != "image" {
		return Media{}, ErrNotAnImage
	}

	if alt == "" {
		alt = ur.Context.Custom.Alt
	}

	m := Media{
		ID:        uuid.New(),
		PublicID:  ur.PublicID,
		Alt:       alt,
		CreatedAt: ur.CreatedAt,
	}
	if ur.OriginalFilename != "" {
		m.Filename = ur.OriginalFilename
		if ur.Format != "" {
			m.Filename += "." + ur.Format
		}
	}
	switch ur.Format {
	case "":
	case "jpg":
		m.MimeType = "image/jpeg"
	default:
		m.MimeType = "image/" + ur.Format
	}
	if ur.Width > 0 {
		w := ur.Width
		m.Width = &w
	}
	if ur.Height > 0 {
		h := ur.Height
		m.Height = &h
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return m, nil
}
