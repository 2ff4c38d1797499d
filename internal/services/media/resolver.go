package media

import (
	"fmt"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/models"
)

// Size - вариант изображения для конкретного места на странице
type Size string

const (
	SizeCard      Size = "card"
	SizeHero      Size = "hero"
	SizeThumbnail Size = "thumbnail"
)

type dimensions struct {
	width, height int
}

var sizes = map[Size]dimensions{
	SizeCard:      {600, 400},
	SizeHero:      {1600, 900},
	SizeThumbnail: {300, 200},
}

// Resource - готовое к отображению изображение
type Resource struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Resolver строит URL изображений. Без учётных данных Cloudinary
// изображения отдаются из локального каталога /media.
type Resolver struct {
	cld *cloudinary.Cloudinary
}

// NewResolver создает Resolver для заданной конфигурации Cloudinary
func NewResolver(cfg config.CloudinaryConfig) (*Resolver, error) {
	if !cfg.Enabled() {
		return &Resolver{}, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("media: init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	cld.Config.URL.Analytics = false
	return &Resolver{cld: cld}, nil
}

// Resolve возвращает описание изображения нужного размера или nil,
// если изображения нет
func (r *Resolver) Resolve(m *models.Media, size Size) *Resource {
	if m == nil {
		return nil
	}

	res := &Resource{
		Alt:      m.Alt,
		Width:    m.Width,
		Height:   m.Height,
		MimeType: m.MimeType,
	}

	if r.cld != nil && m.PublicID != "" {
		if u, ok := r.transformed(m.PublicID, size); ok {
			res.URL = u
			if d, known := sizes[size]; known {
				w, h := d.width, d.height
				res.Width, res.Height = &w, &h
			}
			return res
		}
	}

	res.URL = localURL(m)
	return res
}

// ResolveAll применяет Resolve к галерее
func (r *Resolver) ResolveAll(items []models.Media, size Size) []Resource {
	out := make([]Resource, 0, len(items))
	for i := range items {
		if res := r.Resolve(&items[i], size); res != nil {
			out = append(out, *res)
		}
	}
	return out
}

func (r *Resolver) transformed(publicID string, size Size) (string, bool) {
	img, err := r.cld.Image(publicID)
	if err != nil {
		return "", false
	}
	if d, ok := sizes[size]; ok {
		img.Transformation = fmt.Sprintf("c_fill,g_auto,w_%d,h_%d/f_auto/q_auto", d.width, d.height)
	}
	u, err := img.String()
	if err != nil || u == "" {
		return "", false
	}
	return u, true
}

func localURL(m *models.Media) string {
	name := m.Filename
	if name == "" {
		name = m.PublicID
	}
	return "/media/" + url.PathEscape(name)
}
