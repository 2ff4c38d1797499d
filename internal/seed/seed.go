package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rajivgeraev/realty-api/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Store - хранилище, в которое загружаются демонстрационные данные
type Store interface {
	CreateMedia(ctx context.Context, m *models.Media) error
	CreateProperty(ctx context.Context, p *models.Property) error
}

// MediaFixture описывает изображение, уже загруженное в Cloudinary
type MediaFixture struct {
	Key      string `yaml:"key"`
	PublicID string `yaml:"public_id"`
	Alt      string `yaml:"alt"`
	Filename string `yaml:"filename"`
	MimeType string `yaml:"mime_type"`
	Width    *int   `yaml:"width"`
	Height   *int   `yaml:"height"`
}

// PropertyFixture описывает объект недвижимости. Изображения указываются
// ключами из раздела media.
type PropertyFixture struct {
	Title         string     `yaml:"title"`
	Slug          string     `yaml:"slug"`
	PropertyType  string     `yaml:"property_type"`
	ListingType   string     `yaml:"listing_type"`
	Price         float64    `yaml:"price"`
	Bedrooms      *int       `yaml:"bedrooms"`
	Bathrooms     *float64   `yaml:"bathrooms"`
	Garages       *int       `yaml:"garages"`
	Area          *float64   `yaml:"area"`
	Address       string     `yaml:"address"`
	City          string     `yaml:"city"`
	State         string     `yaml:"state"`
	ZipCode       string     `yaml:"zip_code"`
	Description   string     `yaml:"description"`
	Features      []string   `yaml:"features"`
	FeaturedImage string     `yaml:"featured_image"`
	Gallery       []string   `yaml:"gallery"`
	Status        string     `yaml:"status"`
	Featured      bool       `yaml:"featured"`
	CreatedAt     *time.Time `yaml:"created_at"`
}

// Fixtures - содержимое файла с демонстрационными данными
type Fixtures struct {
	Media      []MediaFixture    `yaml:"media"`
	Properties []PropertyFixture `yaml:"properties"`
}

// Summary - сколько записей загружено
type Summary struct {
	Media      int
	Properties int
}

// Parse разбирает YAML. Неизвестные поля считаются ошибкой.
func Parse(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile читает фикстуры из файла. Пустой путь означает встроенный набор.
func LoadFile(path string) (*Fixtures, error) {
	if path == "" {
		return Parse(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Build превращает фикстуры в модели: разрешает ссылки на изображения,
// заполняет производные поля и проверяет каждый объект
func (f *Fixtures) Build(now time.Time) ([]models.Media, []models.Property, error) {
	now = now.UTC()

	media := make([]models.Media, 0, len(f.Media))
	byKey := make(map[string]models.Media, len(f.Media))
	for i, mf := range f.Media {
		if mf.Key == "" || mf.PublicID == "" {
			return nil, nil, fmt.Errorf("seed: media #%d needs key and public_id", i+1)
		}
		if _, dup := byKey[mf.Key]; dup {
			return nil, nil, fmt.Errorf("seed: duplicate media key %q", mf.Key)
		}
		m := models.Media{
			ID:        uuid.New(),
			PublicID:  mf.PublicID,
			Alt:       mf.Alt,
			Filename:  mf.Filename,
			MimeType:  mf.MimeType,
			Width:     mf.Width,
			Height:    mf.Height,
			CreatedAt: now,
		}
		byKey[mf.Key] = m
		media = append(media, m)
	}

	lookup := func(key string) (models.Media, error) {
		m, ok := byKey[key]
		if !ok {
			return models.Media{}, fmt.Errorf("unknown media key %q", key)
		}
		return m, nil
	}

	props := make([]models.Property, 0, len(f.Properties))
	published := make(map[string]bool)
	for i, pf := range f.Properties {
		p, err := pf.property(lookup)
		if err != nil {
			return nil, nil, fmt.Errorf("seed: property #%d (%s): %w", i+1, pf.Title, err)
		}
		p.Normalize(now)
		if err := p.Validate(); err != nil {
			return nil, nil, fmt.Errorf("seed: property #%d (%s): %w", i+1, pf.Title, err)
		}
		if p.IsPublished() {
			if published[p.Slug] {
				return nil, nil, fmt.Errorf("seed: duplicate published slug %q", p.Slug)
			}
			published[p.Slug] = true
		}
		props = append(props, p)
	}
	return media, props, nil
}

func (pf PropertyFixture) property(lookup func(string) (models.Media, error)) (models.Property, error) {
	p := models.Property{
		Slug:         pf.Slug,
		Title:        pf.Title,
		PropertyType: models.PropertyType(pf.PropertyType),
		ListingType:  models.ListingType(pf.ListingType),
		Price:        pf.Price,
		Bedrooms:     pf.Bedrooms,
		Bathrooms:    pf.Bathrooms,
		Garages:      pf.Garages,
		Area:         pf.Area,
		Address:      pf.Address,
		City:         pf.City,
		State:        pf.State,
		ZipCode:      pf.ZipCode,
		Description:  richText(pf.Description),
		Features:     pf.Features,
		Status:       models.Status(pf.Status),
		Featured:     pf.Featured,
	}
	if pf.CreatedAt != nil {
		p.CreatedAt = pf.CreatedAt.UTC()
	}

	if pf.FeaturedImage != "" {
		m, err := lookup(pf.FeaturedImage)
		if err != nil {
			return models.Property{}, err
		}
		p.FeaturedImage = &m
	}
	for _, key := range pf.Gallery {
		m, err := lookup(key)
		if err != nil {
			return models.Property{}, err
		}
		p.Gallery = append(p.Gallery, m)
	}
	return p, nil
}

// richText оборачивает простой текст в документ редактора: каждый абзац,
// отделённый пустой строкой, становится узлом paragraph
func richText(text string) json.RawMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var paragraphs []any
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		paragraphs = append(paragraphs, map[string]any{
			"type":    "paragraph",
			"version": 1,
			"children": []any{
				map[string]any{"type": "text", "text": para, "version": 1},
			},
		})
	}

	doc, err := json.Marshal(map[string]any{
		"root": map[string]any{
			"type":     "root",
			"version":  1,
			"children": paragraphs,
		},
	})
	if err != nil {
		return nil
	}
	return doc
}

// Apply загружает фикстуры в хранилище: сначала изображения, затем объекты
func Apply(ctx context.Context, store Store, f *Fixtures, now time.Time, log *zap.Logger) (Summary, error) {
	media, props, err := f.Build(now)
	if err != nil {
		return Summary{}, err
	}
	if len(props) == 0 {
		return Summary{}, errors.New("seed: fixtures contain no properties")
	}

	var sum Summary
	for i := range media {
		if err := store.CreateMedia(ctx, &media[i]); err != nil {
			return sum, fmt.Errorf("seed: media %s: %w", media[i].PublicID, err)
		}
		sum.Media++
	}
	for i := range props {
		if err := store.CreateProperty(ctx, &props[i]); err != nil {
			return sum, fmt.Errorf("seed: property %s: %w", props[i].Slug, err)
		}
		sum.Properties++
		log.Debug("Объект загружен",
			zap.String("slug", props[i].Slug),
			zap.String("status", string(props[i].Status)))
	}

	log.Info("Демонстрационные данные загружены",
		zap.Int("media", sum.Media),
		zap.Int("properties", sum.Properties))
	return sum, nil
}
