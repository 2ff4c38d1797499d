package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PropertyType классифицирует объект недвижимости
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

// PropertyTypes перечисляет типы объектов в том порядке, в котором их показывает фильтр
var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeVilla,
	PropertyTypeLand,
	PropertyTypeCommercial,
}

// Valid проверяет, что тип объекта известен
func (t PropertyType) Valid() bool {
	for _, known := range PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ListingType - продажа или аренда
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Valid проверяет тип сделки
func (l ListingType) Valid() bool {
	return l == ListingTypeSale || l == ListingTypeRent
}

// Status - состояние публикации объекта
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid проверяет статус публикации
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Property представляет объект недвижимости в каталоге
type Property struct {
	ID            uuid.UUID       `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	PropertyType  PropertyType    `json:"property_type"`
	ListingType   ListingType     `json:"listing_type"`
	Price         float64         `json:"price"`
	Bedrooms      *int            `json:"bedrooms,omitempty"`
	Bathrooms     *float64        `json:"bathrooms,omitempty"`
	Garages       *int            `json:"garages,omitempty"`
	Area          *float64        `json:"area,omitempty"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state,omitempty"`
	ZipCode       string          `json:"zip_code,omitempty"`
	Description   json.RawMessage `json:"description,omitempty"`
	Features      []string        `json:"features"`
	FeaturedImage *Media          `json:"featured_image,omitempty"`
	Gallery       []Media         `json:"gallery,omitempty"`
	Status        Status          `json:"status"`
	Featured      bool            `json:"featured"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Media представляет изображение, хранящееся в Cloudinary
type Media struct {
	ID        uuid.UUID `json:"id"`
	PublicID  string    `json:"public_id"`
	Alt       string    `json:"alt"`
	Filename  string    `json:"filename,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsPublished сообщает, виден ли объект анонимным посетителям
func (p *Property) IsPublished() bool {
	return p.Status == StatusPublished
}

// Normalize заполняет производные поля перед сохранением: slug из заголовка,
// если он не задан, и PublishedAt для опубликованных объектов без даты публикации
func (p *Property) Normalize(now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.Status == StatusPublished && p.PublishedAt == nil {
		stamped := now
		p.PublishedAt = &stamped
	}
}
