package property

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
	"github.com/rajivgeraev/realty-api/internal/services/media"
)

// basePath - путь страницы каталога
const basePath = "/properties"

// PropertyCard - краткое представление объекта для сетки каталога
type PropertyCard struct {
	ID                string              `json:"id"`
	Slug              string              `json:"slug"`
	URL               string              `json:"url"`
	Title             string              `json:"title"`
	PropertyType      models.PropertyType `json:"propertyType"`
	PropertyTypeLabel string              `json:"propertyTypeLabel"`
	ListingType       models.ListingType  `json:"listingType"`
	ListingTypeLabel  string              `json:"listingTypeLabel"`
	Price             float64             `json:"price"`
	PriceLabel        string              `json:"priceLabel,omitempty"`
	Bedrooms          *int                `json:"bedrooms,omitempty"`
	Bathrooms         *float64            `json:"bathrooms,omitempty"`
	Area              *float64            `json:"area,omitempty"`
	City              string              `json:"city"`
	State             string              `json:"state,omitempty"`
	Location          string              `json:"location"`
	Featured          bool                `json:"featured"`
	Image             *media.Resource     `json:"image,omitempty"`
}

// Feature - удобство объекта с подписью
type Feature struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PropertyDetail - полное представление объекта для страницы объекта
type PropertyDetail struct {
	PropertyCard
	Garages      *int             `json:"garages,omitempty"`
	Address      string           `json:"address"`
	ZipCode      string           `json:"zipCode,omitempty"`
	FullLocation string           `json:"fullLocation"`
	Description  json.RawMessage  `json:"description,omitempty"`
	Features     []Feature        `json:"features"`
	Gallery      []media.Resource `json:"gallery"`
	Status       models.Status    `json:"status"`
	PublishedAt  *time.Time       `json:"publishedAt,omitempty"`
}

// ListResponse - страница каталога с состоянием фильтров и ссылками навигации
type ListResponse struct {
	Docs []PropertyCard `json:"docs"`
	search.PageInfo
	PrevPageURL      string            `json:"prevPageURL,omitempty"`
	NextPageURL      string            `json:"nextPageURL,omitempty"`
	Filters          map[string]string `json:"filters"`
	HasActiveFilters bool              `json:"hasActiveFilters"`
	ClearURL         string            `json:"clearURL"`
	RemoveFilterURLs map[string]string `json:"removeFilterURLs"`
}

func newCard(p *models.Property, images ImageResolver) PropertyCard {
	return PropertyCard{
		ID:                p.ID.String(),
		Slug:              p.Slug,
		URL:               basePath + "/" + p.Slug,
		Title:             p.Title,
		PropertyType:      p.PropertyType,
		PropertyTypeLabel: p.PropertyType.Label(),
		ListingType:       p.ListingType,
		ListingTypeLabel:  p.ListingType.Label(),
		Price:             p.Price,
		PriceLabel:        p.PriceLabel(),
		Bedrooms:          p.Bedrooms,
		Bathrooms:         p.Bathrooms,
		Area:              p.Area,
		City:              p.City,
		State:             p.State,
		Location:          p.ShortLocation(),
		Featured:          p.Featured,
		Image:             images.Resolve(p.FeaturedImage, media.SizeCard),
	}
}

func newCards(docs []models.Property, images ImageResolver) []PropertyCard {
	cards := make([]PropertyCard, 0, len(docs))
	for i := range docs {
		cards = append(cards, newCard(&docs[i], images))
	}
	return cards
}

func newDetail(p *models.Property, images ImageResolver) PropertyDetail {
	card := newCard(p, images)
	card.Image = images.Resolve(p.FeaturedImage, media.SizeHero)

	features := make([]Feature, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, Feature{Value: f, Label: models.FeatureLabel(f)})
	}

	return PropertyDetail{
		PropertyCard: card,
		Garages:      p.Garages,
		Address:      p.Address,
		ZipCode:      p.ZipCode,
		FullLocation: p.FullLocation(),
		Description:  p.Description,
		Features:     features,
		Gallery:      images.ResolveAll(p.Gallery, media.SizeHero),
		Status:       p.Status,
		PublishedAt:  p.PublishedAt,
	}
}

// listURL строит ссылку на каталог с заданной строкой запроса
func listURL(query string) string {
	if query == "" {
		return basePath
	}
	return basePath + "?" + query
}

func newListResponse(f search.Filters, page search.Page, images ImageResolver) ListResponse {
	resp := ListResponse{
		Docs:             newCards(page.Docs, images),
		PageInfo:         page.PageInfo,
		Filters:          map[string]string{},
		HasActiveFilters: f.Active(),
		ClearURL:         basePath,
		RemoveFilterURLs: map[string]string{},
	}

	if page.PrevPage != nil {
		resp.PrevPageURL = listURL(f.With(search.KeyPage, strconv.Itoa(*page.PrevPage)))
	}
	if page.NextPage != nil {
		resp.NextPageURL = listURL(f.With(search.KeyPage, strconv.Itoa(*page.NextPage)))
	}

	for _, key := range search.Keys {
		if key == search.KeyPage {
			continue
		}
		if v := f.Get(key); v != "" {
			resp.Filters[string(key)] = v
			resp.RemoveFilterURLs[string(key)] = listURL(f.Without(key))
		}
	}
	return resp
}
