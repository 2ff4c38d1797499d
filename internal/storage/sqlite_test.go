package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func addProperty(t *testing.T, s *SQLiteStore, p models.Property) models.Property {
	t.Helper()
	if p.Title == "" {
		p.Title = "Property " + uuid.NewString()[:8]
	}
	if p.PropertyType == "" {
		p.PropertyType = models.PropertyTypeHouse
	}
	if p.ListingType == "" {
		p.ListingType = models.ListingTypeSale
	}
	if p.Address == "" {
		p.Address = "1 Main St"
	}
	if p.City == "" {
		p.City = "Austin"
	}
	if p.Status == "" {
		p.Status = models.StatusPublished
	}
	p.Normalize(baseTime)
	require.NoError(t, p.Validate())
	require.NoError(t, s.CreateProperty(context.Background(), &p))
	return p
}

func slugs(docs []models.Property) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Slug
	}
	return out
}

func TestSQLiteStore_FindMatchesInMemoryPredicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	catalog := []models.Property{
		{Slug: "a", PropertyType: models.PropertyTypeHouse, ListingType: models.ListingTypeSale, Price: 450000, Bedrooms: intPtr(3), Bathrooms: floatPtr(2), City: "Springfield"},
		{Slug: "b", PropertyType: models.PropertyTypeHouse, ListingType: models.ListingTypeRent, Price: 2500, Bedrooms: intPtr(2), Bathrooms: floatPtr(1), City: "Austin"},
		{Slug: "c", PropertyType: models.PropertyTypeApartment, ListingType: models.ListingTypeSale, Price: 320000, Bedrooms: intPtr(1), Bathrooms: floatPtr(1.5), City: "West Springfield"},
		{Slug: "d", PropertyType: models.PropertyTypeLand, ListingType: models.ListingTypeSale, Price: 90000, City: "Springfield"},
		{Slug: "e", PropertyType: models.PropertyTypeHouse, ListingType: models.ListingTypeSale, Price: 610000, Bedrooms: intPtr(5), Bathrooms: floatPtr(3.5), City: "Denver"},
		{Slug: "f", PropertyType: models.PropertyTypeHouse, ListingType: models.ListingTypeSale, Price: 500000, Bedrooms: intPtr(4), City: "Springfield", Status: models.StatusDraft},
	}
	var stored []models.Property
	for i, p := range catalog {
		p.CreatedAt = baseTime.Add(time.Duration(i) * time.Hour)
		stored = append(stored, addProperty(t, s, p))
	}

	queries := []string{
		"",
		"propertyType=house",
		"propertyType=house&listingType=sale",
		"minPrice=100000&maxPrice=500000",
		"bedrooms=3",
		"bathrooms=1.5",
		"city=spring",
		"propertyType=house&minPrice=400000&bedrooms=3&city=SPRING",
		"minPrice=0&bedrooms=0",
		"city=nowhere",
	}
	for _, raw := range queries {
		t.Run(raw, func(t *testing.T) {
			preds := search.Build(search.ParseQuery(raw))

			var want []string
			for i := len(stored) - 1; i >= 0; i-- {
				if search.MatchesAll(preds, &stored[i]) {
					want = append(want, stored[i].Slug)
				}
			}

			res, err := s.Find(ctx, search.Query{Predicates: preds, Limit: search.PageSize})
			require.NoError(t, err)
			assert.Equal(t, len(want), res.TotalDocs)
			if len(want) == 0 {
				assert.Empty(t, res.Docs)
				return
			}
			assert.Equal(t, want, slugs(res.Docs))
			for _, d := range res.Docs {
				assert.Equal(t, models.StatusPublished, d.Status)
			}
		})
	}
}

func TestSQLiteStore_CityContainsIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "springfield-house", City: "Springfield"})
	addProperty(t, s, models.Property{Slug: "austin-house", City: "Austin"})

	res, err := s.Find(context.Background(), search.Query{
		Predicates: search.Build(search.Filters{City: "spring"}),
		Limit:      search.PageSize,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalDocs)
	assert.Equal(t, []string{"springfield-house"}, slugs(res.Docs))
}

func TestSQLiteStore_CityContainsUnicode(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "zurich-flat", City: "Zürich"})
	addProperty(t, s, models.Property{Slug: "austin-house", City: "Austin"})

	for _, city := range []string{"ZÜRICH", "zür", "Zürich"} {
		t.Run(city, func(t *testing.T) {
			preds := search.Build(search.ParseQuery("city=" + url.QueryEscape(city)))
			res, err := s.Find(context.Background(), search.Query{Predicates: preds, Limit: search.PageSize})
			require.NoError(t, err)
			assert.Equal(t, []string{"zurich-flat"}, slugs(res.Docs))
			for i := range res.Docs {
				assert.True(t, search.MatchesAll(preds, &res.Docs[i]))
			}
		})
	}
}

func TestSQLiteStore_CityWildcardsAreLiteral(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "plain", City: "Austin"})
	addProperty(t, s, models.Property{Slug: "percent", City: "100% City"})

	res, err := s.Find(context.Background(), search.Query{
		Predicates: search.Build(search.Filters{City: "%"}),
		Limit:      search.PageSize,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"percent"}, slugs(res.Docs))

	res, err = s.Find(context.Background(), search.Query{
		Predicates: search.Build(search.Filters{City: "_"}),
		Limit:      search.PageSize,
	})
	require.NoError(t, err)
	assert.Zero(t, res.TotalDocs)
}

func TestSQLiteStore_MissingBedroomsNeverMatchBound(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "lot", PropertyType: models.PropertyTypeLand})
	addProperty(t, s, models.Property{Slug: "cabin", Bedrooms: intPtr(2)})

	res, err := s.Find(context.Background(), search.Query{
		Predicates: search.Build(search.Filters{Bedrooms: floatPtr(1)}),
		Limit:      search.PageSize,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cabin"}, slugs(res.Docs))
}

func TestSQLiteStore_SortNewestFirstWithInsertionTieBreak(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "old", CreatedAt: baseTime})
	addProperty(t, s, models.Property{Slug: "tie-first", CreatedAt: baseTime.Add(time.Hour)})
	addProperty(t, s, models.Property{Slug: "tie-second", CreatedAt: baseTime.Add(time.Hour)})
	addProperty(t, s, models.Property{Slug: "new", CreatedAt: baseTime.Add(2 * time.Hour)})

	res, err := s.Find(context.Background(), search.Query{Predicates: []search.Predicate{search.Published()}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "tie-first", "tie-second", "old"}, slugs(res.Docs))
}

func TestSQLiteStore_Pagination(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 30; i++ {
		addProperty(t, s, models.Property{
			Slug:      fmt.Sprintf("p-%02d", i),
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	ctx := context.Background()
	preds := search.Build(search.Filters{})

	page, err := search.FindPage(ctx, s, preds, 3, search.PageSize)
	require.NoError(t, err)
	assert.Equal(t, 30, page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Docs, 6)
	assert.Equal(t, "p-05", page.Docs[0].Slug)
	assert.False(t, page.HasNextPage)

	page, err = search.FindPage(ctx, s, preds, 999, search.PageSize)
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
	assert.NotNil(t, page.Docs)
	assert.Equal(t, 30, page.TotalDocs)
	require.NotNil(t, page.PrevPage)
	assert.Equal(t, 3, *page.PrevPage)
}

func TestSQLiteStore_FindOneBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hero := models.Media{ID: uuid.New(), PublicID: "properties/hero", Alt: "Front", Filename: "hero.jpg", MimeType: "image/jpeg", Width: intPtr(1600), Height: intPtr(900), CreatedAt: baseTime}
	g1 := models.Media{ID: uuid.New(), PublicID: "properties/g1", Alt: "Kitchen", CreatedAt: baseTime}
	g2 := models.Media{ID: uuid.New(), PublicID: "properties/g2", Alt: "Garden", CreatedAt: baseTime}
	for _, m := range []models.Media{hero, g1, g2} {
		require.NoError(t, s.CreateMedia(ctx, &m))
	}

	want := addProperty(t, s, models.Property{
		Title:         "Sunny Villa",
		PropertyType:  models.PropertyTypeVilla,
		Price:         1250000,
		Bedrooms:      intPtr(4),
		Bathrooms:     floatPtr(2.5),
		Area:          floatPtr(320.5),
		State:         "TX",
		ZipCode:       "73301",
		Description:   json.RawMessage(`{"root":{"children":[]}}`),
		Features:      []string{"pool", "garden"},
		FeaturedImage: &hero,
		Gallery:       []models.Media{g2, g1},
		Featured:      true,
	})
	addProperty(t, s, models.Property{Slug: "secret", Status: models.StatusDraft})

	got, err := s.FindOne(ctx, search.DetailPredicates("sunny-villa", false))
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "Sunny Villa", got.Title)
	assert.Equal(t, models.PropertyTypeVilla, got.PropertyType)
	assert.Equal(t, 1250000.0, got.Price)
	assert.Equal(t, 4, *got.Bedrooms)
	assert.Equal(t, 2.5, *got.Bathrooms)
	assert.Nil(t, got.Garages)
	assert.Equal(t, []string{"pool", "garden"}, got.Features)
	assert.JSONEq(t, `{"root":{"children":[]}}`, string(got.Description))
	assert.True(t, got.Featured)
	assert.True(t, got.CreatedAt.Equal(baseTime))
	require.NotNil(t, got.PublishedAt)

	require.NotNil(t, got.FeaturedImage)
	assert.Equal(t, hero.ID, got.FeaturedImage.ID)
	assert.Equal(t, "properties/hero", got.FeaturedImage.PublicID)
	assert.Equal(t, 1600, *got.FeaturedImage.Width)

	require.Len(t, got.Gallery, 2)
	assert.Equal(t, "properties/g2", got.Gallery[0].PublicID)
	assert.Equal(t, "properties/g1", got.Gallery[1].PublicID)
	assert.Nil(t, got.Gallery[0].Width)

	_, err = s.FindOne(ctx, search.DetailPredicates("secret", false))
	assert.ErrorIs(t, err, ErrNotFound)

	draft, err := s.FindOne(ctx, search.DetailPredicates("secret", true))
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Nil(t, draft.FeaturedImage)
	assert.Empty(t, draft.Gallery)

	_, err = s.FindOne(ctx, search.DetailPredicates("missing", false))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_EditorPreviewPrefersPublished(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addProperty(t, s, models.Property{Title: "Published", Slug: "villa", CreatedAt: baseTime})
	addProperty(t, s, models.Property{Title: "Draft", Slug: "villa", Status: models.StatusDraft, CreatedAt: baseTime.Add(time.Hour)})

	got, err := s.FindOne(ctx, search.DetailPredicates("villa", true))
	require.NoError(t, err)
	assert.Equal(t, "Published", got.Title)

	got, err = s.FindOne(ctx, search.DetailPredicates("villa", false))
	require.NoError(t, err)
	assert.Equal(t, "Published", got.Title)
}

func TestSQLiteStore_DuplicatePublishedSlugRejected(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "twin"})
	addProperty(t, s, models.Property{Slug: "twin", Status: models.StatusDraft})

	dup := models.Property{Slug: "twin", Title: "Twin", PropertyType: models.PropertyTypeHouse, ListingType: models.ListingTypeSale, Address: "2 Main St", City: "Austin", Status: models.StatusPublished}
	dup.Normalize(baseTime)
	assert.Error(t, s.CreateProperty(context.Background(), &dup))
}

func TestSQLiteStore_FeaturedPredicates(t *testing.T) {
	s := newTestStore(t)
	addProperty(t, s, models.Property{Slug: "star", Featured: true})
	addProperty(t, s, models.Property{Slug: "plain"})
	addProperty(t, s, models.Property{Slug: "hidden-star", Featured: true, Status: models.StatusDraft})

	res, err := s.Find(context.Background(), search.Query{Predicates: search.FeaturedPredicates(search.Filters{}), Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"star"}, slugs(res.Docs))
}
