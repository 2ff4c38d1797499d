package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validProperty() Property {
	return Property{
		Title:        "Sunny Villa",
		PropertyType: PropertyTypeVilla,
		ListingType:  ListingTypeSale,
		Price:        1250000,
		Address:      "12 Ocean Drive",
		City:         "Miami",
		Status:       StatusPublished,
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	p := validProperty()
	p.Normalize(now)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "sunny-villa", p.Slug)
	assert.Equal(t, []string{}, p.Features)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, now, *p.PublishedAt)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-48 * time.Hour)
	published := now.Add(-24 * time.Hour)

	p := validProperty()
	p.Slug = "custom"
	p.CreatedAt = created
	p.PublishedAt = &published
	p.Normalize(now)

	assert.Equal(t, "custom", p.Slug)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, created, p.UpdatedAt)
	assert.Equal(t, published, *p.PublishedAt)
}

func TestNormalize_DraftByDefault(t *testing.T) {
	p := validProperty()
	p.Status = ""
	p.Normalize(time.Now())

	assert.Equal(t, StatusDraft, p.Status)
	assert.False(t, p.IsPublished())
	assert.Nil(t, p.PublishedAt)
}

func TestValidate(t *testing.T) {
	p := validProperty()
	require.NoError(t, p.Validate())

	bad := Property{
		PropertyType: "castle",
		ListingType:  "lease",
		Status:       "archived",
		Price:        -1,
		Bedrooms:     intPtr(-2),
		Features:     []string{"pool", "helipad"},
	}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidProperty)
	for _, want := range []string{
		"title is required",
		"address is required",
		"city is required",
		`unknown property type "castle"`,
		`unknown listing type "lease"`,
		`unknown status "archived"`,
		"price must not be negative",
		"bedrooms must not be negative",
		`unknown feature "helipad"`,
	} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), `"pool"`)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Sunny Villa":              "sunny-villa",
		"  Downtown   Loft!! ":     "downtown-loft",
		"Café Déjà Vu":             "cafe-deja-vu",
		"3BR / 2BA -- Springfield": "3br-2ba-springfield",
		"!!!":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestLabels(t *testing.T) {
	sale := Property{Price: 1250000, ListingType: ListingTypeSale, City: "Miami", State: "FL"}
	assert.Equal(t, "$1,250,000", sale.PriceLabel())
	assert.Equal(t, "For Sale", sale.ListingType.Label())
	assert.Equal(t, "Miami, FL", sale.ShortLocation())

	rent := Property{Price: 2499.6, ListingType: ListingTypeRent, Address: "1 Main St", City: "Austin", ZipCode: "78701"}
	assert.Equal(t, "$2,500/mo", rent.PriceLabel())
	assert.Equal(t, "For Rent", rent.ListingType.Label())
	assert.Equal(t, "1 Main St, Austin, 78701", rent.FullLocation())

	free := Property{ListingType: ListingTypeRent}
	assert.Empty(t, free.PriceLabel())

	assert.Equal(t, "Townhouse", PropertyTypeTownhouse.Label())
	assert.Equal(t, "Swimming Pool", FeatureLabel("pool"))
	assert.Equal(t, "sauna", FeatureLabel("sauna"))
}

func TestEnums(t *testing.T) {
	for _, pt := range PropertyTypes {
		assert.True(t, pt.Valid(), pt)
	}
	assert.False(t, PropertyType("castle").Valid())
	assert.True(t, ListingTypeRent.Valid())
	assert.False(t, ListingType("").Valid())
	assert.True(t, StatusDraft.Valid())
	assert.False(t, Status("archived").Valid())
}

func TestMediaFromUpload(t *testing.T) {
	ur, err := ParseUploadResponse([]byte(`{
		"public_id": "properties/hero",
		"format": "jpg",
		"resource_type": "image",
		"width": 1600,
		"height": 900,
		"original_filename": "hero",
		"created_at": "2024-03-01T12:00:00Z",
		"context": {"custom": {"alt": "Front"}}
	}`))
	require.NoError(t, err)

	m, err := MediaFromUpload(ur, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, "properties/hero", m.PublicID)
	assert.Equal(t, "Front", m.Alt)
	assert.Equal(t, "hero.jpg", m.Filename)
	assert.Equal(t, "image/jpeg", m.MimeType)
	assert.Equal(t, 1600, *m.Width)
	assert.Equal(t, 900, *m.Height)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), m.CreatedAt)

	m, err = MediaFromUpload(ur, "Override")
	require.NoError(t, err)
	assert.Equal(t, "Override", m.Alt)
}

func TestMediaFromUpload_Rejects(t *testing.T) {
	_, err := MediaFromUpload(UploadResponse{PublicID: "clip", ResourceType: "video"}, "")
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = MediaFromUpload(UploadResponse{ResourceType: "image"}, "")
	assert.Error(t, err)
}

func TestMediaFromUpload_MinimalResponse(t *testing.T) {
	m, err := MediaFromUpload(UploadResponse{PublicID: "x", Format: "webp"}, "")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", m.MimeType)
	assert.Empty(t, m.Filename)
	assert.Nil(t, m.Width)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestPropertyJSON(t *testing.T) {
	p := validProperty()
	p.Description = json.RawMessage(`{"root":{}}`)
	p.Normalize(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "sunny-villa", out["slug"])
	assert.Equal(t, "villa", out["property_type"])
	assert.Equal(t, map[string]any{"root": map[string]any{}}, out["description"])
	assert.NotContains(t, out, "bedrooms")
	assert.Equal(t, []any{}, out["features"])
}
