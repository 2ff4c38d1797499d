package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/models"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type recordingStore struct {
	media []models.Media
	props []models.Property
	fail  error
}

func (s *recordingStore) CreateMedia(_ context.Context, m *models.Media) error {
	s.media = append(s.media, *m)
	return nil
}

func (s *recordingStore) CreateProperty(_ context.Context, p *models.Property) error {
	if s.fail != nil {
		return s.fail
	}
	s.props = append(s.props, *p)
	return nil
}

func TestDefaultFixturesAreValid(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)

	media, props, err := f.Build(now)
	require.NoError(t, err)
	assert.Len(t, media, 6)
	assert.Len(t, props, 15)

	published := 0
	for _, p := range props {
		if p.IsPublished() {
			published++
			assert.NotNil(t, p.PublishedAt, p.Slug)
		}
	}
	assert.Equal(t, 14, published)

	villa := props[0]
	assert.Equal(t, "sunny-villa", villa.Slug)
	assert.Equal(t, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), villa.CreatedAt)
	require.NotNil(t, villa.FeaturedImage)
	assert.Equal(t, "properties/sunny-villa-front", villa.FeaturedImage.PublicID)
	require.Len(t, villa.Gallery, 2)
	assert.Equal(t, villa.FeaturedImage.ID, villa.Gallery[0].ID)
	assert.JSONEq(t, `{"root":{"type":"root","version":1,"children":[
		{"type":"paragraph","version":1,"children":[{"type":"text","text":"A bright Mediterranean villa two blocks from the beach.","version":1}]},
		{"type":"paragraph","version":1,"children":[{"type":"text","text":"The terrace opens onto a heated pool and a landscaped garden.","version":1}]}
	]}}`, string(villa.Description))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("properties:\n  - title: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown media key", `
properties:
  - {title: A, property_type: house, listing_type: sale, address: a, city: b, featured_image: nope}`},
		{"duplicate media key", `
media:
  - {key: a, public_id: x}
  - {key: a, public_id: y}`},
		{"invalid property", `
properties:
  - {title: A, property_type: castle, listing_type: sale, address: a, city: b}`},
		{"duplicate published slug", `
properties:
  - {title: Twin, property_type: house, listing_type: sale, address: a, city: b, status: published}
  - {title: Twin, property_type: house, listing_type: sale, address: c, city: d, status: published}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, _, err = f.Build(now)
			assert.Error(t, err)
		})
	}
}

func TestBuildAllowsDraftSlugReuse(t *testing.T) {
	f, err := Parse([]byte(`
properties:
  - {title: Twin, property_type: house, listing_type: sale, address: a, city: b, status: published}
  - {title: Twin, property_type: house, listing_type: sale, address: c, city: d}`))
	require.NoError(t, err)

	_, props, err := f.Build(now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, props[1].Status)
	assert.Equal(t, now, props[1].CreatedAt)
}

func TestApply(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)

	store := &recordingStore{}
	sum, err := Apply(context.Background(), store, f, now, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Media: 6, Properties: 15}, sum)
	assert.Len(t, store.media, 6)
	assert.Len(t, store.props, 15)
}

func TestApplyStopsOnStoreError(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)

	store := &recordingStore{fail: errors.New("constraint")}
	sum, err := Apply(context.Background(), store, f, now, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, 6, sum.Media)
	assert.Zero(t, sum.Properties)
}

func TestApplyRejectsEmptyFixtures(t *testing.T) {
	_, err := Apply(context.Background(), &recordingStore{}, &Fixtures{}, now, zap.NewNop())
	assert.Error(t, err)
}

func TestRichText(t *testing.T) {
	assert.Nil(t, richText("  "))
	assert.JSONEq(t,
		`{"root":{"type":"root","version":1,"children":[{"type":"paragraph","version":1,"children":[{"type":"text","text":"one line","version":1}]}]}}`,
		string(richText("one\n line")))
}
