package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
)

// ErrNotFound - ни один объект не подошёл под условия
var ErrNotFound = errors.New("storage: not found")

// dialect - различия SQL между Postgres и SQLite
type dialect struct {
	name        string
	placeholder func(n int) string
	contains    func(col, ph string) string
	numberParam func(ph string) string
	jsonArg     func(b []byte) any
}

var postgresDialect = dialect{
	name:        "postgres",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	contains: func(col, ph string) string {
		return col + " ILIKE " + ph + ` ESCAPE '\'`
	},
	// bedrooms - integer, без приведения 2.5 не кодируется в int4
	numberParam: func(ph string) string { return ph + "::float8" },
	jsonArg: func(b []byte) any {
		if b == nil {
			return nil
		}
		return b
	},
}

// LIKE в SQLite не учитывает регистр только для ASCII, ulower приводит обе стороны
// через strings.ToLower (регистрируется в sqlite.go)
var sqliteDialect = dialect{
	name:        "sqlite",
	placeholder: func(int) string { return "?" },
	contains: func(col, ph string) string {
		return "ulower(" + col + ") LIKE ulower(" + ph + `) ESCAPE '\'`
	},
	numberParam: func(ph string) string { return ph },
	jsonArg: func(b []byte) any {
		if b == nil {
			return nil
		}
		return string(b)
	},
}

// columns - поля, на которые может ссылаться условие
var columns = map[search.Field]string{
	search.FieldStatus:       "p.status",
	search.FieldSlug:         "p.slug",
	search.FieldPropertyType: "p.property_type",
	search.FieldListingType:  "p.listing_type",
	search.FieldPrice:        "p.price",
	search.FieldBedrooms:     "p.bedrooms",
	search.FieldBathrooms:    "p.bathrooms",
	search.FieldCity:         "p.city",
	search.FieldFeatured:     "p.featured",
}

const selectProperties = `
	SELECT p.id, p.slug, p.title, p.property_type, p.listing_type, p.price,
		p.bedrooms, p.bathrooms, p.garages, p.area,
		p.address, p.city, p.state, p.zip_code,
		p.description, p.features, p.status, p.featured,
		p.published_at, p.created_at, p.updated_at,
		m.id, m.public_id, m.alt, m.filename, m.mime_type, m.width, m.height, m.created_at
	FROM properties p
	LEFT JOIN media m ON m.id = p.featured_image_id`

const orderProperties = ` ORDER BY p.created_at DESC, p.seq ASC`

// Опубликованная версия объекта важнее черновика с тем же slug
const orderDetail = ` ORDER BY CASE WHEN p.status = 'published' THEN 0 ELSE 1 END, p.created_at DESC, p.seq ASC`

const selectGallery = `
	SELECT m.id, m.public_id, m.alt, m.filename, m.mime_type, m.width, m.height, m.created_at
	FROM property_gallery g
	JOIN media m ON m.id = g.media_id
	WHERE g.property_id = %s
	ORDER BY g.position ASC`

// compileWhere превращает конъюнкцию условий в WHERE и аргументы
func compileWhere(d dialect, preds []search.Predicate) (string, []any, error) {
	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))

	for _, p := range preds {
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("storage: unsupported field %q", p.Field)
		}
		ph := d.placeholder(len(args) + 1)

		switch p.Op {
		case search.OpEquals:
			clauses = append(clauses, col+" = "+ph)
			args = append(args, p.Value)
		case search.OpGreaterThanEqual, search.OpLessThanEqual:
			n, ok := number(p.Value)
			if !ok {
				return "", nil, fmt.Errorf("storage: %s needs a number, got %T", p, p.Value)
			}
			cmp := ">="
			if p.Op == search.OpLessThanEqual {
				cmp = "<="
			}
			clauses = append(clauses, col+" "+cmp+" "+d.numberParam(ph))
			args = append(args, n)
		case search.OpContains:
			s, ok := p.Value.(string)
			if !ok {
				return "", nil, fmt.Errorf("storage: %s needs a string, got %T", p, p.Value)
			}
			clauses = append(clauses, d.contains(col, ph))
			args = append(args, "%"+escapeLike(s)+"%")
		default:
			return "", nil, fmt.Errorf("storage: unsupported operator %q", p.Op)
		}
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// findSQL строит запросы подсчёта и страницы
func findSQL(d dialect, q search.Query) (countSQL, listSQL string, countArgs, listArgs []any, err error) {
	where, args, err := compileWhere(d, q.Predicates)
	if err != nil {
		return "", "", nil, nil, err
	}

	countSQL = "SELECT COUNT(*) FROM properties p" + where
	listSQL = selectProperties + where + orderProperties +
		" LIMIT " + d.placeholder(len(args)+1) + " OFFSET " + d.placeholder(len(args)+2)

	listArgs = make([]any, 0, len(args)+2)
	listArgs = append(listArgs, args...)
	listArgs = append(listArgs, q.Limit, q.Offset)
	return countSQL, listSQL, args, listArgs, nil
}

// findOneSQL строит запрос первого совпадения
func findOneSQL(d dialect, preds []search.Predicate) (string, []any, error) {
	where, args, err := compileWhere(d, preds)
	if err != nil {
		return "", nil, err
	}
	return selectProperties + where + orderDetail + " LIMIT 1", args, nil
}

func placeholders(d dialect, n int) string {
	phs := make([]string, n)
	for i := range phs {
		phs[i] = d.placeholder(i + 1)
	}
	return "(" + strings.Join(phs, ", ") + ")"
}

func insertPropertySQL(d dialect) string {
	return `INSERT INTO properties (
		id, slug, title, property_type, listing_type, price,
		bedrooms, bathrooms, garages, area,
		address, city, state, zip_code,
		description, features, featured_image_id, status, featured,
		published_at, created_at, updated_at
	) VALUES ` + placeholders(d, 22)
}

func propertyArgs(d dialect, p *models.Property) ([]any, error) {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return nil, fmt.Errorf("storage: encode features: %w", err)
	}

	var description []byte
	if len(p.Description) > 0 {
		description = p.Description
	}

	var featuredImageID any
	if p.FeaturedImage != nil {
		featuredImageID = p.FeaturedImage.ID
	}

	var publishedAt any
	if p.PublishedAt != nil {
		publishedAt = p.PublishedAt.UTC()
	}

	return []any{
		p.ID, p.Slug, p.Title, string(p.PropertyType), string(p.ListingType), p.Price,
		p.Bedrooms, p.Bathrooms, p.Garages, p.Area,
		p.Address, p.City, p.State, p.ZipCode,
		d.jsonArg(description), d.jsonArg(features), featuredImageID, string(p.Status), p.Featured,
		publishedAt, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	}, nil
}

func insertGallerySQL(d dialect) string {
	return `INSERT INTO property_gallery (property_id, media_id, position) VALUES ` + placeholders(d, 3)
}

func insertMediaSQL(d dialect) string {
	return `INSERT INTO media (id, public_id, alt, filename, mime_type, width, height, created_at) VALUES ` + placeholders(d, 8)
}

func mediaArgs(m *models.Media) []any {
	return []any{m.ID, m.PublicID, m.Alt, m.Filename, m.MimeType, m.Width, m.Height, m.CreatedAt.UTC()}
}

// scanner - общее у pgx.Row, pgx.Rows, *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(row scanner) (models.Property, error) {
	var (
		p                               models.Property
		propertyType, listingType, stat string
		description, features           []byte

		mediaID                           *uuid.UUID
		publicID, alt, filename, mimeType *string
		width, height                     *int
		mediaCreatedAt                    *time.Time
	)

	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &propertyType, &listingType, &p.Price,
		&p.Bedrooms, &p.Bathrooms, &p.Garages, &p.Area,
		&p.Address, &p.City, &p.State, &p.ZipCode,
		&description, &features, &stat, &p.Featured,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&mediaID, &publicID, &alt, &filename, &mimeType, &width, &height, &mediaCreatedAt,
	)
	if err != nil {
		return models.Property{}, err
	}

	p.PropertyType = models.PropertyType(propertyType)
	p.ListingType = models.ListingType(listingType)
	p.Status = models.Status(stat)
	if len(description) > 0 {
		p.Description = json.RawMessage(description)
	}
	p.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return models.Property{}, fmt.Errorf("storage: decode features of %s: %w", p.Slug, err)
		}
	}

	if mediaID != nil {
		p.FeaturedImage = &models.Media{
			ID:       *mediaID,
			PublicID: deref(publicID),
			Alt:      deref(alt),
			Filename: deref(filename),
			MimeType: deref(mimeType),
			Width:    width,
			Height:   height,
		}
		if mediaCreatedAt != nil {
			p.FeaturedImage.CreatedAt = *mediaCreatedAt
		}
	}
	return p, nil
}

func scanMedia(row scanner) (models.Media, error) {
	var m models.Media
	err := row.Scan(&m.ID, &m.PublicID, &m.Alt, &m.Filename, &m.MimeType, &m.Width, &m.Height, &m.CreatedAt)
	return m, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
