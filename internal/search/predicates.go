package search

import (
	"fmt"
	"strings"

	"github.com/rajivgeraev/realty-api/internal/models"
)

// Field - поле объекта, по которому можно строить условие
type Field string

const (
	FieldStatus       Field = "status"
	FieldSlug         Field = "slug"
	FieldPropertyType Field = "property_type"
	FieldListingType  Field = "listing_type"
	FieldPrice        Field = "price"
	FieldBedrooms     Field = "bedrooms"
	FieldBathrooms    Field = "bathrooms"
	FieldCity         Field = "city"
	FieldFeatured     Field = "featured"
)

// Op - оператор сравнения
type Op string

const (
	OpEquals           Op = "equals"
	OpGreaterThanEqual Op = "greater_than_equal"
	OpLessThanEqual    Op = "less_than_equal"
	OpContains         Op = "contains"
)

// Predicate - одно условие на поле. Список условий объединяется через AND.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
}

// Published - обязательное условие "только опубликованные"
func Published() Predicate {
	return Predicate{Field: FieldStatus, Op: OpEquals, Value: string(models.StatusPublished)}
}

// Build переводит фильтры в упорядоченный список условий. Первым всегда идёт
// условие публикации, дальше - в фиксированном порядке полей.
func Build(f Filters) []Predicate {
	preds := []Predicate{Published()}

	if f.PropertyType != "" {
		preds = append(preds, Predicate{Field: FieldPropertyType, Op: OpEquals, Value: f.PropertyType})
	}
	if f.ListingType != "" {
		preds = append(preds, Predicate{Field: FieldListingType, Op: OpEquals, Value: f.ListingType})
	}
	if bound(f.MinPrice) {
		preds = append(preds, Predicate{Field: FieldPrice, Op: OpGreaterThanEqual, Value: *f.MinPrice})
	}
	if bound(f.MaxPrice) {
		preds = append(preds, Predicate{Field: FieldPrice, Op: OpLessThanEqual, Value: *f.MaxPrice})
	}
	if bound(f.Bedrooms) {
		preds = append(preds, Predicate{Field: FieldBedrooms, Op: OpGreaterThanEqual, Value: *f.Bedrooms})
	}
	if bound(f.Bathrooms) {
		preds = append(preds, Predicate{Field: FieldBathrooms, Op: OpGreaterThanEqual, Value: *f.Bathrooms})
	}
	if f.City != "" {
		preds = append(preds, Predicate{Field: FieldCity, Op: OpContains, Value: f.City})
	}

	return preds
}

// bound: нулевая граница не даёт условия (так же ведёт себя исходный сайт)
func bound(v *float64) bool {
	return v != nil && *v != 0
}

// DetailPredicates ищет объект по точному slug. Черновики видны только редакторам.
func DetailPredicates(slug string, includeDrafts bool) []Predicate {
	preds := []Predicate{{Field: FieldSlug, Op: OpEquals, Value: slug}}
	if !includeDrafts {
		preds = append(preds, Published())
	}
	return preds
}

// FeaturedPredicates - условия для блока избранных объектов на главной
func FeaturedPredicates(f Filters) []Predicate {
	preds := []Predicate{
		Published(),
		{Field: FieldFeatured, Op: OpEquals, Value: true},
	}
	if f.PropertyType != "" {
		preds = append(preds, Predicate{Field: FieldPropertyType, Op: OpEquals, Value: f.PropertyType})
	}
	if f.ListingType != "" {
		preds = append(preds, Predicate{Field: FieldListingType, Op: OpEquals, Value: f.ListingType})
	}
	return preds
}

// Matches проверяет условие на объекте в памяти. Пустое числовое поле
// не удовлетворяет никакой границе.
func (p Predicate) Matches(prop *models.Property) bool {
	switch p.Op {
	case OpEquals:
		if p.Field == FieldFeatured {
			want, ok := p.Value.(bool)
			return ok && prop.Featured == want
		}
		got, ok := textField(prop, p.Field)
		want, vok := p.Value.(string)
		return ok && vok && got == want
	case OpContains:
		got, ok := textField(prop, p.Field)
		want, vok := p.Value.(string)
		return ok && vok && strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case OpGreaterThanEqual, OpLessThanEqual:
		got, ok := numberField(prop, p.Field)
		want, vok := toFloat(p.Value)
		if !ok || !vok {
			return false
		}
		if p.Op == OpGreaterThanEqual {
			return got >= want
		}
		return got <= want
	}
	return false
}

// MatchesAll проверяет конъюнкцию условий
func MatchesAll(preds []Predicate, prop *models.Property) bool {
	for _, p := range preds {
		if !p.Matches(prop) {
			return false
		}
	}
	return true
}

func textField(prop *models.Property, field Field) (string, bool) {
	switch field {
	case FieldStatus:
		return string(prop.Status), true
	case FieldSlug:
		return prop.Slug, true
	case FieldPropertyType:
		return string(prop.PropertyType), true
	case FieldListingType:
		return string(prop.ListingType), true
	case FieldCity:
		return prop.City, true
	}
	return "", false
}

func numberField(prop *models.Property, field Field) (float64, bool) {
	switch field {
	case FieldPrice:
		return prop.Price, true
	case FieldBedrooms:
		if prop.Bedrooms != nil {
			return float64(*prop.Bedrooms), true
		}
	case FieldBathrooms:
		if prop.Bathrooms != nil {
			return *prop.Bathrooms, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
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
