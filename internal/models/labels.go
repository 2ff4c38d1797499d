package models

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// featureLabels - допустимые удобства объекта и их подписи
var featureLabels = map[string]string{
	"pool":         "Swimming Pool",
	"garden":       "Garden",
	"garage":       "Garage",
	"ac":           "Air Conditioning",
	"heating":      "Heating",
	"fireplace":    "Fireplace",
	"balcony":      "Balcony",
	"gym":          "Gym",
	"security":     "Security",
	"parking":      "Parking",
	"laundry":      "Laundry",
	"pet-friendly": "Pet Friendly",
}

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FeatureLabel возвращает подпись удобства или сам ключ, если он неизвестен
func FeatureLabel(feature string) string {
	if label, ok := featureLabels[feature]; ok {
		return label
	}
	return feature
}

// Label возвращает тип объекта с заглавной буквы
func (t PropertyType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Label возвращает подпись для бейджа сделки
func (l ListingType) Label() string {
	if l == ListingTypeRent {
		return "For Rent"
	}
	return "For Sale"
}

// PriceLabel форматирует цену в долларах без копеек, для аренды добавляет "/mo".
// Нулевая цена не показывается.
func (p *Property) PriceLabel() string {
	if p.Price == 0 {
		return ""
	}
	formatted := "$" + pricePrinter.Sprintf("%d", int64(math.Round(p.Price)))
	if p.ListingType == ListingTypeRent {
		return formatted + "/mo"
	}
	return formatted
}

// ShortLocation - "город, штат" для карточки
func (p *Property) ShortLocation() string {
	return joinNonEmpty(p.City, p.State)
}

// FullLocation - полный адрес для страницы объекта
func (p *Property) FullLocation() string {
	return joinNonEmpty(p.Address, p.City, p.State, p.ZipCode)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}

// Slugify строит URL-безопасный slug из заголовка: диакритика снимается,
// всё, кроме латиницы и цифр, превращается в дефисы
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
