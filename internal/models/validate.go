package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProperty оборачивает все ошибки валидации
var ErrInvalidProperty = errors.New("invalid property")

// Validate проверяет объект по правилам схемы коллекции properties
func (p *Property) Validate() error {
	var problems []string

	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		problems = append(problems, "address is required")
	}
	if strings.TrimSpace(p.City) == "" {
		problems = append(problems, "city is required")
	}
	if !p.PropertyType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown property type %q", p.PropertyType))
	}
	if !p.ListingType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown listing type %q", p.ListingType))
	}
	if p.Status != "" && !p.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", p.Status))
	}
	if p.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		problems = append(problems, "bedrooms must not be negative")
	}
	if p.Bathrooms != nil && *p.Bathrooms < 0 {
		problems = append(problems, "bathrooms must not be negative")
	}
	if p.Garages != nil && *p.Garages < 0 {
		problems = append(problems, "garages must not be negative")
	}
	if p.Area != nil && *p.Area < 0 {
		problems = append(problems, "area must not be negative")
	}
	for _, f := range p.Features {
		if _, ok := featureLabels[f]; !ok {
			problems = append(problems, fmt.Sprintf("unknown feature %q", f))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProperty, strings.Join(problems, "; "))
	}
	return nil
}
