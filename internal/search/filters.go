package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Key - распознаваемый параметр строки запроса каталога
type Key string

const (
	KeyPropertyType Key = "propertyType"
	KeyListingType  Key = "listingType"
	KeyMinPrice     Key = "minPrice"
	KeyMaxPrice     Key = "maxPrice"
	KeyBedrooms     Key = "bedrooms"
	KeyBathrooms    Key = "bathrooms"
	KeyCity         Key = "city"
	KeyPage         Key = "page"
)

// Keys перечисляет все распознаваемые параметры
var Keys = []Key{
	KeyPropertyType,
	KeyListingType,
	KeyMinPrice,
	KeyMaxPrice,
	KeyBedrooms,
	KeyBathrooms,
	KeyCity,
	KeyPage,
}

// All - значение селектора "любой", равносильное отсутствию фильтра
const All = "all"

// Filters - типизированное состояние фильтров, разобранное из строки запроса.
// Пустая строка или nil означают "без ограничения".
type Filters struct {
	PropertyType string
	ListingType  string
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *float64
	Bathrooms    *float64
	Page         int
}

// Parse разбирает параметры запроса. Некорректные числа считаются отсутствующими,
// страница по умолчанию - 1. Неизвестные параметры игнорируются.
func Parse(values url.Values) Filters {
	f := Filters{
		PropertyType: typeValue(values, KeyPropertyType),
		ListingType:  typeValue(values, KeyListingType),
		MinPrice:     numberValue(values, KeyMinPrice),
		MaxPrice:     numberValue(values, KeyMaxPrice),
		Bedrooms:     numberValue(values, KeyBedrooms),
		Bathrooms:    numberValue(values, KeyBathrooms),
		Page:         1,
	}
	f.City, _ = single(values, KeyCity)

	if raw, ok := single(values, KeyPage); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Page = n
		}
	}
	return f
}

// ParseQuery разбирает сырую строку запроса. Ошибки декодирования не прерывают
// разбор: всё, что удалось прочитать, используется.
func ParseQuery(rawQuery string) Filters {
	values, _ := url.ParseQuery(rawQuery)
	return Parse(values)
}

// single возвращает значение параметра, только если он передан ровно один раз
// и не пуст после обрезки пробелов
func single(values url.Values, key Key) (string, bool) {
	raw, ok := values[string(key)]
	if !ok || len(raw) != 1 {
		return "", false
	}
	v := strings.TrimSpace(raw[0])
	if v == "" {
		return "", false
	}
	return v, true
}

func typeValue(values url.Values, key Key) string {
	v, ok := single(values, key)
	if !ok || v == All {
		return ""
	}
	return v
}

func numberValue(values url.Values, key Key) *float64 {
	raw, ok := single(values, key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// Get возвращает строковое представление фильтра или "" если он не задан
func (f Filters) Get(key Key) string {
	switch key {
	case KeyPropertyType:
		return f.PropertyType
	case KeyListingType:
		return f.ListingType
	case KeyCity:
		return f.City
	case KeyMinPrice:
		return formatNumber(f.MinPrice)
	case KeyMaxPrice:
		return formatNumber(f.MaxPrice)
	case KeyBedrooms:
		return formatNumber(f.Bedrooms)
	case KeyBathrooms:
		return formatNumber(f.Bathrooms)
	case KeyPage:
		if f.Page > 1 {
			return strconv.Itoa(f.Page)
		}
	}
	return ""
}

func formatNumber(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}

// Values кодирует состояние обратно в параметры запроса. В результат попадают
// только заданные фильтры, отличные от "all"; страница - только если она больше 1.
func (f Filters) Values() url.Values {
	values := url.Values{}
	for _, key := range Keys {
		if v := f.Get(key); v != "" && v != All {
			values.Set(string(key), v)
		}
	}
	return values
}

// Encode возвращает строку запроса для текущего состояния
func (f Filters) Encode() string {
	return f.Values().Encode()
}

// With возвращает новую строку запроса, в которой ключ key заменён на value.
// Пустое значение или "all" удаляют ключ. Любое изменение, кроме смены страницы,
// сбрасывает пагинацию на первую страницу.
func (f Filters) With(key Key, value string) string {
	values := f.Values()
	if !known(key) {
		return values.Encode()
	}

	value = strings.TrimSpace(value)
	if value != "" && value != All && !(key == KeyPage && firstPage(value)) {
		values.Set(string(key), value)
	} else {
		values.Del(string(key))
	}

	if key != KeyPage {
		values.Del(string(KeyPage))
	}
	return values.Encode()
}

// Without возвращает строку запроса без фильтра key (и без номера страницы)
func (f Filters) Without(key Key) string {
	return f.With(key, "")
}

// Active сообщает, задан ли хотя бы один фильтр, кроме страницы
func (f Filters) Active() bool {
	for _, key := range Keys {
		if key != KeyPage && f.Get(key) != "" {
			return true
		}
	}
	return false
}

func known(key Key) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func firstPage(value string) bool {
	n, err := strconv.Atoi(value)
	return err == nil && n <= 1
}
