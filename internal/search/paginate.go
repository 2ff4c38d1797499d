package search

import (
	"context"
	"math"

	"github.com/rajivgeraev/realty-api/internal/models"
)

// PageSize - фиксированный размер страницы каталога
const PageSize = 12

// maxPage ограничивает номер страницы при вычислении смещения, чтобы
// (page-1)*size не переполнился. Такие страницы всё равно пусты.
const maxPage = math.MaxInt32

// Query - запрос к хранилищу. Сортировка фиксирована: сначала новые,
// при равной дате - в порядке добавления.
type Query struct {
	Predicates []Predicate
	Limit      int
	Offset     int
}

// Result - найденные объекты и общее число совпадений
type Result struct {
	Docs      []models.Property
	TotalDocs int
}

// Finder - хранилище, умеющее искать по списку условий
type Finder interface {
	Find(ctx context.Context, q Query) (Result, error)
}

// PageInfo - метаданные страницы для клиента
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalDocs   int  `json:"totalDocs"`
	TotalPages  int  `json:"totalPages"`
	HasPrevPage bool `json:"hasPrevPage"`
	HasNextPage bool `json:"hasNextPage"`
	PrevPage    *int `json:"prevPage"`
	NextPage    *int `json:"nextPage"`
}

// Page - одна страница результатов
type Page struct {
	Docs []models.Property
	PageInfo
}

// Paginate считает метаданные страницы. Страниц всегда не меньше одной,
// номер страницы ограничен снизу единицей, сверху не ограничен.
func Paginate(totalDocs, page, pageSize int) PageInfo {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}
	if totalDocs < 0 {
		totalDocs = 0
	}

	totalPages := (totalDocs + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	info := PageInfo{
		Page:        page,
		PageSize:    pageSize,
		TotalDocs:   totalDocs,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
	if info.HasPrevPage {
		// за последней страницей "назад" ведёт на последнюю, а не в пустоту
		prev := min(page-1, totalPages)
		info.PrevPage = &prev
	}
	if info.HasNextPage {
		next := page + 1
		info.NextPage = &next
	}
	return info
}

// Offset возвращает смещение первой записи страницы
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return (page - 1) * pageSize
}

// FindPage выполняет один запрос к хранилищу и возвращает запрошенную страницу.
// Страница за пределами результатов возвращается пустой, без ошибки.
func FindPage(ctx context.Context, f Finder, preds []Predicate, page, pageSize int) (Page, error) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}

	res, err := f.Find(ctx, Query{
		Predicates: preds,
		Limit:      pageSize,
		Offset:     Offset(page, pageSize),
	})
	if err != nil {
		return Page{}, err
	}

	docs := res.Docs
	if docs == nil {
		docs = []models.Property{}
	}
	return Page{Docs: docs, PageInfo: Paginate(res.TotalDocs, page, pageSize)}, nil
}
