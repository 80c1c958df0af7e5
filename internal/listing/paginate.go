package listing

import (
	"gorm.io/gorm"
)

// Page is one slice of a list result.
type Page[T any] struct {
	Items    []T
	Number   int
	PerPage  int
	NumPages int
	Total    int64
}

func (p *Page[T]) HasPrev() bool { return p.Number > 1 }
func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }
func (p *Page[T]) Prev() int     { return p.Number - 1 }
func (p *Page[T]) Next() int     { return p.Number + 1 }

// StartIndex is the 1-based position of the first item, 0 on an empty page.
func (p *Page[T]) StartIndex() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64(p.Number-1)*int64(p.PerPage) + 1
}

func (p *Page[T]) EndIndex() int64 {
	if len(p.Items) == 0 {
		return 0
	}
	return p.StartIndex() + int64(len(p.Items)) - 1
}

// ClampPage moves page into [1, numPages]. There is always at least one page.
func ClampPage(page int, total int64, perPage int) (number, numPages int) {
	numPages = int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	switch {
	case page < 1:
		page = 1
	case page > numPages:
		page = numPages
	}
	return page, numPages
}

// Paginate counts the filtered query, then loads the requested page in the
// requested order. q must already carry hub scope and search filters.
func Paginate[T any](q *gorm.DB, s Spec, p Params, preload ...string) (*Page[T], error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	number, numPages := ClampPage(p.Page, total, p.PerPage)
	page := &Page[T]{
		Items:    make([]T, 0, p.PerPage),
		Number:   number,
		PerPage:  p.PerPage,
		NumPages: numPages,
		Total:    total,
	}
	if total == 0 {
		return page, nil
	}

	find := s.Order(q, p)
	for _, assoc := range preload {
		find = find.Preload(assoc)
	}
	if err := find.Offset((number - 1) * p.PerPage).Limit(p.PerPage).Find(&page.Items).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// All loads the whole filtered query in the requested order. Exports use it.
func All[T any](q *gorm.DB, s Spec, p Params, preload ...string) ([]T, error) {
	find := s.Order(q.Session(&gorm.Session{}), p)
	for _, assoc := range preload {
		find = find.Preload(assoc)
	}
	items := make([]T, 0)
	if err := find.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
