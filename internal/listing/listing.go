// Package listing turns list request parameters into a filtered, ordered
// and paginated query. Bad input never fails: every parameter falls back to
// its default.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PerPageChoices are the page sizes a list accepts.
var PerPageChoices = []int{10, 25, 50, 100}

const (
	DefaultPerPage = 10

	DirAsc  = "asc"
	DirDesc = "desc"

	ViewTable = "table"
	ViewCards = "cards"
)

// Spec describes one entity's list: which columns the search text matches
// and which sort keys are allowed. Column names are table qualified.
//
// SearchExprs are extra OR-ed conditions with a single ? for the lowered
// LIKE pattern, for matches that reach into related tables.
type Spec struct {
	Table         string
	SearchColumns []string
	SearchExprs   []string
	SortColumns   map[string]string
	DefaultSort   string
}

// LikeExpr is the search condition for one column.
func LikeExpr(col string) string {
	return "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
}

// Params is a validated list request.
type Params struct {
	Query   string
	Sort    string
	Dir     string
	Page    int
	PerPage int
	View    string
}

// Getter is the part of a request Parse reads from. *fiber.Ctx satisfies it.
type Getter interface {
	Query(key string, defaultValue ...string) string
}

// Defaults is the state a list opens in, and the state every mutation
// re-renders.
func (s Spec) Defaults() Params {
	return Params{
		Sort:    s.DefaultSort,
		Dir:     DirAsc,
		Page:    1,
		PerPage: DefaultPerPage,
		View:    ViewTable,
	}
}

// Parse reads q, sort, dir, page, per_page and view.
func (s Spec) Parse(g Getter) Params {
	p := s.Defaults()

	p.Query = strings.TrimSpace(g.Query("q"))

	if sort := g.Query("sort"); sort != "" {
		if _, ok := s.SortColumns[sort]; ok {
			p.Sort = sort
		}
	}
	if g.Query("dir") == DirDesc {
		p.Dir = DirDesc
	}
	if page, err := strconv.Atoi(strings.TrimSpace(g.Query("page"))); err == nil {
		p.Page = page
	}
	if perPage, err := strconv.Atoi(strings.TrimSpace(g.Query("per_page"))); err == nil && validPerPage(perPage) {
		p.PerPage = perPage
	}
	if g.Query("view") == ViewCards {
		p.View = ViewCards
	}
	return p
}

func validPerPage(n int) bool {
	for _, c := range PerPageChoices {
		if c == n {
			return true
		}
	}
	return false
}

// Filter applies the search text.
func (s Spec) Filter(q *gorm.DB, p Params) *gorm.DB {
	if p.Query == "" {
		return q
	}
	conds := make([]string, 0, len(s.SearchColumns)+len(s.SearchExprs))
	for _, col := range s.SearchColumns {
		conds = append(conds, LikeExpr(col))
	}
	conds = append(conds, s.SearchExprs...)
	if len(conds) == 0 {
		return q
	}

	pattern := "%" + escapeLike(strings.ToLower(p.Query)) + "%"
	args := make([]any, len(conds))
	for i := range args {
		args[i] = pattern
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// Order applies the sort key and direction, with the primary key as a
// tiebreaker so pages are stable.
func (s Spec) Order(q *gorm.DB, p Params) *gorm.DB {
	col, ok := s.SortColumns[p.Sort]
	if !ok {
		col = s.SortColumns[s.DefaultSort]
	}
	if p.Dir == DirDesc {
		col += " DESC"
	}
	return q.Order(col).Order(s.Table + ".id")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Values encodes p as query parameters, dropping defaults.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.Dir == DirDesc {
		v.Set("dir", DirDesc)
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != DefaultPerPage {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.View != ViewTable {
		v.Set("view", p.View)
	}
	return v
}
