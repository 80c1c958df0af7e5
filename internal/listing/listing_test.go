package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type query map[string]string

func (q query) Query(key string, defaultValue ...string) string {
	if v, ok := q[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

var testSpec = Spec{
	Table:         "things",
	SearchColumns: []string{"things.name"},
	SortColumns: map[string]string{
		"name":       "things.name",
		"created_at": "things.created_at",
	},
	DefaultSort: "name",
}

func TestParse_Defaults(t *testing.T) {
	p := testSpec.Parse(query{})

	assert.Equal(t, Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: DefaultPerPage, View: ViewTable}, p)
	assert.Equal(t, testSpec.Defaults(), p)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   query
		want Params
	}{
		{
			name: "all valid",
			in:   query{"q": "  sea  ", "sort": "created_at", "dir": "desc", "page": "3", "per_page": "50", "view": "cards"},
			want: Params{Query: "sea", Sort: "created_at", Dir: DirDesc, Page: 3, PerPage: 50, View: ViewCards},
		},
		{
			name: "unknown sort falls back",
			in:   query{"sort": "password_hash"},
			want: Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: 10, View: ViewTable},
		},
		{
			name: "odd direction is ascending",
			in:   query{"dir": "DESC"},
			want: Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: 10, View: ViewTable},
		},
		{
			name: "per page outside choices",
			in:   query{"per_page": "7"},
			want: Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: 10, View: ViewTable},
		},
		{
			name: "non numeric page and per page",
			in:   query{"page": "two", "per_page": "lots"},
			want: Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: 10, View: ViewTable},
		},
		{
			name: "negative page is kept for clamping",
			in:   query{"page": "-4"},
			want: Params{Sort: "name", Dir: DirAsc, Page: -4, PerPage: 10, View: ViewTable},
		},
		{
			name: "unknown view",
			in:   query{"view": "grid"},
			want: Params{Sort: "name", Dir: DirAsc, Page: 1, PerPage: 10, View: ViewTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testSpec.Parse(tt.in))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestValues_DropsDefaults(t *testing.T) {
	assert.Equal(t, "sort=name", testSpec.Defaults().Values().Encode())

	p := Params{Query: "a b", Sort: "created_at", Dir: DirDesc, Page: 2, PerPage: 25, View: ViewCards}
	assert.Equal(t, "dir=desc&page=2&per_page=25&q=a+b&sort=created_at&view=cards", p.Values().Encode())
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, perPage      int
		total              int64
		wantNumber, wantOf int
	}{
		{page: 1, total: 0, perPage: 10, wantNumber: 1, wantOf: 1},
		{page: 5, total: 0, perPage: 10, wantNumber: 1, wantOf: 1},
		{page: 0, total: 25, perPage: 10, wantNumber: 1, wantOf: 3},
		{page: -2, total: 25, perPage: 10, wantNumber: 1, wantOf: 3},
		{page: 2, total: 25, perPage: 10, wantNumber: 2, wantOf: 3},
		{page: 9, total: 25, perPage: 10, wantNumber: 3, wantOf: 3},
		{page: 2, total: 20, perPage: 10, wantNumber: 2, wantOf: 2},
	}
	for _, tt := range tests {
		number, numPages := ClampPage(tt.page, tt.total, tt.perPage)
		assert.Equal(t, tt.wantNumber, number, "page %d of %d rows", tt.page, tt.total)
		assert.Equal(t, tt.wantOf, numPages, "page %d of %d rows", tt.page, tt.total)
	}
}

func TestPageIndexes(t *testing.T) {
	p := &Page[int]{Items: []int{1, 2, 3}, Number: 3, PerPage: 10, NumPages: 3, Total: 23}
	assert.Equal(t, int64(21), p.StartIndex())
	assert.Equal(t, int64(23), p.EndIndex())
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, 2, p.Prev())

	empty := &Page[int]{Items: []int{}, Number: 1, PerPage: 10, NumPages: 1}
	assert.Equal(t, int64(0), empty.StartIndex())
	assert.Equal(t, int64(0), empty.EndIndex())
	assert.False(t, empty.HasPrev())
	assert.False(t, empty.HasNext())
}
