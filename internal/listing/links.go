package listing

// Links builds list URLs that keep the current search, sort and page size.
type Links struct {
	Base   string
	Params Params
}

func (l Links) with(p Params) string {
	q := p.Values().Encode()
	if q == "" {
		return l.Base
	}
	return l.Base + "?" + q
}

// Page links to page n.
func (l Links) Page(n int) string {
	p := l.Params
	p.Page = n
	return l.with(p)
}

// Sort links to the list sorted by key, flipping the direction when key is
// already the sort key. The page resets to 1.
func (l Links) Sort(key string) string {
	p := l.Params
	p.Page = 1
	if p.Sort == key && p.Dir == DirAsc {
		p.Dir = DirDesc
	} else {
		p.Dir = DirAsc
	}
	p.Sort = key
	return l.with(p)
}

// SortMark is the arrow shown next to the active sort column.
func (l Links) SortMark(key string) string {
	if l.Params.Sort != key {
		return ""
	}
	if l.Params.Dir == DirDesc {
		return "↓"
	}
	return "↑"
}

func (l Links) PerPage(n int) string {
	p := l.Params
	p.Page = 1
	p.PerPage = n
	return l.with(p)
}

func (l Links) View(view string) string {
	p := l.Params
	p.View = view
	return l.with(p)
}

// Export links to a download of the current filter and sort, all pages.
func (l Links) Export(format string) string {
	p := l.Params
	p.Page = 1
	v := p.Values()
	v.Del("page")
	v.Set("export", format)
	return l.Base + "?" + v.Encode()
}
