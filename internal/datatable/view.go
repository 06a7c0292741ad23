package datatable

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"slices"
	"strings"

	"github.com/simp-lee/parkadmin/internal/domain"
)

//go:embed table.html
var tableHTML string

var viewTemplate = template.Must(template.New("table").Parse(tableHTML))

// Pagination is the slice of the page-prop contract the footer renders.
type Pagination struct {
	From  int
	To    int
	Total int64
	Links []domain.PageLink
}

// PaginationOf extracts the footer data from a page.
func PaginationOf[T any](p *domain.Page[T]) Pagination {
	if p == nil {
		return Pagination{}
	}
	return Pagination{From: p.From, To: p.To, Total: p.Total, Links: p.Links}
}

// Summary is the footer text, e.g. "Showing 1 to 10 of 37 entries".
func (p Pagination) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", p.From, p.To, p.Total)
}

// PageButton is one rendered pagination control.
type PageButton struct {
	Label    string
	URL      string
	Active   bool
	Disabled bool
}

// Buttons maps every backend link onto a button. A link is disabled when it
// has no URL or is the current page.
func (p Pagination) Buttons() []PageButton {
	out := make([]PageButton, 0, len(p.Links))
	for _, l := range p.Links {
		out = append(out, PageButton{
			Label:    l.Label,
			URL:      l.URL,
			Active:   l.Active,
			Disabled: l.URL == "" || l.Active,
		})
	}
	return out
}

// View composes a table with its chrome. Every interactive control is a
// plain link (or GET form) back to BaseURL carrying the next table state, so
// the page handler stays the only place that reacts to user input.
type View[T Row] struct {
	ID          string
	Table       *Table[T]
	BaseURL     string
	Query       url.Values
	CreateURL   string
	CreateLabel string
	Pagination  Pagination
}

type menuItem struct {
	Label  string
	URL    string
	Active bool
}

type headerView struct {
	HeaderCell
	URL string
}

type hiddenInput struct {
	Name  string
	Value string
}

type viewData struct {
	ID            string
	BaseURL       string
	SearchEnabled bool
	Search        string
	SearchHidden  []hiddenInput
	StatusItems   []menuItem
	ColumnItems   []menuItem
	CreateURL     string
	CreateLabel   string
	Selectable    bool
	AllSelected   bool
	SelectAllURL  string
	SelectedCount int
	Headers       []headerView
	Rows          []rowView
	Summary       string
	Buttons       []PageButton
}

type rowView struct {
	BodyRow
	ToggleURL string
}

// HTML renders the composed view.
func (v View[T]) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := viewTemplate.Execute(&buf, v.data()); err != nil {
		return "", fmt.Errorf("render table %q: %w", v.ID, err)
	}
	return template.HTML(buf.String()), nil
}

func (v View[T]) data() viewData {
	t := v.Table
	state := t.State()
	id := v.ID
	if id == "" {
		id = "data-table"
	}

	d := viewData{
		ID:            id,
		BaseURL:       v.BaseURL,
		SearchEnabled: t.SearchEnabled(),
		Search:        state.Search,
		CreateURL:     v.CreateURL,
		CreateLabel:   v.CreateLabel,
		Selectable:    t.Selectable(),
		SelectedCount: len(t.Selected()),
		Summary:       v.Pagination.Summary(),
		Buttons:       v.Pagination.Buttons(),
	}
	if d.CreateURL != "" && d.CreateLabel == "" {
		d.CreateLabel = "Create"
	}

	if d.SearchEnabled {
		searchless := state.clone()
		searchless.Search = ""
		q := searchless.Encode(v.Query)
		q.Del("page")
		for name, values := range q {
			for _, val := range values {
				d.SearchHidden = append(d.SearchHidden, hiddenInput{Name: name, Value: val})
			}
		}
		slices.SortStableFunc(d.SearchHidden, func(a, b hiddenInput) int { return strings.Compare(a.Name, b.Name) })
	}

	if sf := t.StatusFilter(); sf != nil {
		for _, opt := range sf.Options {
			next := state.clone()
			next.Status = opt.Value
			d.StatusItems = append(d.StatusItems, menuItem{
				Label:  opt.Label,
				URL:    v.link(next, true),
				Active: state.Status == opt.Value,
			})
		}
	}

	for _, c := range t.Columns() {
		if !c.IsHideable() {
			continue
		}
		next := state.clone()
		if next.Hidden[c.ID] {
			delete(next.Hidden, c.ID)
		} else {
			next.Hidden[c.ID] = true
		}
		d.ColumnItems = append(d.ColumnItems, menuItem{
			Label:  c.Header,
			URL:    v.link(next, false),
			Active: t.IsVisible(c.ID),
		})
	}

	for _, h := range t.HeaderCells() {
		hv := headerView{HeaderCell: h}
		if h.Sortable {
			next := state.clone()
			next.Sort = nextSort(state.Sort, h.ID)
			hv.URL = v.link(next, true)
		}
		d.Headers = append(d.Headers, hv)
	}

	rows := t.Rows()
	d.AllSelected = len(rows) > 0
	for _, r := range rows {
		if !state.Selected[r.RowID()] {
			d.AllSelected = false
			break
		}
	}
	all := state.clone()
	if d.AllSelected {
		all.Selected = map[uint]bool{}
	} else {
		for _, r := range rows {
			all.Selected[r.RowID()] = true
		}
	}
	d.SelectAllURL = v.link(all, false)

	for _, br := range t.Body() {
		rv := rowView{BodyRow: br}
		if !br.Empty {
			next := state.clone()
			if next.Selected[br.ID] {
				delete(next.Selected, br.ID)
			} else {
				next.Selected[br.ID] = true
			}
			rv.ToggleURL = v.link(next, false)
		}
		d.Rows = append(d.Rows, rv)
	}
	return d
}

// link encodes next into a URL. Changes that alter the row set reset the
// page.
func (v View[T]) link(next State, resetPage bool) string {
	q := next.Encode(v.Query)
	if resetPage {
		q.Del("page")
	}
	if len(q) == 0 {
		return v.BaseURL
	}
	return v.BaseURL + "?" + q.Encode()
}
