package datatable

import (
	"net/url"
	"strings"
	"testing"

	"github.com/simp-lee/parkadmin/internal/domain"
)

func TestPaginationSummary(t *testing.T) {
	p := Pagination{From: 1, To: 10, Total: 37}
	if got := p.Summary(); got != "Showing 1 to 10 of 37 entries" {
		t.Errorf("Summary() = %q", got)
	}
	if got := (Pagination{}).Summary(); got != "Showing 0 to 0 of 0 entries" {
		t.Errorf("empty Summary() = %q", got)
	}
}

func TestPaginationButtons(t *testing.T) {
	p := Pagination{Links: []domain.PageLink{
		{URL: "", Label: "« Previous"},
		{URL: "/drivers?page=1", Label: "1", Active: true},
		{URL: "/drivers?page=2", Label: "2"},
		{URL: "", Label: "..."},
		{URL: "/drivers?page=2", Label: "Next »"},
	}}

	want := []bool{true, true, false, true, false}
	buttons := p.Buttons()
	if len(buttons) != len(want) {
		t.Fatalf("buttons = %d; want %d", len(buttons), len(want))
	}
	for i, b := range buttons {
		if b.Disabled != want[i] {
			t.Errorf("button %q disabled = %v; want %v", b.Label, b.Disabled, want[i])
		}
	}
}

func TestPaginationOf(t *testing.T) {
	page := &domain.Page[street]{From: 11, To: 20, Total: 37, Links: []domain.PageLink{{Label: "1"}}}
	p := PaginationOf(page)
	if p.From != 11 || p.To != 20 || p.Total != 37 || len(p.Links) != 1 {
		t.Errorf("PaginationOf() = %+v", p)
	}
	if got := PaginationOf[street](nil); got.Total != 0 {
		t.Errorf("PaginationOf(nil) = %+v", got)
	}
}

func renderView(t *testing.T, v View[street]) string {
	t.Helper()
	html, err := v.HTML()
	if err != nil {
		t.Fatalf("HTML(): %v", err)
	}
	return string(html)
}

func TestViewRendersChrome(t *testing.T) {
	q := url.Values{"q": {"main"}, "page": {"2"}}
	v := View[street]{
		ID:          "streets-table",
		Table:       newStreetTable(ParseState(q)),
		BaseURL:     "/streets",
		Query:       q,
		CreateURL:   "/streets/new",
		CreateLabel: "New Street",
		Pagination: Pagination{From: 1, To: 10, Total: 37, Links: []domain.PageLink{
			{URL: "", Label: "« Previous"},
			{URL: "/streets?page=1", Label: "1", Active: true},
			{URL: "/streets?page=2", Label: "2"},
		}},
	}
	out := renderView(t, v)

	for _, want := range []string{
		`id="streets-table"`,
		`name="q" value="main"`,
		`href="/streets/new"`,
		"New Street",
		"Showing 1 to 10 of 37 entries",
		`hx-get="/streets?page=2"`,
		"Main Street",
		"<summary>Status</summary>",
		"<summary>Columns</summary>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Baker Street") {
		t.Error("search filter not applied to rendered rows")
	}
	if strings.Contains(out, `name="page"`) {
		t.Error("search form must reset the page")
	}
}

func TestViewOmitsCreateWithoutURL(t *testing.T) {
	out := renderView(t, View[street]{Table: newStreetTable(NewState()), BaseURL: "/streets"})
	if strings.Contains(out, "data-table-create") {
		t.Error("create button rendered without a create URL")
	}
}

func TestViewOmitsSearchWithoutKey(t *testing.T) {
	tbl := New(Config[street]{Columns: streetColumns(nil), Data: sampleStreets()}, NewState())
	out := renderView(t, View[street]{Table: tbl, BaseURL: "/streets"})
	if strings.Contains(out, `type="search"`) {
		t.Error("search box rendered without a search key")
	}
}

func TestViewSortLinksCycle(t *testing.T) {
	tbl := newStreetTable(ParseState(url.Values{"sort": {"name:asc"}}))
	out := renderView(t, View[street]{Table: tbl, BaseURL: "/streets", Query: url.Values{"sort": {"name:asc"}}})
	if !strings.Contains(out, `href="/streets?sort=name%3Adesc"`) {
		t.Errorf("sort header link should advance to desc:\n%s", out)
	}
	if !strings.Contains(out, `aria-sort="ascending"`) {
		t.Error("active sort not marked on header")
	}
}

func TestViewEmptyState(t *testing.T) {
	tbl := New(Config[street]{Columns: streetColumns(nil), EmptyMessage: "No drivers found."}, NewState())
	out := renderView(t, View[street]{Table: tbl, BaseURL: "/drivers"})

	if strings.Count(out, "<tr") != 1 {
		t.Errorf("want exactly one row in empty table:\n%s", out)
	}
	if !strings.Contains(out, `<td colspan="5">No drivers found.</td>`) {
		t.Errorf("empty cell not rendered with full colspan:\n%s", out)
	}
	if strings.Contains(out, "<thead>") {
		t.Error("header grid rendered for empty table")
	}
}
