package datatable

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
)

type zone struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type street struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"is_active"`
	Zone   *zone  `json:"zone,omitempty"`
	Rate   float64
}

func (s street) RowID() uint { return s.ID }

func streetColumns(processing func(uint) bool) []Column[street] {
	return []Column[street]{
		Text("name", "Name", func(s street) any { return s.Name }).Sortable(),
		RelationText[street]("zone.name", "Zone"),
		StatusBadge("is_active", "Status", func(s street) bool { return s.Active }),
		Currency("rate", "Rate", func(s street) float64 { return s.Rate }).Sortable(),
		CRUDActions[street](RowActions{BasePath: "/streets", Noun: "street", Processing: processing}),
	}
}

func sampleStreets() []street {
	return []street{
		{ID: 1, Name: "Main Street", Active: true, Zone: &zone{ID: 1, Name: "Centre"}, Rate: 2.5},
		{ID: 2, Name: "harbour road", Active: false, Rate: 1},
		{ID: 3, Name: "Baker Street", Active: true, Zone: &zone{ID: 2, Name: "North"}, Rate: 3},
	}
}

func ids(rows []street) []uint {
	out := make([]uint, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func newStreetTable(state State) *Table[street] {
	return New(Config[street]{
		Columns:   streetColumns(nil),
		Data:      sampleStreets(),
		SearchKey: "name",
		Status:    DefaultStatusFilter("is_active"),
	}, state)
}

func TestColumnOrderDeterministic(t *testing.T) {
	columnIDs := func() []string {
		var out []string
		for _, c := range streetColumns(func(uint) bool { return false }) {
			out = append(out, c.ID)
		}
		return out
	}

	want := []string{"name", "zone.name", "is_active", "rate", "actions"}
	for i := 0; i < 3; i++ {
		if got := columnIDs(); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: columns = %v; want %v", i, got, want)
		}
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []uint
	}{
		{"empty", "", []uint{1, 2, 3}},
		{"substring", "street", []uint{1, 3}},
		{"case insensitive", "HARBOUR", []uint{2}},
		{"exact value", "Baker Street", []uint{3}},
		{"absent", "boulevard", []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newStreetTable(NewState())
			tbl.SetSearch(tt.search)
			if got := ids(tbl.Rows()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rows() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestSearchEveryRowBySubstring(t *testing.T) {
	for _, s := range sampleStreets() {
		tbl := newStreetTable(NewState())
		tbl.SetSearch(s.Name[1:4])
		found := false
		for _, r := range tbl.Rows() {
			if r.ID == s.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("search %q excluded row %d", s.Name[1:4], s.ID)
		}
	}
}

func TestSearchDisabledWithoutKey(t *testing.T) {
	tbl := New(Config[street]{Columns: streetColumns(nil), Data: sampleStreets()}, NewState())
	if tbl.SearchEnabled() {
		t.Fatal("SearchEnabled() = true without a search key")
	}
	tbl.SetSearch("zzz")
	if got := len(tbl.Rows()); got != 3 {
		t.Errorf("rows = %d; want 3", got)
	}
}

func TestStatusFilter(t *testing.T) {
	unfiltered := ids(newStreetTable(NewState()).Rows())

	tests := []struct {
		value string
		want  []uint
	}{
		{"", unfiltered},
		{"all", unfiltered},
		{"All", unfiltered},
		{"Active", []uint{1, 3}},
		{"inactive", []uint{2}},
		{"unknown", []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			tbl := newStreetTable(NewState())
			tbl.SetStatus(tt.value)
			if got := ids(tbl.Rows()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("status %q: rows = %v; want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestStatusFilterCustomPredicate(t *testing.T) {
	cols := streetColumns(nil)
	cols[1] = cols[1].Filterable(func(s street, v string) bool {
		return v == "zoned" && s.Zone != nil
	})
	tbl := New(Config[street]{
		Columns: cols,
		Data:    sampleStreets(),
		Status:  &StatusFilter{Field: "zone.name", Options: []StatusOption{{Label: "Zoned", Value: "zoned"}}},
	}, NewState())
	tbl.SetStatus("zoned")
	if got := ids(tbl.Rows()); !reflect.DeepEqual(got, []uint{1, 3}) {
		t.Errorf("rows = %v; want [1 3]", got)
	}
}

func TestToggleSortCycle(t *testing.T) {
	tbl := newStreetTable(NewState())

	tbl.ToggleSort("name")
	if d := tbl.SortDirection("name"); d != Asc {
		t.Fatalf("first toggle = %q; want asc", d)
	}
	if got := ids(tbl.Rows()); !reflect.DeepEqual(got, []uint{3, 2, 1}) {
		t.Errorf("asc rows = %v; want [3 2 1]", got)
	}

	tbl.ToggleSort("name")
	if d := tbl.SortDirection("name"); d != Desc {
		t.Fatalf("second toggle = %q; want desc", d)
	}
	if got := ids(tbl.Rows()); !reflect.DeepEqual(got, []uint{1, 2, 3}) {
		t.Errorf("desc rows = %v; want [1 2 3]", got)
	}

	tbl.ToggleSort("name")
	if d := tbl.SortDirection("name"); d != "" {
		t.Fatalf("third toggle = %q; want unsorted", d)
	}
	if got := ids(tbl.Rows()); !reflect.DeepEqual(got, []uint{1, 2, 3}) {
		t.Errorf("unsorted rows = %v; want input order", got)
	}
}

func TestToggleSortIgnoresUnsortable(t *testing.T) {
	tbl := newStreetTable(NewState())
	tbl.ToggleSort("zone.name")
	tbl.ToggleSort("missing")
	if s := tbl.State().Sort; s != (SortState{}) {
		t.Errorf("sort = %+v; want empty", s)
	}
}

func TestSortNumeric(t *testing.T) {
	tbl := newStreetTable(ParseState(url.Values{"sort": {"rate:desc"}}))
	if got := ids(tbl.Rows()); !reflect.DeepEqual(got, []uint{3, 1, 2}) {
		t.Errorf("rows = %v; want [3 1 2]", got)
	}
}

func TestSortSwitchColumnRestartsAscending(t *testing.T) {
	tbl := newStreetTable(NewState())
	tbl.ToggleSort("name")
	tbl.ToggleSort("name")
	tbl.ToggleSort("rate")
	if s := tbl.State().Sort; s != (SortState{Column: "rate", Direction: Asc}) {
		t.Errorf("sort = %+v; want rate asc", s)
	}
}

func TestNewDropsInvalidSort(t *testing.T) {
	tbl := newStreetTable(ParseState(url.Values{"sort": {"zone.name:asc"}}))
	if s := tbl.State().Sort; s != (SortState{}) {
		t.Errorf("sort = %+v; want empty for unsortable column", s)
	}
}

func TestToggleColumn(t *testing.T) {
	tbl := newStreetTable(NewState())

	tbl.ToggleColumn("zone.name")
	if tbl.IsVisible("zone.name") {
		t.Fatal("zone.name still visible after toggle")
	}
	for _, h := range tbl.HeaderCells() {
		if h.ID == "zone.name" {
			t.Error("hidden column rendered in header")
		}
	}
	for _, c := range tbl.Body()[0].Cells {
		if c.ColumnID == "zone.name" {
			t.Error("hidden column rendered in body")
		}
	}

	tbl.ToggleColumn("zone.name")
	if !tbl.IsVisible("zone.name") {
		t.Error("zone.name not restored after second toggle")
	}

	tbl.ToggleColumn("actions")
	if !tbl.IsVisible("actions") {
		t.Error("actions column must not be hideable")
	}
}

func TestRowSelection(t *testing.T) {
	tbl := newStreetTable(NewState())

	tbl.ToggleRow(2)
	if got := tbl.Selected(); !reflect.DeepEqual(got, []uint{2}) {
		t.Fatalf("Selected() = %v; want [2]", got)
	}
	tbl.ToggleRow(2)
	if got := tbl.Selected(); len(got) != 0 {
		t.Fatalf("Selected() = %v; want empty", got)
	}

	tbl.SetSearch("street")
	tbl.SelectAll()
	if got := tbl.Selected(); !reflect.DeepEqual(got, []uint{1, 3}) {
		t.Fatalf("SelectAll() = %v; want [1 3]", got)
	}

	tbl.ClearSelection()
	if got := tbl.Selected(); len(got) != 0 {
		t.Errorf("ClearSelection() left %v", got)
	}
}

func TestEmptyState(t *testing.T) {
	tbl := New(Config[street]{
		Columns:      streetColumns(nil),
		EmptyMessage: "No drivers found.",
		Selectable:   true,
	}, NewState())

	body := tbl.Body()
	if len(body) != 1 {
		t.Fatalf("body rows = %d; want 1", len(body))
	}
	if !body[0].Empty || len(body[0].Cells) != 1 {
		t.Fatalf("empty row = %+v; want one empty cell", body[0])
	}
	cell := body[0].Cells[0]
	if cell.Content != "No drivers found." {
		t.Errorf("content = %q; want %q", cell.Content, "No drivers found.")
	}
	if want := len(tbl.VisibleColumns()) + 1; cell.ColSpan != want {
		t.Errorf("colspan = %d; want %d", cell.ColSpan, want)
	}
}

func TestEmptyStateDefaultMessage(t *testing.T) {
	tbl := newStreetTable(NewState())
	tbl.SetSearch("nothing matches")
	body := tbl.Body()
	if len(body) != 1 || body[0].Cells[0].Content != DefaultEmptyMessage {
		t.Fatalf("body = %+v; want default empty message", body)
	}
	if got := body[0].Cells[0].ColSpan; got != 5 {
		t.Errorf("colspan = %d; want 5", got)
	}
}

func TestBodyCells(t *testing.T) {
	tbl := newStreetTable(NewState())
	body := tbl.Body()
	if len(body) != 3 {
		t.Fatalf("rows = %d; want 3", len(body))
	}

	row := body[1]
	if row.ID != 2 {
		t.Fatalf("row id = %d; want 2", row.ID)
	}
	byColumn := map[string]string{}
	for _, c := range row.Cells {
		byColumn[c.ColumnID] = string(c.Content)
	}
	if byColumn["zone.name"] != "N/A" {
		t.Errorf("zone.name cell = %q; want N/A", byColumn["zone.name"])
	}
	if byColumn["rate"] != "USD 1.00" {
		t.Errorf("rate cell = %q; want USD 1.00", byColumn["rate"])
	}
	if !strings.Contains(byColumn["is_active"], "Inactive") {
		t.Errorf("status cell = %q; want Inactive badge", byColumn["is_active"])
	}
}

func TestProcessingRowDeleteDisabled(t *testing.T) {
	processing := map[uint]bool{2: true}
	tbl := New(Config[street]{
		Columns: streetColumns(func(id uint) bool { return processing[id] }),
		Data:    sampleStreets(),
	}, NewState())

	actionsCell := func(id uint) string {
		for _, r := range tbl.Body() {
			if r.ID != id {
				continue
			}
			for _, c := range r.Cells {
				if c.Kind == KindActions {
					return string(c.Content)
				}
			}
		}
		return ""
	}

	busy := actionsCell(2)
	if !strings.Contains(busy, `hx-delete="/streets/2"`) || !strings.Contains(busy, "disabled") {
		t.Errorf("processing row actions = %s; want disabled delete", busy)
	}
	if idle := actionsCell(1); strings.Contains(idle, "disabled") {
		t.Errorf("idle row actions = %s; want enabled delete", idle)
	}

	delete(processing, 2)
	if again := actionsCell(2); strings.Contains(again, "disabled") {
		t.Errorf("row left processing but delete still disabled: %s", again)
	}
}
