package datatable

import (
	"html/template"
	"slices"
	"strings"
)

// DefaultEmptyMessage is shown when a table has no rows and the caller did
// not supply its own message.
const DefaultEmptyMessage = "No results found."

// Row is the only thing the engine needs to know about an entity.
type Row interface {
	RowID() uint
}

// StatusOption is one entry of the status dropdown. An empty Value (or
// "all") clears the filter.
type StatusOption struct {
	Label string
	Value string
}

// StatusFilter maps a finite set of labels onto a column's value.
type StatusFilter struct {
	Field   string
	Options []StatusOption
}

// DefaultStatusFilter is the All / Active / Inactive filter over a boolean
// column.
func DefaultStatusFilter(field string) *StatusFilter {
	return &StatusFilter{
		Field: field,
		Options: []StatusOption{
			{Label: "All", Value: ""},
			{Label: "Active", Value: "Active"},
			{Label: "Inactive", Value: "Inactive"},
		},
	}
}

// Config is the immutable input of a table.
type Config[T Row] struct {
	Columns      []Column[T]
	Data         []T
	SearchKey    string
	Status       *StatusFilter
	EmptyMessage string
	Selectable   bool
}

// HeaderCell describes one rendered header.
type HeaderCell struct {
	ID        string
	Label     string
	Sortable  bool
	Direction Direction
}

// Cell is one rendered body cell. ColSpan is only set on the empty-state
// cell.
type Cell struct {
	ColumnID string
	Kind     Kind
	Content  template.HTML
	ColSpan  int
}

// BodyRow is one rendered body row. Empty marks the single empty-state row.
type BodyRow struct {
	ID       uint
	Selected bool
	Empty    bool
	Cells    []Cell
}

// Table derives header and body rows from a Config and a State.
type Table[T Row] struct {
	cfg   Config[T]
	state State
}

// New builds a table. Sort state naming an unknown or unsortable column is
// dropped.
func New[T Row](cfg Config[T], state State) *Table[T] {
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = DefaultEmptyMessage
	}
	t := &Table[T]{cfg: cfg, state: state.clone()}
	if c, ok := t.column(t.state.Sort.Column); !ok || !c.sortable {
		t.state.Sort = SortState{}
	}
	return t
}

// State returns a copy of the current state.
func (t *Table[T]) State() State { return t.state.clone() }

// SearchEnabled reports whether the search box should be rendered.
func (t *Table[T]) SearchEnabled() bool {
	_, ok := t.column(t.cfg.SearchKey)
	return ok
}

// StatusFilter returns the configured status filter, or nil.
func (t *Table[T]) StatusFilter() *StatusFilter { return t.cfg.Status }

// Selectable reports whether rows carry a selection checkbox.
func (t *Table[T]) Selectable() bool { return t.cfg.Selectable }

// EmptyMessage is the message shown when no rows remain.
func (t *Table[T]) EmptyMessage() string { return t.cfg.EmptyMessage }

// SetSearch sets the free-text filter.
func (t *Table[T]) SetSearch(q string) { t.state.Search = strings.TrimSpace(q) }

// SetStatus sets the status filter value. "" and "all" clear it.
func (t *Table[T]) SetStatus(v string) {
	if strings.EqualFold(v, "all") {
		v = ""
	}
	t.state.Status = v
}

// ToggleSort cycles a sortable column asc, desc, unsorted. Starting a sort on
// a different column replaces the previous key.
func (t *Table[T]) ToggleSort(id string) {
	c, ok := t.column(id)
	if !ok || !c.sortable {
		return
	}
	t.state.Sort = nextSort(t.state.Sort, id)
}

func nextSort(s SortState, id string) SortState {
	if s.Column != id {
		return SortState{Column: id, Direction: Asc}
	}
	switch s.Direction {
	case Asc:
		return SortState{Column: id, Direction: Desc}
	case Desc:
		return SortState{}
	default:
		return SortState{Column: id, Direction: Asc}
	}
}

// SortDirection reports the active direction for id, or "".
func (t *Table[T]) SortDirection(id string) Direction {
	if t.state.Sort.Column == id {
		return t.state.Sort.Direction
	}
	return ""
}

// ToggleColumn flips the visibility of a hideable column.
func (t *Table[T]) ToggleColumn(id string) {
	c, ok := t.column(id)
	if !ok || !c.hideable {
		return
	}
	if t.state.Hidden[id] {
		delete(t.state.Hidden, id)
	} else {
		t.state.Hidden[id] = true
	}
}

// IsVisible reports whether column id is rendered.
func (t *Table[T]) IsVisible(id string) bool {
	c, ok := t.column(id)
	if !ok {
		return false
	}
	return !c.hideable || !t.state.Hidden[id]
}

// ToggleRow flips the selection of a row.
func (t *Table[T]) ToggleRow(id uint) {
	if t.state.Selected[id] {
		delete(t.state.Selected, id)
	} else {
		t.state.Selected[id] = true
	}
}

// SelectAll selects every row currently rendered.
func (t *Table[T]) SelectAll() {
	for _, row := range t.Rows() {
		t.state.Selected[row.RowID()] = true
	}
}

// ClearSelection deselects every row.
func (t *Table[T]) ClearSelection() {
	t.state.Selected = map[uint]bool{}
}

// Selected returns the selected row ids in ascending order.
func (t *Table[T]) Selected() []uint { return t.state.selectedList() }

// Columns returns the configured columns in display order.
func (t *Table[T]) Columns() []Column[T] { return t.cfg.Columns }

// VisibleColumns returns the configured columns minus hidden ones, in order.
func (t *Table[T]) VisibleColumns() []Column[T] {
	out := make([]Column[T], 0, len(t.cfg.Columns))
	for _, c := range t.cfg.Columns {
		if !c.hideable || !t.state.Hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// Rows applies the search and status filters and the sort to the supplied
// page of data. It never adds rows.
func (t *Table[T]) Rows() []T {
	rows := make([]T, 0, len(t.cfg.Data))
	for _, row := range t.cfg.Data {
		if t.matchSearch(row) && t.matchStatus(row) {
			rows = append(rows, row)
		}
	}

	if c, ok := t.column(t.state.Sort.Column); ok && c.sortable && t.state.Sort.Direction != "" {
		desc := t.state.Sort.Direction == Desc
		slices.SortStableFunc(rows, func(a, b T) int {
			r := compareValues(c.Value(a), c.Value(b))
			if desc {
				return -r
			}
			return r
		})
	}
	return rows
}

// HeaderCells describes the visible headers in display order.
func (t *Table[T]) HeaderCells() []HeaderCell {
	cols := t.VisibleColumns()
	out := make([]HeaderCell, 0, len(cols))
	for _, c := range cols {
		out = append(out, HeaderCell{
			ID:        c.ID,
			Label:     c.Header,
			Sortable:  c.sortable,
			Direction: t.SortDirection(c.ID),
		})
	}
	return out
}

// Body renders the filtered, sorted rows. With no rows left it returns a
// single row holding one cell that spans every visible column.
func (t *Table[T]) Body() []BodyRow {
	cols := t.VisibleColumns()
	rows := t.Rows()

	if len(rows) == 0 {
		span := len(cols)
		if t.cfg.Selectable {
			span++
		}
		return []BodyRow{{
			Empty: true,
			Cells: []Cell{{
				Content: template.HTML(template.HTMLEscapeString(t.cfg.EmptyMessage)),
				ColSpan: span,
			}},
		}}
	}

	out := make([]BodyRow, 0, len(rows))
	for _, row := range rows {
		br := BodyRow{
			ID:       row.RowID(),
			Selected: t.state.Selected[row.RowID()],
			Cells:    make([]Cell, 0, len(cols)),
		}
		for _, c := range cols {
			br.Cells = append(br.Cells, Cell{ColumnID: c.ID, Kind: c.Kind, Content: renderCell(c, row)})
		}
		out = append(out, br)
	}
	return out
}

func (t *Table[T]) matchSearch(row T) bool {
	if t.state.Search == "" {
		return true
	}
	c, ok := t.column(t.cfg.SearchKey)
	if !ok {
		return true
	}
	return strings.Contains(
		strings.ToLower(stringify(c.Value(row))),
		strings.ToLower(t.state.Search),
	)
}

func (t *Table[T]) matchStatus(row T) bool {
	v := t.state.Status
	if t.cfg.Status == nil || v == "" || strings.EqualFold(v, "all") {
		return true
	}
	c, ok := t.column(t.cfg.Status.Field)
	if !ok {
		return true
	}
	if c.filter != nil {
		return c.filter(row, v)
	}

	literal := v
	for _, opt := range t.cfg.Status.Options {
		if strings.EqualFold(opt.Label, v) || strings.EqualFold(opt.Value, v) {
			literal = opt.Value
			if literal == "" {
				return true
			}
			break
		}
	}

	got := c.Value(row)
	if b, ok := got.(bool); ok {
		want, known := statusBool(literal)
		return known && b == want
	}
	return strings.EqualFold(stringify(got), literal)
}

// statusBool translates the human status labels to the underlying flag.
func statusBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "active", "true", "1":
		return true, true
	case "inactive", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func (t *Table[T]) column(id string) (Column[T], bool) {
	if id == "" {
		return Column[T]{}, false
	}
	for _, c := range t.cfg.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}
