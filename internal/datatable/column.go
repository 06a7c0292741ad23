// Package datatable renders typed, server-side data tables: column
// descriptors, per-request table state (sort, search, status filter, column
// visibility, row selection) and the chrome around the table (search box,
// menus, create button, pagination footer).
package datatable

import "html/template"

// Kind selects how a column renders its cells.
type Kind int

const (
	KindText Kind = iota
	KindBadge
	KindCurrency
	KindActions
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBadge:
		return "badge"
	case KindCurrency:
		return "currency"
	case KindActions:
		return "actions"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Badge is a short coloured label. Variant is one of success, danger,
// warning, info or secondary.
type Badge struct {
	Label   string
	Variant string
}

// Action is one row affordance in an actions column. Method GET renders a
// link; any other method renders an htmx button whose response replaces
// Target (the enclosing row by default).
type Action struct {
	Label    string
	Method   string
	URL      string
	Confirm  string
	Variant  string
	Target   string
	Disabled bool
}

// Column describes how one table column accesses, sorts, filters and renders
// its field. Build columns with the constructors below; the zero value is not
// useful.
type Column[T any] struct {
	ID     string
	Header string
	Kind   Kind

	sortable bool
	hideable bool

	value   func(T) any
	filter  func(row T, value string) bool
	badge   func(T) Badge
	amount  func(T) float64
	actions func(T) []Action
	render  func(T) template.HTML
}

// Text is a plain text column whose cell shows value(row).
func Text[T any](id, header string, value func(T) any) Column[T] {
	return Column[T]{ID: id, Header: header, Kind: KindText, hideable: true, value: value}
}

// RelationText is a text column that resolves its dotted ID (for example
// "zone.name") against the row, rendering "N/A" when the chain is broken.
func RelationText[T any](id, header string) Column[T] {
	return Text(id, header, func(row T) any { return RelationName(row, id) })
}

// Currency is a money column. Cells are always formatted with FormatCurrency;
// sorting uses the raw amount.
func Currency[T any](id, header string, amount func(T) float64) Column[T] {
	return Column[T]{
		ID:       id,
		Header:   header,
		Kind:     KindCurrency,
		hideable: true,
		amount:   amount,
		value:    func(row T) any { return amount(row) },
	}
}

// BadgeOf is a badge column. value feeds sorting and filtering; badge decides
// what is drawn.
func BadgeOf[T any](id, header string, value func(T) any, badge func(T) Badge) Column[T] {
	return Column[T]{ID: id, Header: header, Kind: KindBadge, hideable: true, value: value, badge: badge}
}

// StatusBadge is the Active/Inactive badge used by every toggle-able entity.
func StatusBadge[T any](id, header string, active func(T) bool) Column[T] {
	return BadgeOf(id, header,
		func(row T) any { return active(row) },
		func(row T) Badge {
			if active(row) {
				return Badge{Label: "Active", Variant: "success"}
			}
			return Badge{Label: "Inactive", Variant: "secondary"}
		},
	)
}

// Actions is the trailing row-actions column. It cannot be hidden or sorted.
func Actions[T any](actions func(T) []Action) Column[T] {
	return Column[T]{ID: "actions", Header: "Actions", Kind: KindActions, actions: actions}
}

// Custom renders trusted HTML produced by render. value, when non-nil, feeds
// sorting and search.
func Custom[T any](id, header string, value func(T) any, render func(T) template.HTML) Column[T] {
	return Column[T]{ID: id, Header: header, Kind: KindCustom, hideable: true, value: value, render: render}
}

// Sortable marks the column as sortable from its header.
func (c Column[T]) Sortable() Column[T] {
	c.sortable = c.value != nil
	return c
}

// Fixed prevents the column from being hidden through the columns menu.
func (c Column[T]) Fixed() Column[T] {
	c.hideable = false
	return c
}

// Filterable installs a custom predicate used when this column is the
// status-filter field.
func (c Column[T]) Filterable(fn func(row T, value string) bool) Column[T] {
	c.filter = fn
	return c
}

// IsSortable reports whether the header toggles sorting.
func (c Column[T]) IsSortable() bool { return c.sortable }

// IsHideable reports whether the column appears in the columns menu.
func (c Column[T]) IsHideable() bool { return c.hideable }

// Value returns the column's underlying value for row, or nil when the
// column has no accessor.
func (c Column[T]) Value(row T) any {
	if c.value == nil {
		return nil
	}
	return c.value(row)
}
