package datatable

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Direction is a sort direction. The empty Direction means unsorted.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Query parameter names carrying table state.
const (
	ParamSort   = "sort"
	ParamSearch = "q"
	ParamStatus = "status"
	ParamHide   = "hide"
	ParamSelect = "sel"
)

// SortState is the single authoritative sort key.
type SortState struct {
	Column    string
	Direction Direction
}

// State is the mutable part of a table. It is decoded from the request
// query, changed only through Table's setters, and re-encoded into links.
type State struct {
	Sort     SortState
	Hidden   map[string]bool
	Selected map[uint]bool
	Search   string
	Status   string
}

// NewState returns an empty state: unsorted, all columns visible, nothing
// selected, no filters.
func NewState() State {
	return State{Hidden: map[string]bool{}, Selected: map[uint]bool{}}
}

// ParseState decodes table state from query parameters. Malformed values are
// dropped rather than rejected.
func ParseState(q url.Values) State {
	s := NewState()

	if raw := q.Get(ParamSort); raw != "" {
		if i := strings.LastIndex(raw, ":"); i > 0 {
			dir := Direction(strings.ToLower(raw[i+1:]))
			if dir == Asc || dir == Desc {
				s.Sort = SortState{Column: raw[:i], Direction: dir}
			}
		}
	}

	s.Search = strings.TrimSpace(q.Get(ParamSearch))
	s.Status = strings.TrimSpace(q.Get(ParamStatus))

	for _, id := range splitList(q.Get(ParamHide)) {
		s.Hidden[id] = true
	}
	for _, raw := range splitList(q.Get(ParamSelect)) {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			s.Selected[uint(id)] = true
		}
	}
	return s
}

// Encode writes the state into q, replacing any previous state parameters
// and leaving unrelated parameters (page, page_size, filters) untouched.
func (s State) Encode(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = slices.Clone(v)
	}
	for _, k := range []string{ParamSort, ParamSearch, ParamStatus, ParamHide, ParamSelect} {
		out.Del(k)
	}

	if s.Sort.Column != "" && s.Sort.Direction != "" {
		out.Set(ParamSort, s.Sort.Column+":"+string(s.Sort.Direction))
	}
	if s.Search != "" {
		out.Set(ParamSearch, s.Search)
	}
	if s.Status != "" {
		out.Set(ParamStatus, s.Status)
	}
	if hidden := s.hiddenList(); len(hidden) > 0 {
		out.Set(ParamHide, strings.Join(hidden, ","))
	}
	if selected := s.selectedList(); len(selected) > 0 {
		ids := make([]string, len(selected))
		for i, id := range selected {
			ids[i] = strconv.FormatUint(uint64(id), 10)
		}
		out.Set(ParamSelect, strings.Join(ids, ","))
	}
	return out
}

// clone returns a deep copy so link builders can mutate freely.
func (s State) clone() State {
	c := s
	c.Hidden = make(map[string]bool, len(s.Hidden))
	for k, v := range s.Hidden {
		c.Hidden[k] = v
	}
	c.Selected = make(map[uint]bool, len(s.Selected))
	for k, v := range s.Selected {
		c.Selected[k] = v
	}
	return c
}

func (s State) hiddenList() []string {
	out := make([]string, 0, len(s.Hidden))
	for id, hidden := range s.Hidden {
		if hidden {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (s State) selectedList() []uint {
	out := make([]uint, 0, len(s.Selected))
	for id, selected := range s.Selected {
		if selected {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
