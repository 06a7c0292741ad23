package domain

// PageLink is one pagination control: a numbered page, the previous/next
// arrows, or an ellipsis separator (empty URL).
type PageLink struct {
	URL    string `json:"url"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Page is the paginated collection handed to list screens and returned by
// list APIs. From and To are one-based display positions; both are zero for
// an empty page.
type Page[T any] struct {
	Data        []T        `json:"data"`
	Links       []PageLink `json:"links"`
	From        int        `json:"from"`
	To          int        `json:"to"`
	Total       int64      `json:"total"`
	CurrentPage int        `json:"current_page"`
	LastPage    int        `json:"last_page"`
	PerPage     int        `json:"per_page"`
}
