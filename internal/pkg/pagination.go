package pkg

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 15
	maxPageSize     = 100
	defaultSort     = "id:desc"

	// linkWindow is how many numbered links are shown on each side of the
	// current page before collapsing into an ellipsis.
	linkWindow = 2

	prevLabel = "« Previous"
	nextLabel = "Next »"
	gapLabel  = "..."
)

// reservedParams lists query parameter names used for pagination, sorting and
// table chrome, not for filtering.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sort":      true,
	"q":         true,
	"status":    true,
	"hide":      true,
	"sel":       true,
	"view":      true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PageOptions overrides the default and maximum page size. Zero values fall
// back to the package defaults.
type PageOptions struct {
	DefaultSize int
	MaxSize     int
}

func (o PageOptions) sizes() (int, int) {
	def, max := o.DefaultSize, o.MaxSize
	if max <= 0 {
		max = maxPageSize
	}
	if def <= 0 {
		def = defaultPageSize
	}
	if def > max {
		def = max
	}
	return def, max
}

// ParsePageRequest extracts pagination, sorting, and filtering parameters from query params.
func ParsePageRequest(c *gin.Context, opts PageOptions) domain.PageRequest {
	defSize, maxSize := opts.sizes()

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	if pageSize < 1 {
		pageSize = defSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	sort := c.DefaultQuery("sort", defaultSort)

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Filter:   filter,
	}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the page request.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PageSize
		return db.Offset(offset).Limit(req.PageSize)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on the page request.
// Only field names present in the allowed list are accepted; others are silently ignored.
// Field names are validated against a strict pattern to prevent SQL injection.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field, direction, ok := parseSort(req.Sort)
		if !ok || !isAllowed(field, allowed) {
			return db
		}
		return db.Order(field + " " + direction)
	}
}

func parseSort(raw string) (field, direction string, ok bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	field = strings.TrimSpace(parts[0])
	direction = strings.TrimSpace(strings.ToLower(parts[1]))

	if direction != "asc" && direction != "desc" {
		return "", "", false
	}
	if !validFieldName.MatchString(field) {
		return "", "", false
	}
	return field, direction, true
}

// Filter returns a GORM scope that applies WHERE conditions based on the page request filters.
// Only filter keys present in the allowed list are applied; others are silently ignored.
// Keys ending with "__like" produce a case-insensitive substring match with
// LIKE wildcards in the value taken literally; others use exact match.
func Filter(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		// Deterministic clause order keeps generated SQL stable across requests.
		keys := make([]string, 0, len(req.Filter))
		for key := range req.Filter {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		for _, key := range keys {
			value := req.Filter[key]
			if field, ok := strings.CutSuffix(key, "__like"); ok {
				if !validFieldName.MatchString(field) || !isAllowed(field, allowed) {
					continue
				}
				db = db.Where("LOWER("+field+") LIKE ? ESCAPE '\\'", ContainsPattern(value))
				continue
			}
			if !validFieldName.MatchString(key) || !isAllowed(key, allowed) {
				continue
			}
			db = db.Where(key+" = ?", value)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a lower-cased LIKE pattern matching any value that
// contains s. The pattern expects an ESCAPE '\' clause.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// NewPage builds the page-prop structure for one page of items. Links are
// left empty; call WithLinks once the request URL is known.
func NewPage[T any](items []T, total int64, req domain.PageRequest) *domain.Page[T] {
	if items == nil {
		items = []T{}
	}

	lastPage := 1
	if req.PageSize > 0 && total > 0 {
		lastPage = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}

	from, to := 0, 0
	if len(items) > 0 {
		from = (req.Page-1)*req.PageSize + 1
		to = from + len(items) - 1
	}

	return &domain.Page[T]{
		Data:        items,
		Links:       []domain.PageLink{},
		From:        from,
		To:          to,
		Total:       total,
		CurrentPage: req.Page,
		LastPage:    lastPage,
		PerPage:     req.PageSize,
	}
}

// WithLinks fills p.Links with previous, numbered and next links that point
// at base with the given query preserved and only "page" replaced.
func WithLinks[T any](p *domain.Page[T], base string, query url.Values) *domain.Page[T] {
	pageURL := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = slices.Clone(v)
		}
		q.Set("page", strconv.Itoa(n))
		return base + "?" + q.Encode()
	}

	links := make([]domain.PageLink, 0, p.LastPage+2)

	prev := domain.PageLink{Label: prevLabel}
	if p.CurrentPage > 1 {
		prev.URL = pageURL(p.CurrentPage - 1)
	}
	links = append(links, prev)

	for _, n := range pageNumbers(p.CurrentPage, p.LastPage) {
		if n == 0 {
			links = append(links, domain.PageLink{Label: gapLabel})
			continue
		}
		links = append(links, domain.PageLink{
			URL:    pageURL(n),
			Label:  strconv.Itoa(n),
			Active: n == p.CurrentPage,
		})
	}

	next := domain.PageLink{Label: nextLabel}
	if p.CurrentPage < p.LastPage {
		next.URL = pageURL(p.CurrentPage + 1)
	}
	links = append(links, next)

	p.Links = links
	return p
}

// pageNumbers returns the numbered pages to render; 0 marks a gap. The first
// and last page are always present and the current page is surrounded by
// linkWindow neighbours.
func pageNumbers(current, last int) []int {
	if last <= 1 {
		return []int{1}
	}

	nums := make([]int, 0, 2*linkWindow+5)
	prev := 0
	for n := 1; n <= last; n++ {
		if n != 1 && n != last && (n < current-linkWindow || n > current+linkWindow) {
			continue
		}
		if prev != 0 && n-prev > 1 {
			nums = append(nums, 0)
		}
		nums = append(nums, n)
		prev = n
	}
	return nums
}

// isAllowed checks if a field name is in the allowed list.
func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
