package pkg

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	dbtest "gorm.io/gorm/utils/tests"

	"github.com/simp-lee/parkadmin/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(queryParams url.Values) *gin.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestParsePageRequest_Defaults(t *testing.T) {
	c := newTestContext(url.Values{})
	pr := ParsePageRequest(c, PageOptions{})

	if pr.Page != 1 {
		t.Errorf("expected Page=1, got %d", pr.Page)
	}
	if pr.PageSize != 15 {
		t.Errorf("expected PageSize=15, got %d", pr.PageSize)
	}
	if pr.Sort != "id:desc" {
		t.Errorf("expected Sort=id:desc, got %s", pr.Sort)
	}
	if len(pr.Filter) != 0 {
		t.Errorf("expected empty Filter, got %v", pr.Filter)
	}
}

func TestParsePageRequest_CustomValues(t *testing.T) {
	c := newTestContext(url.Values{
		"page":      {"3"},
		"page_size": {"50"},
		"sort":      {"name:asc"},
		"state":      {"occupied"},
		"name__like": {"john"},
		"q":          {"ignored"},
	})
	pr := ParsePageRequest(c, PageOptions{})

	if pr.Page != 3 {
		t.Errorf("expected Page=3, got %d", pr.Page)
	}
	if pr.PageSize != 50 {
		t.Errorf("expected PageSize=50, got %d", pr.PageSize)
	}
	if pr.Sort != "name:asc" {
		t.Errorf("expected Sort=name:asc, got %s", pr.Sort)
	}
	if pr.Filter["state"] != "occupied" {
		t.Errorf("expected Filter[state]=occupied, got %s", pr.Filter["state"])
	}
	if _, ok := pr.Filter["q"]; ok {
		t.Error("expected table search param to be reserved, not a filter")
	}
	if pr.Filter["name__like"] != "john" {
		t.Errorf("expected Filter[name__like]=john, got %s", pr.Filter["name__like"])
	}
}

func TestParsePageRequest_Clamping(t *testing.T) {
	t.Run("page below minimum", func(t *testing.T) {
		c := newTestContext(url.Values{"page": {"0"}})
		pr := ParsePageRequest(c, PageOptions{})
		if pr.Page != 1 {
			t.Errorf("expected Page=1, got %d", pr.Page)
		}
	})

	t.Run("negative page", func(t *testing.T) {
		c := newTestContext(url.Values{"page": {"-5"}})
		pr := ParsePageRequest(c, PageOptions{})
		if pr.Page != 1 {
			t.Errorf("expected Page=1, got %d", pr.Page)
		}
	})

	t.Run("page_size below minimum", func(t *testing.T) {
		c := newTestContext(url.Values{"page_size": {"0"}})
		pr := ParsePageRequest(c, PageOptions{})
		if pr.PageSize != 15 {
			t.Errorf("expected PageSize=15, got %d", pr.PageSize)
		}
	})

	t.Run("page_size above maximum", func(t *testing.T) {
		c := newTestContext(url.Values{"page_size": {"200"}})
		pr := ParsePageRequest(c, PageOptions{})
		if pr.PageSize != 100 {
			t.Errorf("expected PageSize=100, got %d", pr.PageSize)
		}
	})

	t.Run("invalid page_size defaults", func(t *testing.T) {
		c := newTestContext(url.Values{"page_size": {"abc"}})
		pr := ParsePageRequest(c, PageOptions{})
		if pr.PageSize != 15 {
			t.Errorf("expected PageSize=15, got %d", pr.PageSize)
		}
	})
}

func TestParsePageRequest_EmptyFilterValuesIgnored(t *testing.T) {
	c := newTestContext(url.Values{
		"state": {""},
		"name":  {"john"},
	})
	pr := ParsePageRequest(c, PageOptions{})

	if _, ok := pr.Filter["state"]; ok {
		t.Error("expected empty filter value to be excluded")
	}
	if pr.Filter["name"] != "john" {
		t.Errorf("expected Filter[name]=john, got %s", pr.Filter["name"])
	}
}

func TestParsePageRequest_Options(t *testing.T) {
	c := newTestContext(url.Values{})
	pr := ParsePageRequest(c, PageOptions{DefaultSize: 25, MaxSize: 50})
	if pr.PageSize != 25 {
		t.Errorf("expected PageSize=25, got %d", pr.PageSize)
	}

	c = newTestContext(url.Values{"page_size": {"80"}})
	pr = ParsePageRequest(c, PageOptions{DefaultSize: 25, MaxSize: 50})
	if pr.PageSize != 50 {
		t.Errorf("expected PageSize clamped to 50, got %d", pr.PageSize)
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		items     []string
		total     int64
		page      int
		pageSize  int
		wantLast  int
		wantFrom  int
		wantTo    int
		wantItems int
	}{
		{"first page of 37", make([]string, 10), 37, 1, 10, 4, 1, 10, 10},
		{"last partial page", make([]string, 7), 37, 4, 10, 4, 31, 37, 7},
		{"exact division", []string{"a", "b"}, 10, 5, 2, 5, 9, 10, 2},
		{"zero total", nil, 0, 1, 20, 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			p := NewPage(tt.items, tt.total, req)

			if p.LastPage != tt.wantLast {
				t.Errorf("LastPage: want %d, got %d", tt.wantLast, p.LastPage)
			}
			if p.From != tt.wantFrom || p.To != tt.wantTo {
				t.Errorf("From/To: want %d/%d, got %d/%d", tt.wantFrom, tt.wantTo, p.From, p.To)
			}
			if len(p.Data) != tt.wantItems {
				t.Errorf("Data count: want %d, got %d", tt.wantItems, len(p.Data))
			}
			if p.Total != tt.total || p.CurrentPage != tt.page || p.PerPage != tt.pageSize {
				t.Errorf("unexpected meta: %+v", p)
			}
		})
	}
}

func TestNewPage_NilItemsBecomesEmptySlice(t *testing.T) {
	p := NewPage[string](nil, 0, domain.PageRequest{Page: 1, PageSize: 10})
	if p.Data == nil {
		t.Error("expected non-nil Data slice")
	}
	if p.Links == nil {
		t.Error("expected non-nil Links slice")
	}
}

func TestWithLinks(t *testing.T) {
	p := NewPage(make([]int, 10), 37, domain.PageRequest{Page: 2, PageSize: 10})
	WithLinks(p, "/drivers", url.Values{"q": {"ana"}, "page": {"2"}})

	labels := make([]string, 0, len(p.Links))
	for _, l := range p.Links {
		labels = append(labels, l.Label)
	}
	if got := strings.Join(labels, ","); got != "« Previous,1,2,3,4,Next »" {
		t.Fatalf("labels = %q", got)
	}

	if p.Links[0].URL != "/drivers?page=1&q=ana" {
		t.Errorf("previous URL = %q", p.Links[0].URL)
	}
	if !p.Links[2].Active || p.Links[1].Active {
		t.Errorf("expected only page 2 to be active: %+v", p.Links)
	}
	if p.Links[5].URL != "/drivers?page=3&q=ana" {
		t.Errorf("next URL = %q", p.Links[5].URL)
	}
}

func TestWithLinks_FirstAndLastPageArrowsDisabled(t *testing.T) {
	p := NewPage([]int{1}, 1, domain.PageRequest{Page: 1, PageSize: 10})
	WithLinks(p, "/zones", nil)

	if len(p.Links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(p.Links))
	}
	if p.Links[0].URL != "" || p.Links[2].URL != "" {
		t.Errorf("expected empty URLs for disabled arrows: %+v", p.Links)
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, last int
		want          []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 0, 10}},
		{5, 10, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}},
		{10, 10, []int{1, 0, 8, 9, 10}},
		{4, 10, []int{1, 2, 3, 4, 5, 6, 0, 10}},
	}
	for _, tt := range tests {
		got := pageNumbers(tt.current, tt.last)
		if len(got) != len(tt.want) {
			t.Errorf("pageNumbers(%d, %d) = %v; want %v", tt.current, tt.last, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("pageNumbers(%d, %d) = %v; want %v", tt.current, tt.last, got, tt.want)
				break
			}
		}
	}
}

func TestIsAllowed(t *testing.T) {
	allowed := []string{"name", "email", "state"}

	if !isAllowed("name", allowed) {
		t.Error("expected 'name' to be allowed")
	}
	if isAllowed("password", allowed) {
		t.Error("expected 'password' to not be allowed")
	}
	if isAllowed("", allowed) {
		t.Error("expected empty string to not be allowed")
	}
}

func TestValidFieldName(t *testing.T) {
	valid := []string{"id", "name", "created_at", "user_name", "_private"}
	invalid := []string{"", "1field", "name;DROP", "field name", "a.b", "a-b"}

	for _, f := range valid {
		if !validFieldName.MatchString(f) {
			t.Errorf("expected %q to be valid", f)
		}
	}
	for _, f := range invalid {
		if validFieldName.MatchString(f) {
			t.Errorf("expected %q to be invalid", f)
		}
	}
}

// --------------- helpers for GORM scope tests ---------------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dbtest.DummyDialector{}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

// --------------- ParsePageRequest: negative page_size ---------------

func TestParsePageRequest_NegativePageSize(t *testing.T) {
	c := newTestContext(url.Values{"page_size": {"-5"}})
	pr := ParsePageRequest(c, PageOptions{})
	if pr.PageSize != 15 {
		t.Errorf("expected PageSize=15 for negative page_size, got %d", pr.PageSize)
	}
}

// --------------- Sort scope ---------------

func TestSort(t *testing.T) {
	tests := []struct {
		name    string
		sort    string
		allowed []string
		applied bool
	}{
		{"valid field asc", "name:asc", []string{"name", "email"}, true},
		{"valid field desc", "id:desc", []string{"id", "name"}, true},
		{"field not in allowed list", "password:asc", []string{"name", "email"}, false},
		{"malformed no colon", "name", []string{"name"}, false},
		{"empty direction", "name:", []string{"name"}, false},
		{"invalid direction", "name:up", []string{"name"}, false},
		{"sql injection in field", "name;DROP TABLE users--:asc", []string{"name"}, false},
		{"sql injection attempt", "1=1;--:asc", []string{"name"}, false},
		{"empty field", ":asc", []string{"name"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.PageRequest{Sort: tt.sort}
			scope := Sort(req, tt.allowed)
			db := newTestDB(t)
			result := scope(db)
			_, hasOrder := result.Statement.Clauses["ORDER BY"]
			if hasOrder != tt.applied {
				t.Errorf("Order clause applied=%v, want %v", hasOrder, tt.applied)
			}
		})
	}
}

// --------------- Filter scope ---------------

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  map[string]string
		allowed []string
		applied bool
	}{
		{"valid exact match", map[string]string{"state": "occupied"}, []string{"state", "name"}, true},
		{"valid like match", map[string]string{"name__like": "john"}, []string{"name"}, true},
		{"field not in allowed", map[string]string{"password": "secret"}, []string{"name", "email"}, false},
		{"like field not in allowed", map[string]string{"password__like": "secret"}, []string{"name"}, false},
		{"sql injection in key", map[string]string{"name;DROP TABLE--": "val"}, []string{"name"}, false},
		{"sql injection with spaces", map[string]string{"name OR 1=1": "val"}, []string{"name"}, false},
		{"empty filter map", map[string]string{}, []string{"name"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.PageRequest{Filter: tt.filter}
			scope := Filter(req, tt.allowed)
			db := newTestDB(t)
			result := scope(db)
			_, hasWhere := result.Statement.Clauses["WHERE"]
			if hasWhere != tt.applied {
				t.Errorf("Where clause applied=%v, want %v", hasWhere, tt.applied)
			}
		})
	}
}

func TestFilter_MultipleFields(t *testing.T) {
	req := domain.PageRequest{
		Filter: map[string]string{
			"state":      "occupied",
			"name__like": "john",
		},
	}
	allowed := []string{"state", "name"}
	scope := Filter(req, allowed)
	db := newTestDB(t)
	result := scope(db)
	_, hasWhere := result.Statement.Clauses["WHERE"]
	if !hasWhere {
		t.Error("expected Where clause with multiple valid filters")
	}
}

func TestFilter_MixedValidAndInvalid(t *testing.T) {
	req := domain.PageRequest{
		Filter: map[string]string{
			"state":    "occupied",
			"password": "secret",
		},
	}
	allowed := []string{"state", "name"}
	scope := Filter(req, allowed)
	db := newTestDB(t)
	result := scope(db)
	_, hasWhere := result.Statement.Clauses["WHERE"]
	if !hasWhere {
		t.Error("expected Where clause for the valid filter field")
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Centro", "%centro%"},
		{"_", `%\_%`},
		{"100%", `%100\%%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tt := range tests {
		if got := ContainsPattern(tt.in); got != tt.want {
			t.Errorf("ContainsPattern(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilter_LikeEscapesWildcards(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	type street struct {
		ID   uint
		Name string
	}
	if err := db.AutoMigrate(&street{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, n := range []string{"Rua Centro", "Rua_Porto", "Bairro 100%"} {
		if err := db.Create(&street{Name: n}).Error; err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}

	tests := []struct {
		q    string
		want int64
	}{
		{"_", 1},
		{"%", 1},
		{"rua", 2},
		{`\`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			req := domain.PageRequest{Filter: map[string]string{"name__like": tt.q}}
			var n int64
			if err := db.Model(&street{}).Scopes(Filter(req, []string{"name"})).Count(&n).Error; err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != tt.want {
				t.Errorf("count for %q = %d; want %d", tt.q, n, tt.want)
			}
		})
	}
}

// --------------- Paginate scope ---------------

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"first page", 1, 10},
		{"second page", 2, 20},
		{"large page number", 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			scope := Paginate(req)
			db := newTestDB(t)
			result := scope(db)
			_, hasLimit := result.Statement.Clauses["LIMIT"]
			if !hasLimit {
				t.Error("expected LIMIT clause to be applied")
			}
		})
	}
}
