// Package resourcetest holds helpers shared by entity module tests: an
// in-memory database and a gin engine with stub page templates.
package resourcetest

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/metrics"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// StubTemplates defines every page template a resource handler renders.
// Lists print the table; forms print their fields as name=value pairs.
const StubTemplates = `{{define "resource/list.html"}}{{.Title}}|{{.Table}}{{end}}` +
	`{{define "resource/form.html"}}form:{{.Title}}:{{.Method}}{{if .Error}}:{{.Error}}{{end}}` +
	`{{range .Fields}}|{{.Name}}={{.Value}}{{range .Options}}[{{.Value}}:{{.Label}}]{{end}}{{if .Error}}!{{.Error}}{{end}}{{end}}{{end}}` +
	`{{define "errors/400.html"}}400{{end}}` +
	`{{define "errors/404.html"}}404{{end}}` +
	`{{define "errors/500.html"}}500{{end}}`

// OpenDB returns an in-memory SQLite database with every domain table. One
// connection keeps all statements on the same in-memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Deps returns resource dependencies with caching disabled.
func Deps() resource.Deps {
	return resource.Deps{Lookups: lookup.New(0), Metrics: metrics.New()}
}

// Router registers modules on a test engine using StubTemplates plus any
// extra template definitions.
func Router(t *testing.T, extra string, modules ...interface {
	RegisterRoutes(api, pages *gin.RouterGroup)
}) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(StubTemplates + extra)))
	for _, m := range modules {
		m.RegisterRoutes(r.Group("/api/v1"), r.Group("/"))
	}
	return r
}

// Do performs an htmx request against r. A non-nil form is sent url-encoded.
func Do(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoJSON performs a JSON API request against r.
func DoJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
