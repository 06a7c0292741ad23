// Package resource wires one entity type into the admin: GORM repository,
// CRUD service, JSON API, server-rendered list and form pages, and routes.
// A Definition describes what differs between entities; everything else is
// shared.
package resource

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/metrics"
	"github.com/simp-lee/parkadmin/internal/pkg"
	"github.com/simp-lee/parkadmin/internal/processing"
)

// Definition describes one admin resource. T is the entity, F the form DTO
// bound from both HTML forms and JSON bodies.
type Definition[T datatable.Row, F any] struct {
	// Name is the plural route segment, e.g. "zones".
	Name string
	// Noun is the singular display name, e.g. "zone".
	Noun string
	// Title is the list heading, e.g. "Zones".
	Title string

	// Columns builds the table columns. The actions column, when wanted,
	// comes from datatable.CRUDActions(actions).
	Columns func(actions datatable.RowActions) []datatable.Column[T]
	// SearchKey is both the column ID searched by the table and the database
	// column searched server-side.
	SearchKey string
	// Toggle enables the status filter, the toggle action and the toggle
	// endpoints. T must then implement domain.Toggleable through *T.
	Toggle       bool
	EmptyMessage string

	Fields  []FieldSpec
	Lookups map[string]lookup.Loader

	// Apply copies a bound form onto an entity, resolving anything the form
	// only references by id.
	Apply func(ctx context.Context, form *F, entity *T) error
	// Form converts an entity back into a form for editing.
	Form func(entity *T) F
	// Defaults, when set, prefills the create form.
	Defaults func() F

	// ListTemplate overrides "resource/list.html".
	ListTemplate string
	// ListData adds template data to the list page.
	ListData func(c *gin.Context, page *domain.Page[T], data gin.H) error
}

// BasePath is the page route prefix, e.g. "/zones".
func (d *Definition[T, F]) BasePath() string { return "/" + d.Name }

// SingularTitle is the title-cased noun, e.g. "Parking rate".
func (d *Definition[T, F]) SingularTitle() string {
	if d.Noun == "" {
		return ""
	}
	return strings.ToUpper(d.Noun[:1]) + d.Noun[1:]
}

func (d *Definition[T, F]) statusFilter() *datatable.StatusFilter {
	if !d.Toggle {
		return nil
	}
	return datatable.DefaultStatusFilter("is_active")
}

// Deps are the shared collaborators of every resource.
type Deps struct {
	Lookups *lookup.Cache
	Metrics *metrics.Metrics
	Page    pkg.PageOptions
	// PageData is merged into every rendered page (map settings etc.).
	PageData gin.H
}

// Module is a fully wired resource, ready to register its routes.
type Module[T datatable.Row, F any] struct {
	def  *Definition[T, F]
	svc  *Service[T]
	api  *APIHandler[T, F]
	page *PageHandler[T, F]
}

// NewModule wires def over svc. Both handlers share one processing set, so an
// API delete and a page delete of the same row cannot overlap.
func NewModule[T datatable.Row, F any](def *Definition[T, F], svc *Service[T], deps Deps) *Module[T, F] {
	if def == nil || svc == nil {
		panic("resource.NewModule: definition and service must not be nil")
	}
	busy := processing.New()
	return &Module[T, F]{
		def:  def,
		svc:  svc,
		api:  newAPIHandler(def, svc, busy, deps),
		page: newPageHandler(def, svc, busy, deps),
	}
}

// Service returns the module's service.
func (m *Module[T, F]) Service() *Service[T] { return m.svc }

// Pages returns the page handler.
func (m *Module[T, F]) Pages() *PageHandler[T, F] { return m.page }

// API returns the JSON handler.
func (m *Module[T, F]) API() *APIHandler[T, F] { return m.api }

// RegisterRoutes registers the resource API and page routes.
func (m *Module[T, F]) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	base := m.def.BasePath()

	// API routes
	api.POST(base, m.api.Create)
	api.GET(base+"/:id", m.api.Get)
	api.GET(base, m.api.List)
	api.PUT(base+"/:id", m.api.Update)
	api.DELETE(base+"/:id", m.api.Delete)

	// Page routes
	pages.GET(base, m.page.List)
	pages.GET(base+"/new", m.page.New)
	pages.GET(base+"/:id/edit", m.page.Edit)
	pages.POST(base, m.page.Create)
	pages.PUT(base+"/:id", m.page.Update)
	pages.DELETE(base+"/:id", m.page.Delete)

	if m.def.Toggle {
		api.PATCH(base+"/:id/toggle", m.api.Toggle)
		pages.PATCH(base+"/:id/toggle", m.page.Toggle)
	}
}
