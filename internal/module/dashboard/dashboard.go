// Package dashboard renders the landing page: record counts, parking space
// occupancy and static sample charts.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/pkg"
	"github.com/simp-lee/parkadmin/internal/resource"
)

const pageTemplate = "dashboard.html"

// Stat is one counter card.
type Stat struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	URL   string `json:"url"`
}

// Series is one dataset of a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a labelled set of series rendered client-side.
type Chart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Summary is everything the dashboard shows.
type Summary struct {
	Stats     []Stat           `json:"stats"`
	Occupancy map[string]int64 `json:"occupancy"`
	Charts    []Chart          `json:"charts"`
}

// Handler serves the dashboard page and its JSON summary.
type Handler struct {
	db       *gorm.DB
	pageData gin.H
}

// New creates the dashboard handler. pageData is merged into the page.
func New(db *gorm.DB, pageData gin.H) *Handler {
	return &Handler{db: db, pageData: pageData}
}

// RegisterRoutes registers the dashboard at the site root.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/dashboard", h.API)
	pages.GET("/", h.Page)
}

// Page renders the dashboard.
// GET /
func (h *Handler) Page(c *gin.Context) {
	s, err := h.Summary(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "dashboard summary failed", "error", err)
		c.HTML(http.StatusInternalServerError, "errors/500.html", resource.Layout(c, h.pageData))
		return
	}

	data := resource.Layout(c, h.pageData)
	data["Title"] = "Dashboard"
	data["Summary"] = s
	c.HTML(http.StatusOK, pageTemplate, data)
}

// API returns the dashboard summary as JSON.
// GET /api/v1/dashboard
func (h *Handler) API(c *gin.Context) {
	s, err := h.Summary(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, s)
}

// Summary counts the stored records and attaches the sample charts.
func (h *Handler) Summary(ctx context.Context) (*Summary, error) {
	counters := []struct {
		label string
		url   string
		model any
	}{
		{"Zones", "/zones", &domain.Zone{}},
		{"Streets", "/streets", &domain.Street{}},
		{"Parking spaces", "/spaces", &domain.ParkingSpace{}},
		{"Vehicles", "/vehicles", &domain.Vehicle{}},
		{"Drivers", "/drivers", &domain.Driver{}},
		{"Users", "/users", &domain.User{}},
	}

	s := &Summary{Occupancy: make(map[string]int64, len(domain.SpaceStates)), Charts: SampleCharts()}
	for _, ct := range counters {
		var n int64
		if err := h.db.WithContext(ctx).Model(ct.model).Count(&n).Error; err != nil {
			return nil, domain.NewAppError(domain.CodeInternal, "database error", err)
		}
		s.Stats = append(s.Stats, Stat{Label: ct.label, Value: n, URL: ct.url})
	}

	var rows []struct {
		State string
		N     int64
	}
	err := h.db.WithContext(ctx).Model(&domain.ParkingSpace{}).
		Select("state, COUNT(*) AS n").Group("state").Scan(&rows).Error
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	for _, st := range domain.SpaceStates {
		s.Occupancy[st] = 0
	}
	for _, r := range rows {
		s.Occupancy[r.State] = r.N
	}
	return s, nil
}

// SampleCharts returns the fixed demonstration datasets.
func SampleCharts() []Chart {
	return []Chart{
		{
			ID:     "occupancy-by-hour",
			Title:  "Average occupancy by hour",
			Kind:   "line",
			Labels: []string{"08:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00"},
			Series: []Series{
				{Name: "Weekdays", Values: []float64{42, 71, 88, 83, 76, 64, 31}},
				{Name: "Weekends", Values: []float64{18, 45, 69, 74, 70, 58, 40}},
			},
		},
		{
			ID:     "revenue-by-month",
			Title:  "Revenue by month",
			Kind:   "bar",
			Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
			Series: []Series{
				{Name: "Parking", Values: []float64{12400, 11800, 13900, 14250, 15100, 16320}},
				{Name: "Fines", Values: []float64{3100, 2870, 3320, 2990, 3410, 3560}},
			},
		},
	}
}
