package street

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/geo"
)

// MapLine is one street drawn on the overview map.
type MapLine struct {
	ID     uint         `json:"id"`
	Name   string       `json:"name"`
	Points []geo.LatLng `json:"points"`
}

// MapLines converts the streets of a page into map polylines, skipping
// streets without a usable path.
func MapLines(streets []domain.Street) []MapLine {
	lines := make([]MapLine, 0, len(streets))
	for _, s := range streets {
		points, err := geo.ParsePath(s.Path)
		if err != nil {
			slog.Warn("street path unreadable", "id", s.ID, "error", err)
			continue
		}
		if len(points) < 2 {
			continue
		}
		lines = append(lines, MapLine{ID: s.ID, Name: s.Name, Points: points})
	}
	return lines
}

// centre picks the map centre: the centroid of every drawn point, else the
// configured default.
func centre(lines []MapLine, fallback geo.LatLng) geo.LatLng {
	var all []geo.LatLng
	for _, l := range lines {
		all = append(all, l.Points...)
	}
	if c, ok := geo.Centroid(all); ok {
		return c
	}
	return fallback
}

func listData(fallback geo.LatLng) func(c *gin.Context, page *domain.Page[domain.Street], data gin.H) error {
	return func(_ *gin.Context, page *domain.Page[domain.Street], data gin.H) error {
		lines := MapLines(page.Data)
		b, err := json.Marshal(gin.H{"center": centre(lines, fallback), "lines": lines})
		if err != nil {
			return err
		}
		data["MapData"] = string(b)
		return nil
	}
}
