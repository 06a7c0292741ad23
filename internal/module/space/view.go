package space

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/geo"
	"github.com/simp-lee/parkadmin/internal/preference"
)

// ViewParam switches the list view mode; the choice is remembered.
const ViewParam = "view"

// Card is one parking space in the cards view.
type Card struct {
	ID      uint
	Code    string
	Street  string
	Zone    string
	Badge   datatable.Badge
	EditURL string
}

// Marker is one parking space on the map view.
type Marker struct {
	ID    uint    `json:"id"`
	Code  string  `json:"code"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	State string  `json:"state"`
}

// ViewOption is one entry of the view mode switcher.
type ViewOption struct {
	Mode   preference.ViewMode
	URL    string
	Active bool
}

// resolveViewMode applies a requested mode, when valid, and returns the mode
// to render.
func resolveViewMode(store preference.Store, requested string) preference.ViewMode {
	if m, ok := preference.ParseViewMode(requested); ok {
		preference.SaveViewMode(store, preference.KeySpacesViewMode, m)
		return m
	}
	return preference.LoadViewMode(store, preference.KeySpacesViewMode)
}

func cards(spaces []domain.ParkingSpace) []Card {
	out := make([]Card, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, Card{
			ID:      s.ID,
			Code:    s.Code,
			Street:  datatable.RelationName(s, "street.name"),
			Zone:    datatable.RelationName(s, "street.zone.name"),
			Badge:   StateBadge(s),
			EditURL: fmt.Sprintf("/spaces/%d/edit", s.ID),
		})
	}
	return out
}

func markers(spaces []domain.ParkingSpace) []Marker {
	out := make([]Marker, 0, len(spaces))
	for _, s := range spaces {
		if (geo.LatLng{Lat: s.Latitude, Lng: s.Longitude}).Validate() != nil {
			continue
		}
		if s.Latitude == 0 && s.Longitude == 0 {
			continue
		}
		out = append(out, Marker{ID: s.ID, Code: s.Code, Lat: s.Latitude, Lng: s.Longitude, State: s.State})
	}
	return out
}

func listData(fallback geo.LatLng, store func(c *gin.Context) preference.Store) func(c *gin.Context, page *domain.Page[domain.ParkingSpace], data gin.H) error {
	return func(c *gin.Context, page *domain.Page[domain.ParkingSpace], data gin.H) error {
		mode := resolveViewMode(store(c), c.Query(ViewParam))

		options := make([]ViewOption, 0, len(preference.ViewModes))
		for _, m := range preference.ViewModes {
			options = append(options, ViewOption{Mode: m, URL: "/spaces?" + ViewParam + "=" + string(m), Active: m == mode})
		}
		data["ViewMode"] = string(mode)
		data["ViewOptions"] = options

		switch mode {
		case preference.ViewCards:
			data["Cards"] = cards(page.Data)
		case preference.ViewMap:
			pins := markers(page.Data)
			centre := fallback
			points := make([]geo.LatLng, 0, len(pins))
			for _, p := range pins {
				points = append(points, geo.LatLng{Lat: p.Lat, Lng: p.Lng})
			}
			if mid, ok := geo.Centroid(points); ok {
				centre = mid
			}
			b, err := json.Marshal(gin.H{"center": centre, "markers": pins})
			if err != nil {
				return err
			}
			data["MapData"] = string(b)
		}
		return nil
	}
}
