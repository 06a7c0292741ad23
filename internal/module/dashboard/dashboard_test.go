package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/resource/resourcetest"
)

func TestSummary(t *testing.T) {
	db := resourcetest.OpenDB(t)
	db.Create(&domain.Zone{Name: "Centro", Code: "Z-01"})
	db.Create(&domain.Street{Name: "Main", ZoneID: 1})
	db.Create(&domain.ParkingSpace{Code: "A1", StreetID: 1, State: domain.SpaceOccupied})
	db.Create(&domain.ParkingSpace{Code: "A2", StreetID: 1, State: domain.SpaceOccupied})
	db.Create(&domain.ParkingSpace{Code: "A3", StreetID: 1, State: domain.SpaceAvailable})

	s, err := New(db, nil).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	counts := map[string]int64{}
	for _, st := range s.Stats {
		counts[st.Label] = st.Value
	}
	if counts["Zones"] != 1 || counts["Parking spaces"] != 3 || counts["Users"] != 0 {
		t.Errorf("counts = %v", counts)
	}
	if s.Occupancy[domain.SpaceOccupied] != 2 || s.Occupancy[domain.SpaceAvailable] != 1 || s.Occupancy[domain.SpaceReserved] != 0 {
		t.Errorf("occupancy = %v", s.Occupancy)
	}
	if _, ok := s.Occupancy[domain.SpaceMaintenance]; !ok {
		t.Error("occupancy omits states without spaces")
	}
}

func TestSampleChartsAligned(t *testing.T) {
	for _, c := range SampleCharts() {
		for _, s := range c.Series {
			if len(s.Values) != len(c.Labels) {
				t.Errorf("%s/%s has %d values for %d labels", c.ID, s.Name, len(s.Values), len(c.Labels))
			}
		}
	}
}

func TestRoutes(t *testing.T) {
	db := resourcetest.OpenDB(t)
	stub := `{{define "dashboard.html"}}{{.Title}}{{range .Summary.Stats}}|{{.Label}}={{.Value}}{{end}}{{end}}`
	r := resourcetest.Router(t, stub, New(db, nil))

	w := resourcetest.Do(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "Dashboard|Zones=0") {
		t.Errorf("page = %d %s", w.Code, w.Body.String())
	}

	w = resourcetest.Do(r, http.MethodGet, "/api/v1/dashboard", nil)
	var resp struct {
		Data Summary `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Charts) != 2 || len(resp.Data.Stats) != 6 {
		t.Errorf("summary = %+v", resp.Data)
	}
}
