package geo

import (
	"reflect"
	"testing"

	"github.com/simp-lee/parkadmin/internal/domain"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []LatLng
	}{
		{"blank", "  ", nil},
		{"pairs", `[[51.5, -0.12], [51.51, -0.13]]`, []LatLng{{51.5, -0.12}, {51.51, -0.13}}},
		{"objects", `[{"lat": 40.7, "lng": -74}]`, []LatLng{{40.7, -74}}},
		{"mixed", `[[1, 2], {"lng": 4, "lat": 3}]`, []LatLng{{1, 2}, {3, 4}}},
		{"empty array", `[]`, []LatLng{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestParsePathRejects(t *testing.T) {
	inputs := map[string]string{
		"invalid json":     `[[1, 2]`,
		"not an array":     `{"lat": 1, "lng": 2}`,
		"short pair":       `[[1]]`,
		"string coords":    `[["1", "2"]]`,
		"missing lng":      `[{"lat": 1}]`,
		"scalar point":     `[42]`,
		"lat out of range": `[[91, 0]]`,
		"lng out of range": `[{"lat": 0, "lng": -181}]`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePath(input)
			if err == nil {
				t.Fatalf("ParsePath(%s) succeeded; want error", input)
			}
			if !domain.IsValidation(err) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestEncodePath(t *testing.T) {
	if got := EncodePath(nil); got != "[]" {
		t.Errorf("EncodePath(nil) = %q", got)
	}
	got := EncodePath([]LatLng{{1.5, 2}, {3, -4.25}})
	if want := `[{"lat":1.5,"lng":2},{"lat":3,"lng":-4.25}]`; got != want {
		t.Errorf("EncodePath() = %q; want %q", got, want)
	}
}

func TestNormalizePath(t *testing.T) {
	got, err := NormalizePath(`[[1, 2]]`)
	if err != nil {
		t.Fatalf("NormalizePath: %v", err)
	}
	if got != `[{"lat":1,"lng":2}]` {
		t.Errorf("NormalizePath() = %q", got)
	}

	if got, err := NormalizePath(""); err != nil || got != "" {
		t.Errorf("NormalizePath(\"\") = %q, %v", got, err)
	}
}

func TestValidate(t *testing.T) {
	if err := (LatLng{Lat: 90, Lng: -180}).Validate(); err != nil {
		t.Errorf("boundary point rejected: %v", err)
	}
	if err := (LatLng{Lat: -90.1}).Validate(); !domain.IsValidation(err) {
		t.Errorf("Validate() = %v; want validation error", err)
	}
}

func TestCentroid(t *testing.T) {
	if _, ok := Centroid(nil); ok {
		t.Error("Centroid(nil) ok = true")
	}
	c, ok := Centroid([]LatLng{{0, 0}, {2, 4}})
	if !ok || c != (LatLng{1, 2}) {
		t.Errorf("Centroid() = %v, %v", c, ok)
	}
}
