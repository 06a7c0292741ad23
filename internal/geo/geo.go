// Package geo parses and validates the street paths and parking-space
// markers exchanged with the map widgets.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/simp-lee/parkadmin/internal/domain"
)

// LatLng is one map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that the coordinate lies on the globe.
func (p LatLng) Validate() error {
	if err := p.checkRange(); err != nil {
		return domain.NewAppError(domain.CodeValidation, err.Error(), nil)
	}
	return nil
}

func (p LatLng) checkRange() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lng)
	}
	return nil
}

// ParsePath decodes a path serialised as JSON text. Each point may be a
// [lat, lng] pair or a {"lat": .., "lng": ..} object, and the two encodings
// may be mixed. Blank input is an empty path.
func ParsePath(text string) ([]LatLng, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !gjson.Valid(text) {
		return nil, domain.NewAppError(domain.CodeValidation, "path must be valid JSON", nil)
	}

	root := gjson.Parse(text)
	if !root.IsArray() {
		return nil, domain.NewAppError(domain.CodeValidation, "path must be a JSON array of points", nil)
	}

	items := root.Array()
	points := make([]LatLng, 0, len(items))
	for i, value := range items {
		p, err := parsePoint(value)
		if err != nil {
			return nil, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("point %d: %s", i+1, err.Error()), nil)
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(v gjson.Result) (LatLng, error) {
	var lat, lng gjson.Result
	switch {
	case v.IsArray():
		pair := v.Array()
		if len(pair) != 2 {
			return LatLng{}, fmt.Errorf("expected [lat, lng], got %d values", len(pair))
		}
		lat, lng = pair[0], pair[1]
	case v.IsObject():
		lat, lng = v.Get("lat"), v.Get("lng")
	default:
		return LatLng{}, fmt.Errorf("expected [lat, lng] or {lat, lng}, got %s", v.Type)
	}

	if lat.Type != gjson.Number || lng.Type != gjson.Number {
		return LatLng{}, errors.New("lat and lng must be numbers")
	}
	p := LatLng{Lat: lat.Float(), Lng: lng.Float()}
	if err := p.checkRange(); err != nil {
		return LatLng{}, err
	}
	return p, nil
}

// EncodePath serialises points in the canonical object form.
func EncodePath(points []LatLng) string {
	if len(points) == 0 {
		return "[]"
	}
	b, err := json.Marshal(points)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// NormalizePath parses text and re-encodes it canonically. Empty input stays
// empty.
func NormalizePath(text string) (string, error) {
	points, err := ParsePath(text)
	if err != nil {
		return "", err
	}
	if len(points) == 0 {
		return "", nil
	}
	return EncodePath(points), nil
}

// Centroid is the arithmetic mean of points, used to centre a map on a path.
func Centroid(points []LatLng) (LatLng, bool) {
	if len(points) == 0 {
		return LatLng{}, false
	}
	var c LatLng
	for _, p := range points {
		c.Lat += p.Lat
		c.Lng += p.Lng
	}
	n := float64(len(points))
	return LatLng{Lat: c.Lat / n, Lng: c.Lng / n}, true
}
