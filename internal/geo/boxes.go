// Package geo classifies listing coordinates into named neighborhood areas.
package geo

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Area is one named bounding box with normalized bounds.
type Area struct {
	Name   string
	bounds *geom.Bounds
}

// Contains reports whether the point lies strictly inside the area's
// normalized lat/lng ranges. Points on the boundary are not contained.
func (a Area) Contains(lat, lng float64) bool {
	b := a.bounds
	return lng > b.Min(0) && lng < b.Max(0) && lat > b.Min(1) && lat < b.Max(1)
}

// LoadBoxes builds the ordered area list from raw config corners. Corner
// ordering in config is not trusted: bounds are normalized to min/max per
// axis. Priority is the explicit order when given, otherwise name-sorted, so
// overlapping boxes resolve deterministically (first match wins).
func LoadBoxes(raw map[string][][]float64, order []string) ([]Area, error) {
	if len(order) == 0 {
		order = make([]string, 0, len(raw))
		for name := range raw {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	areas := make([]Area, 0, len(order))
	for _, name := range order {
		corners, ok := raw[name]
		if !ok {
			return nil, eris.Errorf("geo: box order names unknown box %q", name)
		}
		if len(corners) != 2 || len(corners[0]) != 2 || len(corners[1]) != 2 {
			return nil, eris.Errorf("geo: box %q must be two [lat, lng] corners", name)
		}

		// Corners arrive as [lat, lng]; bounds are stored X=lng, Y=lat.
		minLat := math.Min(corners[0][0], corners[1][0])
		maxLat := math.Max(corners[0][0], corners[1][0])
		minLng := math.Min(corners[0][1], corners[1][1])
		maxLng := math.Max(corners[0][1], corners[1][1])

		areas = append(areas, Area{
			Name:   name,
			bounds: geom.NewBounds(geom.XY).Set(minLng, minLat, maxLng, maxLat),
		})
	}
	return areas, nil
}
