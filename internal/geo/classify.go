package geo

import (
	"strings"

	"github.com/aptscout/aptscout/internal/model"
)

// Classifier resolves a listing to a named area, first by bounding box, then
// by matching the listing's free-text location against known neighborhood
// names.
type Classifier struct {
	areas         []Area
	neighborhoods []neighborhood
}

type neighborhood struct {
	name    string
	lowered string
}

// NewClassifier creates a Classifier over ordered areas and neighborhood
// names. Both lists are priority-ordered: the first match wins. Neighborhood
// matching is case-insensitive regardless of how names are configured.
func NewClassifier(areas []Area, neighborhoods []string) *Classifier {
	hoods := make([]neighborhood, 0, len(neighborhoods))
	for _, name := range neighborhoods {
		hoods = append(hoods, neighborhood{name: name, lowered: strings.ToLower(name)})
	}
	return &Classifier{areas: areas, neighborhoods: hoods}
}

// Classify returns the area name for a listing position. A nil geotag skips
// the box pass. found is true only when a box or neighborhood matched; no
// match returns ("", false).
func (c *Classifier) Classify(geotag *model.Geotag, where string) (area string, found bool) {
	if geotag != nil {
		for _, a := range c.areas {
			if a.Contains(geotag.Lat, geotag.Lng) {
				return a.Name, true
			}
		}
	}

	lowered := strings.ToLower(where)
	for _, hood := range c.neighborhoods {
		if strings.Contains(lowered, hood.lowered) {
			return hood.name, true
		}
	}

	return "", false
}
