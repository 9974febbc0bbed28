// Package model holds the data types shared across the scout pipeline.
package model

import "time"

// Geotag is a latitude/longitude pair attached to a listing.
type Geotag struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is one apartment posting as produced by the listing source.
type Listing struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Price     float64   `json:"price"`
	Bedrooms  int       `json:"bedrooms"`
	Geotag    *Geotag   `json:"geotag,omitempty"`
	Where     string    `json:"where"`
	PostedAt  time.Time `json:"posted_at,omitzero"`
	SourceID  string    `json:"source_id,omitempty"`
	HasImage  bool      `json:"has_image,omitempty"`
}

// CommuteOption is one accepted commute for a single commuter: the cheapest
// route that passed every configured limit. Never mutated after construction.
type CommuteOption struct {
	Commuter string             `json:"commuter"`
	Mode     string             `json:"mode"`
	TimeMin  map[string]float64 `json:"time_min"`
	TotalMin float64            `json:"total_min"`
	ExtraMin float64            `json:"extra_min"`
	Fare     float64            `json:"fare"`
	Steps    map[string]int     `json:"steps"`
	MapsURL  string             `json:"maps_url,omitempty"`
}

// TransitSteps returns the number of TRANSIT steps in the option.
func (o CommuteOption) TransitSteps() int {
	return o.Steps["TRANSIT"]
}

// Annotation is the result of classifying and commute-checking one listing.
// Commutes is non-empty only when every configured commuter had at least one
// passing option; otherwise it is forced empty.
type Annotation struct {
	Area      string          `json:"area"`
	AreaFound bool            `json:"area_found"`
	Commutes  []CommuteOption `json:"commutes"`
}

// Accepted reports whether the listing should be posted: it landed in a known
// area and every commuter found a passing commute.
func (a Annotation) Accepted() bool {
	return a.AreaFound && len(a.Commutes) > 0
}
