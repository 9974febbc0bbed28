package directions

import "fmt"

// TextValue is the Google Directions {text, value} pair. Value carries the
// unit that matters: seconds for durations.
type TextValue struct {
	Text  string `json:"text,omitempty"`
	Value int    `json:"value"`
}

// LatLng is a coordinate pair in a directions response.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the pair as "lat,lng" for use in request parameters.
func (p LatLng) String() string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// Step is an atomic portion of a leg using a single travel mode.
type Step struct {
	TravelMode string    `json:"travel_mode"`
	Duration   TextValue `json:"duration"`
	Distance   TextValue `json:"distance,omitempty"`
}

// Leg is one continuous segment of a route between two waypoints.
type Leg struct {
	Duration      TextValue `json:"duration"`
	Distance      TextValue `json:"distance,omitempty"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
	StartAddress  string    `json:"start_address,omitempty"`
	EndAddress    string    `json:"end_address,omitempty"`
	Steps         []Step    `json:"steps"`
}

// Fare is the optional transit fare attached at the route level.
type Fare struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Text     string  `json:"text,omitempty"`
}

// Route is one candidate route returned by the provider.
type Route struct {
	Summary string `json:"summary,omitempty"`
	Legs    []Leg  `json:"legs"`
	Fare    *Fare  `json:"fare,omitempty"`
}

// Cost returns the route fare value, or 0 when the provider attached none.
func (r Route) Cost() float64 {
	if r.Fare == nil {
		return 0
	}
	return r.Fare.Value
}

// Endpoints returns the route's overall start and end locations, taken from
// the first leg's start and the last leg's end. ok is false for a route with
// no legs.
func (r Route) Endpoints() (start, end LatLng, ok bool) {
	if len(r.Legs) == 0 {
		return LatLng{}, LatLng{}, false
	}
	return r.Legs[0].StartLocation, r.Legs[len(r.Legs)-1].EndLocation, true
}
