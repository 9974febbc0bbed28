package hunt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aptscout/aptscout/internal/model"
)

func TestFormatMessage(t *testing.T) {
	listing := model.Listing{
		Name:  "Sunny 2BR near BART",
		URL:   "https://sfbay.craigslist.org/apa/7001.html",
		Price: 3200,
	}
	ann := model.Annotation{
		Area:      "rockridge",
		AreaFound: true,
		Commutes: []model.CommuteOption{
			{
				Commuter: "alice",
				Mode:     "transit",
				TimeMin:  map[string]float64{"TRANSIT": 22, "WALKING": 8},
				TotalMin: 31,
				ExtraMin: 1,
				Fare:     3.75,
				Steps:    map[string]int{"TRANSIT": 2, "WALKING": 3},
				MapsURL:  "https://tiny.example/abc",
			},
		},
	}

	got := FormatMessage(listing, ann)
	assert.Equal(t,
		"rockridge | $3200 | Sunny 2BR near BART | <https://sfbay.craigslist.org/apa/7001.html>\n"+
			"alice | 2 steps | $3.75 | Total:31 TRANSIT:22 WALKING:8 Extra:1 | <https://tiny.example/abc|map>",
		got)
}

func TestFormatMessageNoMapsURL(t *testing.T) {
	ann := model.Annotation{
		Area:      "adams point",
		AreaFound: true,
		Commutes: []model.CommuteOption{
			{Commuter: "bob", Mode: "walking", TimeMin: map[string]float64{"WALKING": 12}, TotalMin: 12},
		},
	}
	got := FormatMessage(model.Listing{Name: "Studio", URL: "http://x", Price: 1800}, ann)
	assert.Equal(t,
		"adams point | $1800 | Studio | <http://x>\n"+
			"bob | 0 steps | $0.00 | Total:12 WALKING:12 Extra:0",
		got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "quiet street", "quiet street"},
		{"diacritics folded", "Fantástico depto en Cañón", "Fantastico depto en Canon"},
		{"invalid utf8 stripped", "ok\xffok", "okok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}
