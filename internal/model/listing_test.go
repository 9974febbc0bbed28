package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitSteps(t *testing.T) {
	opt := CommuteOption{Steps: map[string]int{"TRANSIT": 2, "WALKING": 5}}
	assert.Equal(t, 2, opt.TransitSteps())

	assert.Zero(t, CommuteOption{}.TransitSteps())
}

func TestAnnotationAccepted(t *testing.T) {
	tests := []struct {
		name string
		ann  Annotation
		want bool
	}{
		{"area and commutes", Annotation{AreaFound: true, Commutes: []CommuteOption{{}}}, true},
		{"area without commutes", Annotation{AreaFound: true}, false},
		{"commutes without area", Annotation{Commutes: []CommuteOption{{}}}, false},
		{"empty", Annotation{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ann.Accepted())
		})
	}
}
