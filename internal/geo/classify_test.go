package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptscout/aptscout/internal/model"
)

func testAreas(t *testing.T) []Area {
	t.Helper()
	areas, err := LoadBoxes(map[string][][]float64{
		"rockridge": {
			{37.83826, -122.24073},
			{37.84680, -122.25944},
		},
		"piedmont": {
			{37.82240, -122.24768},
			{37.83237, -122.25386},
		},
	}, []string{"rockridge", "piedmont"})
	require.NoError(t, err)
	return areas
}

func TestClassifyInsideBox(t *testing.T) {
	c := NewClassifier(testAreas(t), nil)

	area, found := c.Classify(&model.Geotag{Lat: 37.8425, Lng: -122.2500}, "")
	assert.True(t, found)
	assert.Equal(t, "rockridge", area)
}

func TestClassifyBoxCornersInEitherOrder(t *testing.T) {
	// Same box with corners swapped: containment must not depend on corner
	// ordering in config.
	swapped, err := LoadBoxes(map[string][][]float64{
		"rockridge": {
			{37.84680, -122.25944},
			{37.83826, -122.24073},
		},
	}, nil)
	require.NoError(t, err)

	c := NewClassifier(swapped, nil)
	area, found := c.Classify(&model.Geotag{Lat: 37.8425, Lng: -122.2500}, "")
	assert.True(t, found)
	assert.Equal(t, "rockridge", area)
}

func TestClassifyBoundaryIsOutside(t *testing.T) {
	c := NewClassifier(testAreas(t), nil)

	_, found := c.Classify(&model.Geotag{Lat: 37.83826, Lng: -122.2500}, "")
	assert.False(t, found)
}

func TestClassifyOverlapFirstMatchWins(t *testing.T) {
	areas, err := LoadBoxes(map[string][][]float64{
		"inner": {
			{37.80, -122.20},
			{37.90, -122.30},
		},
		"outer": {
			{37.00, -122.00},
			{38.00, -123.00},
		},
	}, []string{"inner", "outer"})
	require.NoError(t, err)

	c := NewClassifier(areas, nil)
	area, found := c.Classify(&model.Geotag{Lat: 37.85, Lng: -122.25}, "")
	assert.True(t, found)
	assert.Equal(t, "inner", area)
}

func TestClassifyNeighborhoodFallback(t *testing.T) {
	c := NewClassifier(testAreas(t), []string{"adams point", "berkeley"})

	area, found := c.Classify(&model.Geotag{Lat: 0, Lng: 0}, "North Berkeley Hills")
	assert.True(t, found)
	assert.Equal(t, "berkeley", area)

	// No geotag at all still falls through to the text pass.
	area, found = c.Classify(nil, "near Adams Point!")
	assert.True(t, found)
	assert.Equal(t, "adams point", area)
}

func TestClassifyNeighborhoodCaseInsensitiveConfig(t *testing.T) {
	c := NewClassifier(nil, []string{"Adams Point", "Rockridge"})

	area, found := c.Classify(nil, "cozy 2br in lower rockridge")
	assert.True(t, found)
	assert.Equal(t, "Rockridge", area)

	area, found = c.Classify(nil, "ADAMS POINT charmer")
	assert.True(t, found)
	assert.Equal(t, "Adams Point", area)
}

func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier(testAreas(t), []string{"berkeley"})

	area, found := c.Classify(&model.Geotag{Lat: 10, Lng: 10}, "somewhere else entirely")
	assert.False(t, found)
	assert.Equal(t, "", area)
}

func TestLoadBoxesRejectsMalformed(t *testing.T) {
	_, err := LoadBoxes(map[string][][]float64{"bad": {{1.0}}}, nil)
	require.Error(t, err)

	_, err = LoadBoxes(map[string][][]float64{"ok": {{1, 2}, {3, 4}}}, []string{"missing"})
	require.Error(t, err)
}

func TestLoadBoxesDefaultOrderIsSorted(t *testing.T) {
	areas, err := LoadBoxes(map[string][][]float64{
		"zebra": {{1, 1}, {2, 2}},
		"alpha": {{1, 1}, {2, 2}},
	}, nil)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "alpha", areas[0].Name)
	assert.Equal(t, "zebra", areas[1].Name)
}
