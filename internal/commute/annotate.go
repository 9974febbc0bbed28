package commute

import (
	"context"

	"github.com/aptscout/aptscout/internal/geo"
	"github.com/aptscout/aptscout/internal/model"
)

// Annotator combines area classification and commute evaluation into the
// annotation attached to a listing.
type Annotator struct {
	classifier *geo.Classifier
	evaluator  *Evaluator
}

// NewAnnotator creates an Annotator.
func NewAnnotator(classifier *geo.Classifier, evaluator *Evaluator) *Annotator {
	return &Annotator{classifier: classifier, evaluator: evaluator}
}

// Annotate classifies the listing into an area and, when the area is known
// and the listing carries coordinates, evaluates commutes for every
// configured commuter. AreaFound means a box or neighborhood matched; it is
// independent of whether the commute gate passed. Listings outside every
// known area skip commute evaluation entirely, so no provider calls are
// spent on them.
func (a *Annotator) Annotate(ctx context.Context, listing model.Listing) (model.Annotation, error) {
	area, found := a.classifier.Classify(listing.Geotag, listing.Where)
	ann := model.Annotation{Area: area, AreaFound: found}

	if !found || listing.Geotag == nil {
		return ann, nil
	}

	commutes, err := a.evaluator.Evaluate(ctx, *listing.Geotag)
	if err != nil {
		return ann, err
	}
	ann.Commutes = commutes
	return ann, nil
}
