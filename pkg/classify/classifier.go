// Package classify defines the contract between the feature pipeline and
// the injury-risk classifier, plus the risk-level interpretation layer on
// top of raw probabilities. The classifier itself is a collaborator: any
// implementation satisfying Classifier can be plugged in.
package classify

import (
	"github.com/oyabun/tendon/pkg/model"
)

// Classifier scores a single feature vector.
type Classifier interface {
	// Predict returns an injury-risk probability in [0, 1]. Rows without
	// the minimum required history yield an error wrapping
	// model.ErrInsufficientHistory.
	Predict(fv *model.FeatureVector) (float64, error)

	// Schema returns the exact feature field identifiers the classifier
	// was trained against.
	Schema() []string
}
