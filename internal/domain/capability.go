package domain

// Imputer fills missing categorical values using statistics learned at fit time.
type Imputer interface {
	// Transform returns row with nulls replaced. columns must equal the fitted
	// column list; otherwise an *ImputationError is returned.
	Transform(columns []string, row []Value) ([]Value, error)
}

// Scaler applies the affine transform fitted at training time.
type Scaler interface {
	// Transform returns a new vector of the same width. A vector whose width
	// differs from the fitted width yields a *ShapeMismatchError.
	Transform(x FeatureVector) (FeatureVector, error)
}

// Classifier produces a binary rain label for a scaled feature vector.
type Classifier interface {
	Predict(x FeatureVector) (int, error)
}

// Scorer is implemented by classifiers that produce the label and the
// positive-class probability from a single inference.
type Scorer interface {
	Score(x FeatureVector) (label int, proba float64, err error)
}

// ProbabilityEstimator is implemented by classifiers that can report the
// probability of the positive class, in [0, 1].
type ProbabilityEstimator interface {
	PredictProba(x FeatureVector) (float64, error)
}
