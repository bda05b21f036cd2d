package bodyfat

// Estimator is a pre-trained regression model.
// Predict must be deterministic for identical input and loaded state.
type Estimator interface {
	Predict(vector FeatureVector) (float64, error)
}

// FeatureCounter is implemented by estimators that know their input width,
// letting the registry reject a model wired to the wrong variant at startup.
type FeatureCounter interface {
	FeatureCount() int
}

// Closer is implemented by estimators holding native resources
type Closer interface {
	Close()
}
