package ports

// TrendModel is the external time-series model used for directional
// forecasts. Fitting internals are a black box to the engine; only the
// input/output contract matters.
type TrendModel interface {
	// FitForecast fits the model on the given close prices (oldest first)
	// and returns the mean of the forecast path over the given horizon.
	FitForecast(closes []float64, horizon int) (float64, error)
}

// VolatilityModel is the external conditional-volatility model.
type VolatilityModel interface {
	// FitForecast fits the model on the given returns (oldest first,
	// percent-scaled) and returns the one-step-ahead forecast standard
	// deviation.
	FitForecast(returns []float64) (float64, error)
}

// Classifier is the external supervised probability estimator. A fresh
// instance is trained every cycle; no model state survives a pass.
type Classifier interface {
	// Fit trains the classifier on feature rows X and binary labels y.
	Fit(X [][]float64, y []int) error

	// PredictProb returns the probability of the positive class for one
	// feature row.
	PredictProb(x []float64) (float64, error)
}

// ClassifierFactory produces a fresh, untrained classifier. The engine
// invokes it per symbol per cycle so no learning state leaks across passes.
type ClassifierFactory func() Classifier
