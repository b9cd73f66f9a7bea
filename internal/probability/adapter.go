package probability

import (
	"context"
	"fmt"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

const (
	// labelHorizon is how many bars ahead the positive-return label looks.
	labelHorizon = 3
	// minTrainingRows is the smallest training set the adapter accepts.
	// Below this there is no safe probability fallback, so the symbol's
	// cycle fails hard and is handled at the orchestration boundary.
	minTrainingRows = 30
)

// Adapter wraps the external classifier. A fresh model is trained on
// every call so no learning state drifts across cycles.
type Adapter struct {
	newClassifier ports.ClassifierFactory
	logger        ports.Logger
}

// New creates a probability adapter around a classifier factory.
func New(factory ports.ClassifierFactory, logger ports.Logger) *Adapter {
	return &Adapter{newClassifier: factory, logger: logger}
}

// TrainAndPredict labels each frame row by whether the close 3 bars ahead
// exceeds that row's close, trains a classifier on every row except the
// most recent one, and returns the positive-class probability for the
// most recent row. Features are {RSI, MACD, SMA20, SMA50}.
func (a *Adapter) TrainAndPredict(ctx context.Context, frame domain.IndicatorFrame) (float64, error) {
	n := frame.Len()
	if n-1 < minTrainingRows {
		return 0, fmt.Errorf("%w: need %d training rows, frame has %d",
			ports.ErrClassifierUnavailable, minTrainingRows, n-1)
	}

	// Rows whose forward close is unknown are labeled negative rather than
	// dropped, mirroring the reference labeling.
	features := make([][]float64, n)
	labels := make([]int, n)
	for i, row := range frame.Rows {
		features[i] = featureVector(row)
		if i+labelHorizon < n && frame.Rows[i+labelHorizon].Close > row.Close {
			labels[i] = 1
		}
	}

	model := a.newClassifier()
	if err := model.Fit(features[:n-1], labels[:n-1]); err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrClassifierUnavailable, err)
	}

	prob, err := model.PredictProb(features[n-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrClassifierUnavailable, err)
	}
	if prob < 0 || prob > 1 {
		return 0, fmt.Errorf("%w: classifier returned probability %f outside [0,1]",
			ports.ErrClassifierUnavailable, prob)
	}
	a.logger.Debug(ctx, "Classifier trained", map[string]interface{}{"rows": n - 1, "probability": prob})
	return prob, nil
}

func featureVector(row domain.IndicatorRow) []float64 {
	return []float64{row.RSI, row.MACD, row.SMA20, row.SMA50}
}
