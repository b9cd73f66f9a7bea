package probability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockClassifier struct {
	fitX   [][]float64
	fitY   []int
	fitErr error

	predictX []float64
	prob     float64
	probErr  error
}

func (m *mockClassifier) Fit(X [][]float64, y []int) error {
	m.fitX, m.fitY = X, y
	return m.fitErr
}

func (m *mockClassifier) PredictProb(x []float64) (float64, error) {
	m.predictX = x
	return m.prob, m.probErr
}

func factoryFor(c *mockClassifier) ports.ClassifierFactory {
	return func() ports.Classifier { return c }
}

// risingFrame builds n rows with strictly rising closes and distinct
// feature values per row.
func risingFrame(n int) domain.IndicatorFrame {
	rows := make([]domain.IndicatorRow, n)
	for i := range rows {
		f := float64(i)
		rows[i] = domain.IndicatorRow{
			Close: 100 + f,
			RSI:   50 + f/10,
			MACD:  f / 100,
			SMA20: 99 + f,
			SMA50: 98 + f,
		}
	}
	return domain.IndicatorFrame{Rows: rows}
}

func TestTrainAndPredict(t *testing.T) {
	clf := &mockClassifier{prob: 0.8}
	adapter := New(factoryFor(clf), &mockLogger{})

	frame := risingFrame(35)
	prob, err := adapter.TrainAndPredict(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, 0.8, prob)

	// The most recent row is never trained on; it is what gets predicted.
	require.Len(t, clf.fitX, 34)
	require.Len(t, clf.fitY, 34)
	last := frame.Rows[34]
	assert.Equal(t, []float64{last.RSI, last.MACD, last.SMA20, last.SMA50}, clf.predictX)
}

func TestTrainAndPredictLabeling(t *testing.T) {
	clf := &mockClassifier{prob: 0.5}
	adapter := New(factoryFor(clf), &mockLogger{})

	_, err := adapter.TrainAndPredict(context.Background(), risingFrame(35))
	require.NoError(t, err)

	// With strictly rising closes every row whose 3-ahead close exists is
	// positive; the trailing rows with unknown outcome are labeled 0.
	for i, label := range clf.fitY {
		if i+3 < 35 {
			assert.Equal(t, 1, label, "row %d", i)
		} else {
			assert.Equal(t, 0, label, "row %d", i)
		}
	}
}

func TestTrainAndPredictTooFewRows(t *testing.T) {
	adapter := New(factoryFor(&mockClassifier{}), &mockLogger{})

	// 30 rows leaves only 29 training examples.
	_, err := adapter.TrainAndPredict(context.Background(), risingFrame(30))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrClassifierUnavailable)

	// 31 rows is exactly enough.
	_, err = adapter.TrainAndPredict(context.Background(), risingFrame(31))
	assert.NoError(t, err)
}

func TestTrainAndPredictClassifierErrors(t *testing.T) {
	t.Run("fit failure", func(t *testing.T) {
		clf := &mockClassifier{fitErr: errors.New("singular matrix")}
		adapter := New(factoryFor(clf), &mockLogger{})
		_, err := adapter.TrainAndPredict(context.Background(), risingFrame(35))
		assert.ErrorIs(t, err, ports.ErrClassifierUnavailable)
	})

	t.Run("predict failure", func(t *testing.T) {
		clf := &mockClassifier{probErr: errors.New("not fitted")}
		adapter := New(factoryFor(clf), &mockLogger{})
		_, err := adapter.TrainAndPredict(context.Background(), risingFrame(35))
		assert.ErrorIs(t, err, ports.ErrClassifierUnavailable)
	})

	t.Run("probability outside unit interval", func(t *testing.T) {
		clf := &mockClassifier{prob: 1.2}
		adapter := New(factoryFor(clf), &mockLogger{})
		_, err := adapter.TrainAndPredict(context.Background(), risingFrame(35))
		assert.ErrorIs(t, err, ports.ErrClassifierUnavailable)
	})
}
