package binanceclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "key", SecretKey: "secret", Logger: &mockLogger{}})
	require.NoError(t, err)
	c.futuresClient.BaseURL = baseURL
	return c
}

func TestPricePrecisionFor(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, `{"symbols":[{"symbol":"DOGEUSDT","pricePrecision":7},{"symbol":"BTCUSDT","pricePrecision":2}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	assert.Equal(t, 7, c.pricePrecisionFor(ctx, "DOGEUSDT"))
	assert.Equal(t, 2, c.pricePrecisionFor(ctx, "BTCUSDT"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests), "the symbol table is cached after the first lookup")

	assert.Equal(t, defaultPricePrecision, c.pricePrecisionFor(ctx, "UNLISTED"))
}

func TestPricePrecisionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	assert.Equal(t, defaultPricePrecision, c.pricePrecisionFor(context.Background(), "DOGEUSDT"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "70.00", formatPrice(70, 2))
	assert.Equal(t, "160.00", formatPrice(160, 2))
	assert.Equal(t, "0.0723456", formatPrice(0.0723456, 7))
	assert.Equal(t, "178", formatPrice(178, 0))
}
