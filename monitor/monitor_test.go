package monitor

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStep(t *testing.T) {
	t.Parallel()

	m := New(DefaultConfig())
	m.ObserveStep(Step{AssetPrice: 1.5, PreHedgeDelta: 1, PortfolioPV: 1.485, PortfolioDelta: 0, HedgeStockAmount: -1}, time.Millisecond)
	m.ObserveStep(Step{AssetPrice: 1.6, PreHedgeDelta: 0.25, PortfolioPV: 1.49, PortfolioDelta: 0, HedgeStockAmount: 0.5}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.steps))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.hedgeTrades))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.hedgedShares))
	assert.Equal(t, 1.6, testutil.ToFloat64(m.assetPrice))
	assert.Equal(t, 1.49, testutil.ToFloat64(m.portfolioPV))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.preHedgeDelta))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stepDuration))
}

func TestObserveRun(t *testing.T) {
	t.Parallel()

	m := New(DefaultConfig())
	m.ObserveRun(nil)
	m.ObserveRun(nil)
	m.ObserveRun(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("error")))
}

func TestMonitorsAreIndependent(t *testing.T) {
	t.Parallel()

	a := New(DefaultConfig())
	b := New(DefaultConfig())
	a.ObserveStep(Step{}, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.steps))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.steps))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New(Config{Namespace: "test", Subsystem: "run"})
	m.ObserveStep(Step{AssetPrice: 2}, time.Microsecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "test_run_steps_total 1"))
	assert.True(t, strings.Contains(string(body), "test_run_asset_price 2"))
}
