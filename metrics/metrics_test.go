package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"round-trader/order"
)

func TestRecorderCounters(t *testing.T) {
	r := New(DefaultConfig())
	r.ObserveRound(2 * time.Millisecond)
	r.ObserveRound(time.Millisecond)
	r.OrderEmitted("fixed_fair:PEARLS", order.New("PEARLS", 9999, 5))
	r.OrderEmitted("fixed_fair:PEARLS", order.New("PEARLS", 10001, -5))
	r.Filled(order.New("PEARLS", 9999, 5), 3)
	r.Filled(order.New("PEARLS", 9999, 5), 0)
	r.BatchRejected("position_limit")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.rounds))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.orders.WithLabelValues("PEARLS", "fixed_fair:PEARLS")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.filled.WithLabelValues("PEARLS", "BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("position_limit")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.decideLatency))
}

func TestRecorderGauges(t *testing.T) {
	r := New(Config{Namespace: "test", ConstLabels: prometheus.Labels{"session": "a"}})
	r.SetPositions([]string{"PEARLS", "BANANAS"}, map[string]int{"PEARLS": -7})
	r.SetPnL(12.5)
	assert.Equal(t, -7.0, testutil.ToFloat64(r.position.WithLabelValues("PEARLS")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.position.WithLabelValues("BANANAS")))
	assert.Equal(t, 12.5, testutil.ToFloat64(r.pnl))

	expected := `
# HELP test_pnl Marked-to-mid PnL.
# TYPE test_pnl gauge
test_pnl{session="a"} 12.5
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "test_pnl"))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveRound(time.Second)
	r.OrderEmitted("x", order.New("PEARLS", 1, 1))
	r.SetPnL(1)
	r.BatchRejected("x")
}

func TestHandler(t *testing.T) {
	r := New(DefaultConfig())
	r.ObserveRound(time.Millisecond)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "rt_rounds_total 1")
}

func TestStartMetricsServerStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartMetricsServer(ctx, "127.0.0.1:0", New(DefaultConfig()).Handler()) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
