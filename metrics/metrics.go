// Package metrics provides Prometheus metrics for the round trader.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"round-trader/order"
)

// Config 监控配置
type Config struct {
	Namespace   string
	ConstLabels prometheus.Labels // 例如 session，用于并发回放时区分
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Namespace: "rt"}
}

// Recorder 持有独立的 registry，多个会话可以各自统计互不冲突。
// nil Recorder 的所有方法都是空操作。
type Recorder struct {
	registry *prometheus.Registry

	rounds        prometheus.Counter
	decideLatency prometheus.Histogram
	orders        *prometheus.CounterVec
	filled        *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	position      *prometheus.GaugeVec
	pnl           prometheus.Gauge
}

// New 创建新的 Recorder 实例
func New(cfg Config) *Recorder {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultConfig().Namespace
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	ns, cl := cfg.Namespace, cfg.ConstLabels

	return &Recorder{
		registry: reg,
		rounds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "rounds_total", ConstLabels: cl,
			Help: "Rounds decided.",
		}),
		decideLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "decide_seconds", ConstLabels: cl,
			Help:    "Time spent in one Decide call.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		orders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "orders_total", ConstLabels: cl,
			Help: "Orders emitted by symbol and strategy.",
		}, []string{"symbol", "strategy"}),
		filled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "filled_quantity_total", ConstLabels: cl,
			Help: "Filled quantity by symbol and side.",
		}, []string{"symbol", "side"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "rejected_batches_total", ConstLabels: cl,
			Help: "Batches dropped by the pre-trade check.",
		}, []string{"reason"}),
		position: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "position", ConstLabels: cl,
			Help: "Net position by symbol.",
		}, []string{"symbol"}),
		pnl: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "pnl", ConstLabels: cl,
			Help: "Marked-to-mid PnL.",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler 返回 /metrics 的 http.Handler
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRound 记录一轮决策及其耗时
func (r *Recorder) ObserveRound(latency time.Duration) {
	if r == nil {
		return
	}
	r.rounds.Inc()
	r.decideLatency.Observe(latency.Seconds())
}

// OrderEmitted 记录子策略发出的订单
func (r *Recorder) OrderEmitted(strategy string, o order.Order) {
	if r == nil {
		return
	}
	r.orders.WithLabelValues(o.Symbol, strategy).Inc()
}

// Filled 记录成交数量
func (r *Recorder) Filled(o order.Order, qty int) {
	if r == nil || qty <= 0 {
		return
	}
	r.filled.WithLabelValues(o.Symbol, string(o.Side())).Add(float64(qty))
}

// BatchRejected 记录被风控拒绝的整批订单
func (r *Recorder) BatchRejected(reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(reason).Inc()
}

// SetPositions 更新各品种净仓位；positions 中缺失的已知品种归零。
func (r *Recorder) SetPositions(symbols []string, positions map[string]int) {
	if r == nil {
		return
	}
	for _, sym := range symbols {
		r.position.WithLabelValues(sym).Set(float64(positions[sym]))
	}
}

// SetPnL 更新盯市盈亏
func (r *Recorder) SetPnL(v float64) {
	if r == nil {
		return
	}
	r.pnl.Set(v)
}

// StartMetricsServer 启动Prometheus指标服务器，ctx 结束时优雅关闭。
func StartMetricsServer(ctx context.Context, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
