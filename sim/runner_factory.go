package sim

import (
	"io"

	"round-trader/config"
	"round-trader/infrastructure/logger"
	"round-trader/inventory"
	"round-trader/metrics"
	"round-trader/monitor/roundlog"
	"round-trader/order"
	"round-trader/posttrade"
	"round-trader/risk"
	"round-trader/strategy"
)

// Options 是 BuildRunner 的可选依赖，均可为 nil。
type Options struct {
	Metrics  *metrics.Recorder
	Log      *logger.Logger
	RoundLog io.Writer
	// Simulate 为 true 时接入模拟撮合，仓位由模拟成交推进。
	Simulate bool
	// MaxFills 限制成交后分析保留的成交数，0 为不限制。
	MaxFills int
}

// BuildRunner 基于配置快速组装 Runner（使用内存组件，适合离线/仿真）。
func BuildRunner(cfg config.AppConfig, opt Options) (*Runner, error) {
	trader, err := strategy.NewTraderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		Metrics: opt.Metrics,
		Log:     opt.Log,
	}
	if cfg.Risk.CircuitThreshold > 0 {
		r.Breaker = risk.NewCircuitBreaker(cfg.Risk.CircuitWindow, cfg.Risk.CircuitThreshold)
		r.Risk = r.Breaker
	}
	if opt.RoundLog != nil {
		r.Rounds = roundlog.NewWriter(opt.RoundLog)
	}
	if opt.Simulate {
		tr := &inventory.Tracker{}
		analyzer := posttrade.NewAnalyzer(opt.MaxFills)
		ex := NewExchange(tr)
		ex.OnFill = func(o order.Order, price, qty int) {
			analyzer.OnFill(o, price, qty)
			opt.Metrics.Filled(o, qty)
		}
		r.Exchange = ex
		r.Inv = tr
		r.Analyzer = analyzer
		r.OrderMgr = order.NewManager(ex)
	}
	r.SetTrader(trader)
	return r, nil
}
