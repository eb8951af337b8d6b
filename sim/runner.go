package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"round-trader/infrastructure/logger"
	"round-trader/inventory"
	"round-trader/market"
	"round-trader/metrics"
	"round-trader/monitor/roundlog"
	"round-trader/order"
	"round-trader/posttrade"
	"round-trader/risk"
	"round-trader/strategy"
)

// Runner 将 快照 -> 决策 -> 风控复核 -> 下单 -> 回合日志 串起来。
// Exchange 为 nil 时只做决策与记录（快照里的仓位由外部撮合方提供）。
type Runner struct {
	Exchange *Exchange
	OrderMgr *order.Manager
	Inv      *inventory.Tracker
	// Risk 是仓位上限之外的附加复核；仓位上限总是取当前 Trader 的 Limits，
	// 热加载换入的新上限在下一轮即生效。
	Risk     risk.Guard
	Breaker  *risk.CircuitBreaker // 每轮喂入 mid；作为 Guard 时也需放进 Risk
	Analyzer *posttrade.Analyzer
	Metrics  *metrics.Recorder
	Log      *logger.Logger
	Rounds   *roundlog.Writer

	trader atomic.Pointer[strategy.Trader]
	buf    roundlog.Buffer
	stats  Summary
}

// Summary 汇总一次会话。
type Summary struct {
	Rounds   int
	Orders   int
	Rejected int
	Canceled int
	PnL      posttrade.Stats
}

// SetTrader 替换决策核心；正在进行的回合不受影响，下一轮生效。
func (r *Runner) SetTrader(t *strategy.Trader) {
	if t != nil && r.Metrics != nil {
		t.OnEmit(r.Metrics.OrderEmitted)
	}
	r.trader.Store(t)
}

// Trader returns the decision core used for the next round.
func (r *Runner) Trader() *strategy.Trader { return r.trader.Load() }

// Step 处理一轮快照并返回实际放行的订单。
func (r *Runner) Step(snap *market.Snapshot) (order.Batch, error) {
	tr := r.trader.Load()
	if tr == nil {
		return nil, errors.New("runner not initialized")
	}
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	if r.Exchange != nil {
		// 仓位与自有成交以模拟撮合为准
		s := snap.WithPositions(r.Exchange.Inventory().Positions(), r.Exchange.OwnTrades())
		snap = &s
	}
	roundMids := mids(snap)
	if r.Analyzer != nil {
		r.Analyzer.OnRound(roundMids)
	}
	if r.Breaker != nil {
		r.Breaker.OnRound(roundMids)
	}

	start := time.Now()
	batch := tr.Decide(snap, &r.buf)
	latency := time.Since(start)
	r.Metrics.ObserveRound(latency)
	r.stats.Rounds++

	guard := risk.MultiGuard{Guards: []risk.Guard{tr.Limits(), r.Risk}}
	if err := guard.CheckBatch(batch, snap); err != nil {
		r.stats.Rejected++
		r.Metrics.BatchRejected(reason(err))
		r.buf.Printf("batch rejected: %v", err)
		if r.Log != nil {
			r.Log.LogRisk("batch_rejected", map[string]interface{}{"round_ts": snap.Timestamp, "reason": err.Error()})
		}
		batch = order.Batch{}
	}
	r.stats.Orders += batch.Count()

	if r.Exchange != nil && r.OrderMgr != nil {
		r.Exchange.BeginRound(snap)
		for _, o := range batch.Flatten() {
			placed, err := r.OrderMgr.Submit(o)
			if err != nil {
				r.buf.Printf("submit %s: %v", o, err)
				if r.Log != nil {
					r.Log.LogError(err, map[string]interface{}{"order": o.String()})
				}
				continue
			}
			if r.Log != nil {
				r.Log.LogOrder("submitted", *placed, nil)
			}
		}
		r.stats.Canceled += r.OrderMgr.CancelOpen()
		// IOC：本轮结束后所有订单都已终态，不跨轮保留
		r.OrderMgr.Reset()
	}
	if r.Log != nil {
		r.Log.LogRound(snap.Timestamp, batch.Count(), latency, nil)
	}

	if r.Rounds != nil {
		if err := r.Rounds.Flush(&r.buf, snap, batch); err != nil {
			return batch, err
		}
	} else {
		r.buf.Reset()
	}
	if r.Metrics != nil && r.Inv != nil {
		r.Metrics.SetPositions(snap.Symbols(), r.Inv.Positions())
	}
	if r.Metrics != nil && r.Analyzer != nil {
		eq, _ := r.Analyzer.Stats().Equity.Float64()
		r.Metrics.SetPnL(eq)
	}
	return batch, nil
}

// Run 逐轮消费 src 直到 io.EOF 或 ctx 结束。
func (r *Runner) Run(ctx context.Context, src Source) (Summary, error) {
	for {
		if err := ctx.Err(); err != nil {
			return r.Summary(), err
		}
		snap, err := src.Next()
		if errors.Is(err, io.EOF) {
			return r.Summary(), nil
		}
		if err != nil {
			return r.Summary(), fmt.Errorf("next snapshot: %w", err)
		}
		if _, err := r.Step(snap); err != nil {
			return r.Summary(), fmt.Errorf("round %d: %w", snap.Timestamp, err)
		}
	}
}

// Summary returns the running totals.
func (r *Runner) Summary() Summary {
	s := r.stats
	if r.Analyzer != nil {
		s.PnL = r.Analyzer.Stats()
	}
	return s
}

func mids(snap *market.Snapshot) map[string]float64 {
	out := make(map[string]float64, len(snap.OrderDepths))
	for sym, d := range snap.OrderDepths {
		if m, ok := d.Mid(); ok {
			out[sym] = m
		}
	}
	return out
}

func reason(err error) string {
	switch {
	case errors.Is(err, risk.ErrPositionLimit):
		return "position_limit"
	case errors.Is(err, risk.ErrCircuitOpen):
		return "circuit_open"
	}
	return "other"
}
