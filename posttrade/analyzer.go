package posttrade

import (
	"sync"

	"github.com/shopspring/decimal"

	"round-trader/order"
)

// FillRecord 记录一笔成交以及其后第 1、5 轮的 mid 价。
type FillRecord struct {
	Symbol    string
	Side      order.Side
	Price     int
	Quantity  int
	Round     int
	MidAfter1 float64
	MidAfter5 float64
}

// Stats contains statistics computed by the analyzer
type Stats struct {
	Rounds               int
	TotalFills           int
	AnalyzedFills        int
	Volume               int
	AdverseSelectionRate float64
	AvgMarkout1          float64 // 每单位的平均 markout，正数表示成交后价格朝有利方向走
	AvgMarkout5          float64
	Cash                 decimal.Decimal
	Equity               decimal.Decimal
	MaxDrawdown          decimal.Decimal
	Positions            map[string]int
}

// Analyzer 以轮次为时钟做成交后分析：现金、盯市权益、最大回撤与逆向选择。
type Analyzer struct {
	mu        sync.RWMutex
	round     int
	pending   []*FillRecord // 尚未拿到 +5 轮 mid 的成交
	fillCount int
	cash      decimal.Decimal
	positions map[string]int
	lastMid   map[string]float64
	peak      decimal.Decimal
	maxDD     decimal.Decimal
	volume    int
	maxKeep   int

	// markout 累计值，成交拿到对应轮次的 mid 时计入
	adverse, analyzed1, analyzed5 int
	qty1, qty5                    int
	sum1, sum5                    float64
}

// NewAnalyzer creates a new post-trade analyzer. maxKeep bounds the number of
// fills waiting for markouts; 0 means no bound. Fills leave the queue once
// their +5 round mid is known.
func NewAnalyzer(maxKeep int) *Analyzer {
	return &Analyzer{
		positions: make(map[string]int),
		lastMid:   make(map[string]float64),
		maxKeep:   maxKeep,
	}
}

// OnRound 推进一轮并更新 mid；缺失的品种沿用上一轮的 mid。
func (a *Analyzer) OnRound(mids map[string]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.round++
	for sym, m := range mids {
		if m > 0 {
			a.lastMid[sym] = m
		}
	}
	keep := a.pending[:0]
	for _, f := range a.pending {
		age := a.round - f.Round
		if mid, ok := a.lastMid[f.Symbol]; ok {
			switch age {
			case 1:
				f.MidAfter1 = mid
				a.markout1(f)
			case 5:
				f.MidAfter5 = mid
				a.markout5(f)
			}
		}
		if age < 5 {
			keep = append(keep, f)
		}
	}
	clear(a.pending[len(keep):])
	a.pending = keep
	a.recomputeEquity()
}

// OnFill records qty (positive) filled at price for the side of o.
func (a *Analyzer) OnFill(o order.Order, price, qty int) {
	if qty <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	notional := decimal.NewFromInt(int64(price)).Mul(decimal.NewFromInt(int64(qty)))
	side := o.Side()
	if side == order.SideBuy {
		a.cash = a.cash.Sub(notional)
		a.positions[o.Symbol] += qty
	} else {
		a.cash = a.cash.Add(notional)
		a.positions[o.Symbol] -= qty
	}
	if a.positions[o.Symbol] == 0 {
		delete(a.positions, o.Symbol)
	}
	a.volume += qty
	a.fillCount++
	a.pending = append(a.pending, &FillRecord{
		Symbol:   o.Symbol,
		Side:     side,
		Price:    price,
		Quantity: qty,
		Round:    a.round,
	})
	if a.maxKeep > 0 && len(a.pending) > a.maxKeep {
		a.pending = append(a.pending[:0], a.pending[len(a.pending)-a.maxKeep:]...)
	}
	a.recomputeEquity()
}

// markout 以成交方向为正：买入后上涨、卖出后下跌为正。
func sideSign(f *FillRecord) float64 {
	if f.Side == order.SideSell {
		return -1
	}
	return 1
}

func (a *Analyzer) markout1(f *FillRecord) {
	m := sideSign(f) * (f.MidAfter1 - float64(f.Price))
	a.sum1 += m * float64(f.Quantity)
	a.qty1 += f.Quantity
	a.analyzed1++
	if m < 0 {
		a.adverse++
	}
}

func (a *Analyzer) markout5(f *FillRecord) {
	a.sum5 += sideSign(f) * (f.MidAfter5 - float64(f.Price)) * float64(f.Quantity)
	a.qty5 += f.Quantity
	a.analyzed5++
}

func (a *Analyzer) recomputeEquity() {
	equity := a.equity()
	if equity.GreaterThan(a.peak) {
		a.peak = equity
	}
	if dd := a.peak.Sub(equity); dd.GreaterThan(a.maxDD) {
		a.maxDD = dd
	}
}

// equity = 现金 + Σ 仓位 × mid；没有 mid 的品种按 0 计。
func (a *Analyzer) equity() decimal.Decimal {
	eq := a.cash
	for sym, pos := range a.positions {
		mid, ok := a.lastMid[sym]
		if !ok {
			continue
		}
		eq = eq.Add(decimal.NewFromFloat(mid).Mul(decimal.NewFromInt(int64(pos))))
	}
	return eq
}

// Stats computes and returns statistics
func (a *Analyzer) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := Stats{
		Rounds:      a.round,
		TotalFills:  a.fillCount,
		Volume:      a.volume,
		Cash:        a.cash,
		Equity:      a.equity(),
		MaxDrawdown: a.maxDD,
		Positions:   make(map[string]int, len(a.positions)),
	}
	for sym, p := range a.positions {
		stats.Positions[sym] = p
	}

	stats.AnalyzedFills = a.analyzed1
	if a.analyzed1 > 0 {
		stats.AdverseSelectionRate = float64(a.adverse) / float64(a.analyzed1)
		stats.AvgMarkout1 = a.sum1 / float64(a.qty1)
	}
	if a.analyzed5 > 0 {
		stats.AvgMarkout5 = a.sum5 / float64(a.qty5)
	}
	return stats
}
