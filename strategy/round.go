package strategy

import (
	"round-trader/market"
	"round-trader/order"
	"round-trader/risk"
)

// Logger 接收每轮的诊断文本；roundlog.Buffer 满足该接口。
type Logger interface {
	Printf(format string, args ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Round 是单轮决策的上下文：只读快照、仓位额度与本轮已发出的订单。
// 额度按最坏情况计算，即假设本轮已发出的同向订单全部成交。
type Round struct {
	Snap *market.Snapshot
	Log  Logger

	limits      *risk.LimitChecker
	batch       order.Batch
	pendingBuy  map[string]int
	pendingSell map[string]int
	strategy    string
	onEmit      func(strategy string, o order.Order)
}

func newRound(snap *market.Snapshot, log Logger, limits *risk.LimitChecker) *Round {
	if snap == nil {
		snap = &market.Snapshot{}
	}
	if log == nil {
		log = discard{}
	}
	return &Round{
		Snap:        snap,
		Log:         log,
		limits:      limits,
		batch:       make(order.Batch),
		pendingBuy:  make(map[string]int),
		pendingSell: make(map[string]int),
	}
}

// Position returns the snapshot position of symbol, 0 when absent.
func (r *Round) Position(symbol string) int {
	return r.Snap.Position(symbol)
}

// Depth returns the order depth of symbol this round.
func (r *Round) Depth(symbol string) (market.OrderDepth, bool) {
	return r.Snap.Depth(symbol)
}

// Limit returns the configured position limit of symbol.
func (r *Round) Limit(symbol string) int {
	return r.limits.Limit(symbol)
}

// BuyRoom 返回本轮还能买入的数量。
func (r *Round) BuyRoom(symbol string) int {
	return r.limits.BuyRoom(symbol, r.Position(symbol), r.pendingBuy[symbol])
}

// SellRoom 返回本轮还能卖出的数量（正数）。
func (r *Round) SellRoom(symbol string) int {
	return r.limits.SellRoom(symbol, r.Position(symbol), r.pendingSell[symbol])
}

// Emit adds the orders as one unit: either every order fits the remaining
// room and all are added, or nothing is. Zero-quantity orders reject the unit.
func (r *Round) Emit(orders ...order.Order) bool {
	if len(orders) == 0 {
		return false
	}
	buy := make(map[string]int, len(orders))
	sell := make(map[string]int, len(orders))
	for _, o := range orders {
		if o.Quantity == 0 || o.Price <= 0 {
			return false
		}
		if o.Quantity > 0 {
			buy[o.Symbol] += o.Quantity
		} else {
			sell[o.Symbol] -= o.Quantity
		}
	}
	for sym, q := range buy {
		if q > r.BuyRoom(sym) {
			r.Printf("drop unit, buy %d %s exceeds room %d", q, sym, r.BuyRoom(sym))
			return false
		}
	}
	for sym, q := range sell {
		if q > r.SellRoom(sym) {
			r.Printf("drop unit, sell %d %s exceeds room %d", q, sym, r.SellRoom(sym))
			return false
		}
	}
	for _, o := range orders {
		if o.Quantity > 0 {
			r.pendingBuy[o.Symbol] += o.Quantity
		} else {
			r.pendingSell[o.Symbol] -= o.Quantity
		}
		r.batch.Add(o)
		if r.onEmit != nil {
			r.onEmit(r.strategy, o)
		}
	}
	return true
}

// Printf 写入本轮日志，自动带上当前子策略名。
func (r *Round) Printf(format string, args ...any) {
	r.Log.Printf(r.strategy+": "+format, args...)
}
