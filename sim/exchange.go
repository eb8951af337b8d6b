package sim

import (
	"errors"
	"fmt"
	"sync"

	"round-trader/inventory"
	"round-trader/market"
	"round-trader/order"
)

// SubmissionID 是模拟撮合中我方的成交对手方标识。
const SubmissionID = "SUBMISSION"

var ErrNotQuoted = errors.New("symbol not quoted this round")

// Exchange 是 IOC 模拟撮合：订单只与本轮快照的深度撮合，按价格优先逐档成交，
// 成交价为对手档位价，未成交部分留给 Manager 在轮末撤销。
type Exchange struct {
	mu     sync.Mutex
	inv    *inventory.Tracker
	depths map[string]market.OrderDepth
	ts     int64
	own    map[string][]market.Trade

	// OnFill 在每次成交后回调（可选），qty 为正数。
	OnFill func(o order.Order, price, qty int)
}

func NewExchange(inv *inventory.Tracker) *Exchange {
	if inv == nil {
		inv = &inventory.Tracker{}
	}
	return &Exchange{inv: inv, depths: map[string]market.OrderDepth{}, own: map[string][]market.Trade{}}
}

// BeginRound 以快照深度的副本作为本轮可成交流动性，并清空上一轮的自有成交。
func (e *Exchange) BeginRound(snap *market.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.depths = make(map[string]market.OrderDepth, len(snap.OrderDepths))
	for sym, d := range snap.OrderDepths {
		e.depths[sym] = d.Clone()
	}
	e.ts = snap.Timestamp
	e.own = make(map[string][]market.Trade)
}

// OwnTrades returns the fills of the current round grouped by symbol.
func (e *Exchange) OwnTrades() map[string][]market.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string][]market.Trade, len(e.own))
	for sym, ts := range e.own {
		out[sym] = append([]market.Trade(nil), ts...)
	}
	return out
}

// Inventory returns the tracker updated by fills.
func (e *Exchange) Inventory() *inventory.Tracker { return e.inv }

// Place 实现 order.Gateway。
func (e *Exchange) Place(o order.Order) (int, error) {
	e.mu.Lock()
	d, ok := e.depths[o.Symbol]
	if !ok {
		e.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrNotQuoted, o.Symbol)
	}
	var fills [][2]int // price, qty
	remaining := o.Size()
	if o.Quantity > 0 {
		for _, lvl := range d.Asks() {
			if remaining == 0 || lvl.Price > o.Price {
				break
			}
			q := min(remaining, lvl.Quantity)
			remaining -= q
			fills = append(fills, [2]int{lvl.Price, q})
			if left := lvl.Quantity - q; left > 0 {
				d.SellOrders[lvl.Price] = -left
			} else {
				delete(d.SellOrders, lvl.Price)
			}
		}
	} else {
		for _, lvl := range d.Bids() {
			if remaining == 0 || lvl.Price < o.Price {
				break
			}
			q := min(remaining, lvl.Quantity)
			remaining -= q
			fills = append(fills, [2]int{lvl.Price, q})
			if left := lvl.Quantity - q; left > 0 {
				d.BuyOrders[lvl.Price] = left
			} else {
				delete(d.BuyOrders, lvl.Price)
			}
		}
	}
	for _, f := range fills {
		t := market.Trade{Symbol: o.Symbol, Price: f[0], Quantity: f[1], Timestamp: e.ts}
		if o.Quantity > 0 {
			t.Buyer = SubmissionID
			e.inv.Update(o.Symbol, f[1], f[0])
		} else {
			t.Seller = SubmissionID
			e.inv.Update(o.Symbol, -f[1], f[0])
		}
		e.own[o.Symbol] = append(e.own[o.Symbol], t)
	}
	onFill := e.OnFill
	e.mu.Unlock()

	filled := o.Size() - remaining
	if onFill != nil {
		for _, f := range fills {
			onFill(o, f[0], f[1])
		}
	}
	return filled, nil
}
