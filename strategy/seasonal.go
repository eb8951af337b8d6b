package strategy

import (
	"round-trader/config"
	"round-trader/order"
)

// Seasonal 利用已知的日内漂移：买入窗口内尽量买满，卖出窗口内尽量卖空。
type Seasonal struct {
	ID     string
	Symbol string
	Buy    config.Window
	Sell   config.Window
}

func (s *Seasonal) Name() string      { return nameOr(s.ID, "seasonal:"+s.Symbol) }
func (s *Seasonal) Symbols() []string { return []string{s.Symbol} }

func (s *Seasonal) Decide(r *Round) {
	d, ok := r.Depth(s.Symbol)
	if !ok {
		return
	}
	ts := r.Snap.Timestamp
	switch {
	case s.Buy.Contains(ts):
		ask, ok := d.BestAsk()
		if !ok {
			return
		}
		if q := min(ask.Quantity, r.BuyRoom(s.Symbol)); q > 0 {
			r.Printf("BUY %d @ %d at t=%d", q, ask.Price, ts)
			r.Emit(order.New(s.Symbol, ask.Price, q))
		}
	case s.Sell.Contains(ts):
		bid, ok := d.BestBid()
		if !ok {
			return
		}
		if q := min(bid.Quantity, r.SellRoom(s.Symbol)); q > 0 {
			r.Printf("SELL %d @ %d at t=%d", q, bid.Price, ts)
			r.Emit(order.New(s.Symbol, bid.Price, -q))
		}
	}
}
