package strategy

import "round-trader/order"

// FixedFair 针对公允价恒定的品种：卖一低于公允价就买，买一高于公允价就卖。
type FixedFair struct {
	ID     string
	Symbol string
	Fair   int
}

func (s *FixedFair) Name() string      { return nameOr(s.ID, "fixed_fair:"+s.Symbol) }
func (s *FixedFair) Symbols() []string { return []string{s.Symbol} }

func (s *FixedFair) Decide(r *Round) {
	d, ok := r.Depth(s.Symbol)
	if !ok {
		return
	}
	if ask, ok := d.BestAsk(); ok && ask.Price < s.Fair {
		if q := min(ask.Quantity, r.BuyRoom(s.Symbol)); q > 0 {
			r.Printf("BUY %d @ %d (fair %d)", q, ask.Price, s.Fair)
			r.Emit(order.New(s.Symbol, ask.Price, q))
		}
	}
	if bid, ok := d.BestBid(); ok && bid.Price > s.Fair {
		if q := min(bid.Quantity, r.SellRoom(s.Symbol)); q > 0 {
			r.Printf("SELL %d @ %d (fair %d)", q, bid.Price, s.Fair)
			r.Emit(order.New(s.Symbol, bid.Price, -q))
		}
	}
}

func nameOr(id, fallback string) string {
	if id != "" {
		return id
	}
	return fallback
}
