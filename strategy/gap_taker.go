package strategy

import "round-trader/order"

// GapTaker 在价差很窄、但最优档与次优档之间有明显断层时，
// 认为最优档是薄挂单，直接吃掉它。
type GapTaker struct {
	ID        string
	Symbol    string
	MaxSpread int // 买一卖一价差须小于该值
	MinGap    int // 最优档与次优档的距离须大于该值
}

func (s *GapTaker) Name() string      { return nameOr(s.ID, "gap_taker:"+s.Symbol) }
func (s *GapTaker) Symbols() []string { return []string{s.Symbol} }

func (s *GapTaker) Decide(r *Round) {
	d, ok := r.Depth(s.Symbol)
	if !ok {
		return
	}
	spread, ok := d.Spread()
	if !ok || spread >= s.MaxSpread {
		return
	}
	if bids := d.Bids(); len(bids) > 1 && bids[0].Price-bids[1].Price > s.MinGap {
		if q := min(bids[0].Quantity, r.SellRoom(s.Symbol)); q > 0 {
			r.Printf("SELL %d @ %d, next bid %d", q, bids[0].Price, bids[1].Price)
			r.Emit(order.New(s.Symbol, bids[0].Price, -q))
		}
	}
	if asks := d.Asks(); len(asks) > 1 && asks[1].Price-asks[0].Price > s.MinGap {
		if q := min(asks[0].Quantity, r.BuyRoom(s.Symbol)); q > 0 {
			r.Printf("BUY %d @ %d, next ask %d", q, asks[0].Price, asks[1].Price)
			r.Emit(order.New(s.Symbol, asks[0].Price, q))
		}
	}
}
