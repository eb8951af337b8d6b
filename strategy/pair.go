package strategy

import (
	"round-trader/market"
	"round-trader/order"
)

// Pair 对两个价格比例固定的品种做公允价回归：
// 各自的公允价取自身 mid 与对方按比例折算后 mid 的均值，两边独立决策，不做对冲。
type Pair struct {
	ID          string
	First       string
	Second      string
	Ratio       float64 // First ≈ Ratio × Second
	Threshold   float64
	TaperFirst  float64
	TaperSecond float64
}

func (s *Pair) Name() string      { return nameOr(s.ID, "pair:"+s.First+"/"+s.Second) }
func (s *Pair) Symbols() []string { return []string{s.First, s.Second} }

func (s *Pair) Decide(r *Round) {
	a, ok := r.Depth(s.First)
	if !ok {
		return
	}
	b, ok := r.Depth(s.Second)
	if !ok {
		return
	}
	midA, okA := a.Mid()
	midB, okB := b.Mid()
	if !okA || !okB || s.Ratio <= 0 {
		return
	}
	fairA := (midA + midB*s.Ratio) / 2
	fairB := (midB + midA/s.Ratio) / 2
	s.fade(r, s.First, a, fairA, s.TaperFirst)
	s.fade(r, s.Second, b, fairB, s.TaperSecond)
}

// fade 只发出先触发的一侧：先看卖，再看买。
func (s *Pair) fade(r *Round, symbol string, d market.OrderDepth, fair, span float64) {
	bid, _ := d.BestBid()
	ask, _ := d.BestAsk()
	if dist := float64(bid.Price) - fair; dist > s.Threshold {
		q := min(taper(r.SellRoom(symbol), dist, span), bid.Quantity)
		if q > 0 {
			r.Printf("SELL %s %d @ %d, fair %.1f", symbol, q, bid.Price, fair)
			r.Emit(order.New(symbol, bid.Price, -q))
		}
		return
	}
	if dist := fair - float64(ask.Price); dist > s.Threshold {
		q := min(taper(r.BuyRoom(symbol), dist, span), ask.Quantity)
		if q > 0 {
			r.Printf("BUY %s %d @ %d, fair %.1f", symbol, q, ask.Price, fair)
			r.Emit(order.New(symbol, ask.Price, q))
		}
	}
}
