package strategy

import (
	"math"

	"round-trader/market"
	"round-trader/order"
)

// Leg 是篮子的一个成分及其固定比例。
type Leg struct {
	Symbol string
	Ratio  int
}

// Basket 做篮子与成分之间的套利。隐含价 = Premium + Σ ratio·成分价 − Skew·篮子仓位。
// 篮子买一高于隐含价 + Margin 时卖篮子、买成分；反之买篮子、卖成分。
// 四条腿在同一轮原子发出，任何一条不满足就整组放弃。
type Basket struct {
	ID        string
	Basket    string
	Legs      []Leg
	Premium   float64
	Margin    float64
	TaperSpan float64 // >0 时按偏离程度线性缩小篮子额度
	Skew      float64
}

func (s *Basket) Name() string { return nameOr(s.ID, "basket:"+s.Basket) }

func (s *Basket) Symbols() []string {
	out := []string{s.Basket}
	for _, l := range s.Legs {
		out = append(out, l.Symbol)
	}
	return out
}

func (s *Basket) Decide(r *Round) {
	basket, ok := r.Depth(s.Basket)
	if !ok {
		return
	}
	legs := make([]market.OrderDepth, len(s.Legs))
	for i, l := range s.Legs {
		if legs[i], ok = r.Depth(l.Symbol); !ok {
			return
		}
	}
	if s.sellBasket(r, basket, legs) {
		return
	}
	s.buyBasket(r, basket, legs)
}

func (s *Basket) sellBasket(r *Round, basket market.OrderDepth, legs []market.OrderDepth) bool {
	bid, ok := basket.BestBid()
	if !ok {
		return false
	}
	asks := make([]market.Level, len(legs))
	implied := s.base(r)
	for i, d := range legs {
		if asks[i], ok = d.BestAsk(); !ok {
			return false
		}
		implied += float64(s.Legs[i].Ratio * asks[i].Price)
	}
	dev := float64(bid.Price) - implied
	if dev <= s.Margin {
		return false
	}
	vol := min(bid.Quantity, s.taper(r.SellRoom(s.Basket), dev))
	for i, l := range s.Legs {
		vol = min(vol, asks[i].Quantity/l.Ratio, r.BuyRoom(l.Symbol)/l.Ratio)
	}
	if vol <= 0 {
		r.Printf("basket bid %d over implied %.1f but no volume", bid.Price, implied)
		return false
	}
	orders := []order.Order{order.New(s.Basket, bid.Price, -vol)}
	for i, l := range s.Legs {
		orders = append(orders, order.New(l.Symbol, asks[i].Price, vol*l.Ratio))
	}
	r.Printf("SELL basket %d @ %d, implied %.1f", vol, bid.Price, implied)
	return r.Emit(orders...)
}

func (s *Basket) buyBasket(r *Round, basket market.OrderDepth, legs []market.OrderDepth) bool {
	ask, ok := basket.BestAsk()
	if !ok {
		return false
	}
	bids := make([]market.Level, len(legs))
	implied := s.base(r)
	for i, d := range legs {
		if bids[i], ok = d.BestBid(); !ok {
			return false
		}
		implied += float64(s.Legs[i].Ratio * bids[i].Price)
	}
	dev := implied - float64(ask.Price)
	if dev <= s.Margin {
		return false
	}
	vol := min(ask.Quantity, s.taper(r.BuyRoom(s.Basket), dev))
	for i, l := range s.Legs {
		vol = min(vol, bids[i].Quantity/l.Ratio, r.SellRoom(l.Symbol)/l.Ratio)
	}
	if vol <= 0 {
		r.Printf("basket ask %d under implied %.1f but no volume", ask.Price, implied)
		return false
	}
	orders := []order.Order{order.New(s.Basket, ask.Price, vol)}
	for i, l := range s.Legs {
		orders = append(orders, order.New(l.Symbol, bids[i].Price, -vol*l.Ratio))
	}
	r.Printf("BUY basket %d @ %d, implied %.1f", vol, ask.Price, implied)
	return r.Emit(orders...)
}

func (s *Basket) base(r *Round) float64 {
	return s.Premium - s.Skew*float64(r.Position(s.Basket))
}

func (s *Basket) taper(room int, dev float64) int {
	return taper(room, dev, s.TaperSpan)
}

// taper 把额度按 min(1, dev/span) 缩小并向下取整；span<=0 时不缩小。
func taper(room int, dev, span float64) int {
	if span <= 0 {
		return room
	}
	return int(math.Floor(float64(room) * math.Min(1, dev/span)))
}
