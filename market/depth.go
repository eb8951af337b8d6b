package market

import "sort"

// Level 是盘口的一档：价格与数量（数量恒为正）。
type Level struct {
	Price    int
	Quantity int
}

// OrderDepth 是某个品种当轮的挂单深度，价格 -> 数量。
// SellOrders 沿用模拟器的约定，数量为负数；读取时统一转成正数。
type OrderDepth struct {
	BuyOrders  map[int]int `json:"buy_orders"`
	SellOrders map[int]int `json:"sell_orders"`
}

// NewOrderDepth returns an empty depth with both sides allocated.
func NewOrderDepth() OrderDepth {
	return OrderDepth{
		BuyOrders:  make(map[int]int),
		SellOrders: make(map[int]int),
	}
}

// HasBids reports whether the buy side has at least one level.
func (d OrderDepth) HasBids() bool { return len(d.BuyOrders) > 0 }

// HasAsks reports whether the sell side has at least one level.
func (d OrderDepth) HasAsks() bool { return len(d.SellOrders) > 0 }

// BestBid 返回最高买价及其数量；买盘为空时 ok=false。
func (d OrderDepth) BestBid() (lvl Level, ok bool) {
	for p, q := range d.BuyOrders {
		if !ok || p > lvl.Price {
			lvl = Level{Price: p, Quantity: abs(q)}
			ok = true
		}
	}
	return lvl, ok
}

// BestAsk 返回最低卖价及其数量（正数）；卖盘为空时 ok=false。
func (d OrderDepth) BestAsk() (lvl Level, ok bool) {
	for p, q := range d.SellOrders {
		if !ok || p < lvl.Price {
			lvl = Level{Price: p, Quantity: abs(q)}
			ok = true
		}
	}
	return lvl, ok
}

// Bids returns buy levels sorted from best (highest) to worst.
func (d OrderDepth) Bids() []Level {
	out := make([]Level, 0, len(d.BuyOrders))
	for p, q := range d.BuyOrders {
		out = append(out, Level{Price: p, Quantity: abs(q)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

// Asks returns sell levels sorted from best (lowest) to worst.
func (d OrderDepth) Asks() []Level {
	out := make([]Level, 0, len(d.SellOrders))
	for p, q := range d.SellOrders {
		out = append(out, Level{Price: p, Quantity: abs(q)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// Mid 返回中间价；任一侧为空时 ok=false。
func (d OrderDepth) Mid() (float64, bool) {
	bid, okBid := d.BestBid()
	ask, okAsk := d.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return float64(bid.Price+ask.Price) / 2, true
}

// Spread returns best ask minus best bid.
func (d OrderDepth) Spread() (int, bool) {
	bid, okBid := d.BestBid()
	ask, okAsk := d.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// Clone 深拷贝，供模拟撮合在不改动原快照的前提下扣减深度。
func (d OrderDepth) Clone() OrderDepth {
	out := NewOrderDepth()
	for p, q := range d.BuyOrders {
		out.BuyOrders[p] = q
	}
	for p, q := range d.SellOrders {
		out.SellOrders[p] = q
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
