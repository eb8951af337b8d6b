package market

import "sync"

// OrderBook 维护可变的价格->数量映射，用于合成行情；每轮通过 Depth() 导出只读快照。
type OrderBook struct {
	mu   sync.RWMutex
	bids map[int]int // price -> qty
	asks map[int]int // price -> qty（正数）
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: make(map[int]int),
		asks: make(map[int]int),
	}
}

// ApplyDelta 应用增量更新，qty 为 0 表示删除该档。
func (ob *OrderBook) ApplyDelta(bidDelta map[int]int, askDelta map[int]int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	for p, q := range bidDelta {
		if q == 0 {
			delete(ob.bids, p)
		} else {
			ob.bids[p] = abs(q)
		}
	}
	for p, q := range askDelta {
		if q == 0 {
			delete(ob.asks, p)
		} else {
			ob.asks[p] = abs(q)
		}
	}
}

// Reset 清空两侧。
func (ob *OrderBook) Reset() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.bids = make(map[int]int)
	ob.asks = make(map[int]int)
}

// Best 返回最好买/卖价；若不存在则为 0。
func (ob *OrderBook) Best() (bestBid int, bestAsk int) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	for p := range ob.bids {
		if p > bestBid {
			bestBid = p
		}
	}
	for p := range ob.asks {
		if bestAsk == 0 || p < bestAsk {
			bestAsk = p
		}
	}
	return bestBid, bestAsk
}

// Mid 返回中间价；若缺失任一侧返回 0。
func (ob *OrderBook) Mid() float64 {
	bid, ask := ob.Best()
	if bid == 0 || ask == 0 {
		return 0
	}
	return float64(bid+ask) / 2
}

// Depth exports the book in the simulator's convention (sell quantities negative).
func (ob *OrderBook) Depth() OrderDepth {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	d := NewOrderDepth()
	for p, q := range ob.bids {
		d.BuyOrders[p] = q
	}
	for p, q := range ob.asks {
		d.SellOrders[p] = -q
	}
	return d
}
