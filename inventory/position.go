package inventory

import (
	"sort"
	"sync"
)

type holding struct {
	net      int
	cost     float64
	realized float64
}

// Tracker 维护各品种净仓位与持仓均价。零值可直接使用。
type Tracker struct {
	mu       sync.RWMutex
	holdings map[string]*holding
}

// Update 根据成交数量调整仓位（正买负卖）。
func (t *Tracker) Update(symbol string, deltaQty int, price int) {
	if deltaQty == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.holdings == nil {
		t.holdings = make(map[string]*holding)
	}
	h, ok := t.holdings[symbol]
	if !ok {
		h = &holding{}
		t.holdings[symbol] = h
	}
	px := float64(price)
	switch {
	case h.net == 0 || sameSign(h.net, deltaQty):
		// 同向加仓：加权平均成本
		total := h.cost*float64(abs(h.net)) + px*float64(abs(deltaQty))
		h.net += deltaQty
		h.cost = total / float64(abs(h.net))
	default:
		closed := min(abs(deltaQty), abs(h.net))
		if h.net > 0 {
			h.realized += (px - h.cost) * float64(closed)
		} else {
			h.realized += (h.cost - px) * float64(closed)
		}
		h.net += deltaQty
		switch {
		case h.net == 0:
			h.cost = 0
		case !sameSign(h.net, -deltaQty):
			// 反手：剩余部分以成交价开仓
			h.cost = px
		}
	}
}

// Position returns the signed net position of symbol, 0 if unknown.
func (t *Tracker) Position(symbol string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if h, ok := t.holdings[symbol]; ok {
		return h.net
	}
	return 0
}

// Positions returns a copy of all non-flat positions.
func (t *Tracker) Positions() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int, len(t.holdings))
	for sym, h := range t.holdings {
		if h.net != 0 {
			out[sym] = h.net
		}
	}
	return out
}

// Symbols 返回曾有成交的品种（排序）。
func (t *Tracker) Symbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.holdings))
	for sym := range t.holdings {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) AvgCost(symbol string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if h, ok := t.holdings[symbol]; ok {
		return h.cost
	}
	return 0
}

// Realized 返回已实现盈亏。
func (t *Tracker) Realized(symbol string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if h, ok := t.holdings[symbol]; ok {
		return h.realized
	}
	return 0
}

func sameSign(a, b int) bool {
	return (a > 0) == (b > 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
