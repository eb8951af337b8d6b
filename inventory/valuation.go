package inventory

// Valuation 基于当前 mid 价计算单品种未实现盈亏。
func (t *Tracker) Valuation(symbol string, mid float64) (net int, pnl float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.holdings[symbol]
	if !ok {
		return 0, 0
	}
	net = h.net
	pnl = (mid - h.cost) * float64(h.net)
	return
}

// TotalPnL sums realized and unrealized PnL over every symbol; symbols
// without a mid are valued at cost.
func (t *Tracker) TotalPnL(mids map[string]float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := 0.0
	for sym, h := range t.holdings {
		total += h.realized
		if mid, ok := mids[sym]; ok && h.net != 0 {
			total += (mid - h.cost) * float64(h.net)
		}
	}
	return total
}
