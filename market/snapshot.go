package market

import "sort"

// Listing describes a tradable symbol and what it is denominated in.
type Listing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}

// Snapshot 是模拟器每一轮下发的只读行情快照。
type Snapshot struct {
	Timestamp    int64                 `json:"timestamp"`
	Listings     map[string]Listing    `json:"listings"`
	OrderDepths  map[string]OrderDepth `json:"order_depths"`
	OwnTrades    map[string][]Trade    `json:"own_trades"`
	MarketTrades map[string][]Trade    `json:"market_trades"`
	Positions    map[string]int        `json:"position"`
	Observations map[string]float64    `json:"observations"`
}

// Position 返回当前净仓位，缺失即为 0。
func (s *Snapshot) Position(symbol string) int {
	if s == nil || s.Positions == nil {
		return 0
	}
	return s.Positions[symbol]
}

// Depth returns the order depth of symbol and whether the symbol is quoted
// this round. A missing symbol yields an empty depth.
func (s *Snapshot) Depth(symbol string) (OrderDepth, bool) {
	if s == nil || s.OrderDepths == nil {
		return OrderDepth{}, false
	}
	d, ok := s.OrderDepths[symbol]
	return d, ok
}

// Has reports whether every symbol has an order depth this round.
func (s *Snapshot) Has(symbols ...string) bool {
	for _, sym := range symbols {
		if _, ok := s.Depth(sym); !ok {
			return false
		}
	}
	return true
}

// Symbols returns the quoted symbols in sorted order.
func (s *Snapshot) Symbols() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.OrderDepths))
	for sym := range s.OrderDepths {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Mid 返回指定品种的中间价。
func (s *Snapshot) Mid(symbol string) (float64, bool) {
	d, ok := s.Depth(symbol)
	if !ok {
		return 0, false
	}
	return d.Mid()
}

// WithPositions 返回一份浅拷贝，仓位与自有成交被替换；原快照保持不变。
func (s Snapshot) WithPositions(positions map[string]int, own map[string][]Trade) Snapshot {
	s.Positions = positions
	s.OwnTrades = own
	return s
}
