package market

// Trade represents one executed trade as reported by the simulator.
// Quantity is signed the way the simulator reports it; Buyer/Seller may be
// empty for anonymous counterparties.
type Trade struct {
	Symbol    string `json:"symbol"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Timestamp int64  `json:"timestamp"`
}

// Notional 返回成交金额（价格×数量绝对值）。
func (t Trade) Notional() int {
	return t.Price * abs(t.Quantity)
}
