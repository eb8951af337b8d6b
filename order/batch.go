package order

import "sort"

// Batch 是一轮决策的输出：品种 -> 按发出顺序排列的订单。
type Batch map[string][]Order

// Add appends orders, keyed by their own symbol.
func (b Batch) Add(orders ...Order) {
	for _, o := range orders {
		b[o.Symbol] = append(b[o.Symbol], o)
	}
}

// Symbols returns the symbols with at least one order, sorted.
func (b Batch) Symbols() []string {
	out := make([]string, 0, len(b))
	for sym, orders := range b {
		if len(orders) > 0 {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// Flatten returns every order, grouped by symbol in sorted order and keeping
// emission order within a symbol.
func (b Batch) Flatten() []Order {
	var out []Order
	for _, sym := range b.Symbols() {
		out = append(out, b[sym]...)
	}
	return out
}

// Count 返回订单总数。
func (b Batch) Count() int {
	n := 0
	for _, orders := range b {
		n += len(orders)
	}
	return n
}

// Exposure returns the total buy and sell size for symbol (both positive).
func (b Batch) Exposure(symbol string) (buy, sell int) {
	for _, o := range b[symbol] {
		if o.Quantity > 0 {
			buy += o.Quantity
		} else {
			sell -= o.Quantity
		}
	}
	return buy, sell
}
