package roundlog

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"round-trader/market"
	"round-trader/order"
)

// 字段按 json 名字母序声明，保证输出 key 有序。
type record struct {
	Logs   string       `json:"logs"`
	Orders []orderTuple `json:"orders"`
	State  state        `json:"state"`
}

type state struct {
	Listings     []listingTuple        `json:"l"`
	MarketTrades []tradeTuple          `json:"mt"`
	Observations map[string]float64    `json:"o"`
	OrderDepths  map[string]depthTuple `json:"od"`
	OwnTrades    []tradeTuple          `json:"ot"`
	Positions    map[string]int        `json:"p"`
	Timestamp    int64                 `json:"t"`
}

// depthTuple encodes as [buy_orders, sell_orders].
type depthTuple [2]map[int]int

// orderTuple encodes as [symbol, price, quantity].
type orderTuple struct {
	Symbol   string
	Price    int
	Quantity int
}

func (o orderTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Symbol, o.Price, o.Quantity})
}

func (o *orderTuple) UnmarshalJSON(b []byte) error {
	return decodeTuple(b, &o.Symbol, &o.Price, &o.Quantity)
}

// tradeTuple encodes as [symbol, buyer, seller, price, quantity, timestamp].
type tradeTuple market.Trade

func (t tradeTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Symbol, t.Buyer, t.Seller, t.Price, t.Quantity, t.Timestamp})
}

func (t *tradeTuple) UnmarshalJSON(b []byte) error {
	return decodeTuple(b, &t.Symbol, &t.Buyer, &t.Seller, &t.Price, &t.Quantity, &t.Timestamp)
}

// listingTuple encodes as [symbol, product, denomination].
type listingTuple market.Listing

func (l listingTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Symbol, l.Product, l.Denomination})
}

func (l *listingTuple) UnmarshalJSON(b []byte) error {
	return decodeTuple(b, &l.Symbol, &l.Product, &l.Denomination)
}

var ErrMalformed = errors.New("malformed round record")

func decodeTuple(b []byte, dst ...any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("%w: tuple of %d, want %d", ErrMalformed, len(raw), len(dst))
	}
	for i, r := range raw {
		if err := json.Unmarshal(r, dst[i]); err != nil {
			return err
		}
	}
	return nil
}

func compress(snap *market.Snapshot, orders order.Batch, logs string) record {
	rec := record{
		Logs:   logs,
		Orders: make([]orderTuple, 0, orders.Count()),
		State: state{
			Listings:     []listingTuple{},
			Observations: map[string]float64{},
			OrderDepths:  map[string]depthTuple{},
			Positions:    map[string]int{},
		},
	}
	for _, o := range orders.Flatten() {
		rec.Orders = append(rec.Orders, orderTuple{Symbol: o.Symbol, Price: o.Price, Quantity: o.Quantity})
	}
	if snap == nil {
		rec.State.MarketTrades = []tradeTuple{}
		rec.State.OwnTrades = []tradeTuple{}
		return rec
	}
	rec.State.Timestamp = snap.Timestamp
	for _, sym := range sortedKeys(snap.Listings) {
		rec.State.Listings = append(rec.State.Listings, listingTuple(snap.Listings[sym]))
	}
	for sym, d := range snap.OrderDepths {
		rec.State.OrderDepths[sym] = depthTuple{nonNil(d.BuyOrders), nonNil(d.SellOrders)}
	}
	rec.State.OwnTrades = flattenTrades(snap.OwnTrades)
	rec.State.MarketTrades = flattenTrades(snap.MarketTrades)
	for sym, p := range snap.Positions {
		rec.State.Positions[sym] = p
	}
	for k, v := range snap.Observations {
		rec.State.Observations[k] = v
	}
	return rec
}

func flattenTrades(trades map[string][]market.Trade) []tradeTuple {
	out := []tradeTuple{}
	for _, sym := range sortedKeys(trades) {
		for _, t := range trades[sym] {
			out = append(out, tradeTuple(t))
		}
	}
	return out
}

func groupTrades(trades []tradeTuple) map[string][]market.Trade {
	out := make(map[string][]market.Trade)
	for _, t := range trades {
		out[t.Symbol] = append(out[t.Symbol], market.Trade(t))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(m map[int]int) map[int]int {
	if m == nil {
		return map[int]int{}
	}
	return m
}
