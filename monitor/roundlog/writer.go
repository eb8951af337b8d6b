package roundlog

import (
	"fmt"
	"io"
	"sync"

	json "github.com/goccy/go-json"

	"round-trader/market"
	"round-trader/monitor/logschema"
	"round-trader/order"
)

// Record is a decoded round line.
type Record struct {
	Snapshot market.Snapshot
	Orders   order.Batch
	Logs     string
}

// Encode serializes one round into a single key-sorted JSON object (no
// trailing newline).
func Encode(snap *market.Snapshot, orders order.Batch, logs string) ([]byte, error) {
	return json.Marshal(compress(snap, orders, logs))
}

// Decode parses a line produced by Encode and rebuilds the snapshot and
// orders it was made from.
func Decode(line []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, fmt.Errorf("decode round: %w", err)
	}
	if err := logschema.Validate("round", raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	st, ok := raw["state"].(map[string]any)
	if !ok {
		return Record{}, fmt.Errorf("%w: state is not an object", ErrMalformed)
	}
	if err := logschema.Validate("round_state", st); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, fmt.Errorf("decode round: %w", err)
	}
	snap := market.Snapshot{
		Timestamp:    rec.State.Timestamp,
		Listings:     make(map[string]market.Listing, len(rec.State.Listings)),
		OrderDepths:  make(map[string]market.OrderDepth, len(rec.State.OrderDepths)),
		OwnTrades:    groupTrades(rec.State.OwnTrades),
		MarketTrades: groupTrades(rec.State.MarketTrades),
		Positions:    rec.State.Positions,
		Observations: rec.State.Observations,
	}
	for _, l := range rec.State.Listings {
		snap.Listings[l.Symbol] = market.Listing(l)
	}
	for sym, sides := range rec.State.OrderDepths {
		snap.OrderDepths[sym] = market.OrderDepth{BuyOrders: nonNil(sides[0]), SellOrders: nonNil(sides[1])}
	}
	batch := order.Batch{}
	for _, o := range rec.Orders {
		batch.Add(order.New(o.Symbol, o.Price, o.Quantity))
	}
	return Record{Snapshot: snap, Orders: batch, Logs: rec.Logs}, nil
}

// Writer 把每轮记录写成一行，可被多个 goroutine 共享。
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Flush writes the round line and resets buf.
func (w *Writer) Flush(buf *Buffer, snap *market.Snapshot, orders order.Batch) error {
	logs := ""
	if buf != nil {
		logs = buf.String()
		buf.Reset()
	}
	line, err := Encode(snap, orders, logs)
	if err != nil {
		return fmt.Errorf("encode round: %w", err)
	}
	line = append(line, '\n')
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("write round: %w", err)
	}
	return nil
}
