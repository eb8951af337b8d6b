package risk

import (
	"errors"
	"testing"

	"round-trader/order"
)

type stubPos map[string]int

func (s stubPos) Position(symbol string) int { return s[symbol] }

func TestLimitCheckerRooms(t *testing.T) {
	lc := NewLimitChecker(Limits{"PEARLS": 20})

	if got := lc.BuyRoom("PEARLS", 0, 0); got != 20 {
		t.Fatalf("buy room %d", got)
	}
	if got := lc.BuyRoom("PEARLS", 15, 3); got != 2 {
		t.Fatalf("buy room with pending %d", got)
	}
	if got := lc.SellRoom("PEARLS", -18, 0); got != 2 {
		t.Fatalf("sell room %d", got)
	}
	if got := lc.BuyRoom("PEARLS", 25, 0); got != 0 {
		t.Fatalf("over limit must clamp to 0, got %d", got)
	}
	if got := lc.BuyRoom("UNKNOWN", 0, 0); got != 0 {
		t.Fatalf("unconfigured symbol must have no room, got %d", got)
	}
}

func TestLimitCheckerCheckBatch(t *testing.T) {
	lc := NewLimitChecker(Limits{"PEARLS": 20, "BANANAS": 20})

	ok := order.Batch{}
	ok.Add(order.New("PEARLS", 9998, 5), order.New("PEARLS", 10002, -20))
	if err := lc.CheckBatch(ok, stubPos{"PEARLS": 0}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	long := order.Batch{}
	long.Add(order.New("BANANAS", 4900, 6))
	if err := lc.CheckBatch(long, stubPos{"BANANAS": 15}); !errors.Is(err, ErrPositionLimit) {
		t.Fatalf("expected long breach, got %v", err)
	}

	short := order.Batch{}
	short.Add(order.New("BANANAS", 4900, -3))
	if err := lc.CheckBatch(short, stubPos{"BANANAS": -18}); !errors.Is(err, ErrPositionLimit) {
		t.Fatalf("expected short breach, got %v", err)
	}

	if err := lc.CheckBatch(ok, nil); err != nil {
		t.Fatalf("nil positions means flat: %v", err)
	}
}

func TestLimitCheckerCopiesTable(t *testing.T) {
	src := Limits{"PEARLS": 20}
	lc := NewLimitChecker(src)
	src["PEARLS"] = 1
	if lc.Limit("PEARLS") != 20 {
		t.Fatalf("limit table must be copied at construction")
	}
}
