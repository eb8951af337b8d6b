package market

import "testing"

func TestOrderBookApplyAndMid(t *testing.T) {
	ob := NewOrderBook()
	ob.ApplyDelta(map[int]int{100: 1, 98: 2}, map[int]int{101: 1, 102: 3})
	bid, ask := ob.Best()
	if bid != 100 || ask != 101 {
		t.Fatalf("unexpected best bid/ask: %d/%d", bid, ask)
	}
	if mid := ob.Mid(); mid != 100.5 {
		t.Fatalf("unexpected mid %f", mid)
	}
	// 删除一档
	ob.ApplyDelta(map[int]int{100: 0}, map[int]int{})
	bid, _ = ob.Best()
	if bid != 98 {
		t.Fatalf("expected best bid 98 got %d", bid)
	}
}

func TestOrderBookDepthUsesNegativeAsks(t *testing.T) {
	ob := NewOrderBook()
	ob.ApplyDelta(map[int]int{100: 4}, map[int]int{103: 7})
	d := ob.Depth()
	if d.SellOrders[103] != -7 {
		t.Fatalf("expected negative ask qty, got %d", d.SellOrders[103])
	}
	ask, ok := d.BestAsk()
	if !ok || ask.Quantity != 7 {
		t.Fatalf("unexpected best ask %+v ok=%v", ask, ok)
	}
	ob.Reset()
	if bid, ask := ob.Best(); bid != 0 || ask != 0 {
		t.Fatalf("reset failed: %d/%d", bid, ask)
	}
}
