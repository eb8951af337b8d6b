package market

import "testing"

func TestTradeNotional(t *testing.T) {
	tr := Trade{Symbol: "PEARLS", Price: 10, Quantity: -2}
	if tr.Notional() != 20 {
		t.Fatalf("unexpected notional %d", tr.Notional())
	}
}
