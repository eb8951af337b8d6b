package strategy

import (
	"fmt"
	"strings"

	"round-trader/market"
	"round-trader/risk"
)

// book builds a depth; ask quantities are given positive and stored negative.
func book(bids, asks map[int]int) market.OrderDepth {
	d := market.NewOrderDepth()
	for p, q := range bids {
		d.BuyOrders[p] = q
	}
	for p, q := range asks {
		d.SellOrders[p] = -q
	}
	return d
}

func snapshot(ts int64, pos map[string]int, depths map[string]market.OrderDepth) *market.Snapshot {
	return &market.Snapshot{Timestamp: ts, Positions: pos, OrderDepths: depths}
}

var testLimits = risk.Limits{
	"PEARLS":        20,
	"BANANAS":       20,
	"BERRIES":       250,
	"PICNIC_BASKET": 70,
	"BAGUETTE":      150,
	"DIP":           300,
	"UKULELE":       70,
	"COCONUTS":      600,
	"PINA_COLADAS":  300,
}

type lines struct{ out []string }

func (l *lines) Printf(format string, args ...any) {
	l.out = append(l.out, fmt.Sprintf(format, args...))
}

func (l *lines) String() string { return strings.Join(l.out, "\n") }
