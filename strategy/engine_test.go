package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"round-trader/config"
	"round-trader/market"
	"round-trader/order"
	"round-trader/risk"
)

func TestDecideOmitsEmptySymbols(t *testing.T) {
	tr := NewTrader(testLimits, &FixedFair{Symbol: "PEARLS", Fair: 10000})
	snap := snapshot(100, nil, map[string]market.OrderDepth{
		"PEARLS": book(map[int]int{9998: 3}, map[int]int{10002: 4}),
	})
	out := tr.Decide(snap, nil)
	assert.Empty(t, out)
	assert.Empty(t, tr.Decide(nil, nil))
}

func TestDecideSharesRoomAcrossStrategies(t *testing.T) {
	tr := NewTrader(testLimits,
		&FixedFair{ID: "a", Symbol: "PEARLS", Fair: 10000},
		&FixedFair{ID: "b", Symbol: "PEARLS", Fair: 10000},
	)
	var got []string
	tr.OnEmit(func(name string, o order.Order) { got = append(got, name) })
	snap := snapshot(100, nil, map[string]market.OrderDepth{
		"PEARLS": book(nil, map[int]int{9998: 15}),
	})
	out := tr.Decide(snap, nil)
	require.Len(t, out["PEARLS"], 2)
	assert.Equal(t, 15, out["PEARLS"][0].Quantity)
	assert.Equal(t, 5, out["PEARLS"][1].Quantity)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDecideFilter(t *testing.T) {
	tr := NewTrader(testLimits,
		&FixedFair{Symbol: "PEARLS", Fair: 10000},
		&Pair{First: "COCONUTS", Second: "PINA_COLADAS", Ratio: 8.0 / 15, Threshold: 5},
	)
	snap := snapshot(100, nil, map[string]market.OrderDepth{
		"PEARLS":       book(nil, map[int]int{9999: 5}),
		"COCONUTS":     book(map[int]int{8100: 50}, map[int]int{8102: 50}),
		"PINA_COLADAS": book(map[int]int{14999: 50}, map[int]int{15001: 50}),
	})
	out := tr.Decide(snap, nil, "PEARLS", "COCONUTS")
	assert.Equal(t, []string{"PEARLS"}, out.Symbols(), "pair needs both instruments in the filter")

	out = tr.Decide(snap, nil)
	assert.Equal(t, []string{"COCONUTS", "PEARLS", "PINA_COLADAS"}, out.Symbols())
}

func TestDecideLogsThroughInjectedLogger(t *testing.T) {
	tr := NewTrader(testLimits, &FixedFair{Symbol: "PEARLS", Fair: 10000})
	log := &lines{}
	tr.Decide(snapshot(100, nil, map[string]market.OrderDepth{
		"PEARLS": book(nil, map[int]int{9999: 5}),
	}), log)
	require.Len(t, log.out, 1)
	assert.Contains(t, log.String(), "fixed_fair:PEARLS: BUY 5 @ 9999")
}

func TestRoundEmitIsAtomic(t *testing.T) {
	r := newRound(snapshot(0, map[string]int{"PEARLS": 18}, nil), nil, risk.NewLimitChecker(testLimits))
	assert.False(t, r.Emit(), "empty unit")
	assert.False(t, r.Emit(order.New("BANANAS", 10, 1), order.New("PEARLS", 10, 3)))
	assert.Empty(t, r.batch)
	assert.False(t, r.Emit(order.New("PEARLS", 10, 0)))
	assert.True(t, r.Emit(order.New("PEARLS", 10, 1), order.New("PEARLS", 11, 1)))
	assert.Equal(t, 0, r.BuyRoom("PEARLS"))
	assert.Equal(t, 38, r.SellRoom("PEARLS"))
	assert.Equal(t, 0, r.BuyRoom("UNKNOWN"), "unconfigured symbols cannot trade")
}

// 随机行情下，所有子策略合在一起发出的订单也不能突破仓位上限。
func TestDecideNeverBreachesLimits(t *testing.T) {
	cfgs := []config.StrategyConfig{
		{Kind: config.KindFixedFair, Symbol: "PEARLS", FairValue: 10000},
		{Kind: config.KindGapTaker, Symbol: "PEARLS", MaxSpread: 3, MinGap: 2},
		{Kind: config.KindGapTaker, Symbol: "BANANAS", MaxSpread: 3, MinGap: 2},
		{Kind: config.KindMACross, Symbol: "BANANAS", ShortWindow: 5, LongWindow: 30, HistorySize: 35},
		{Kind: config.KindSeasonal, Symbol: "BERRIES", BuyWindow: config.Window{From: 0, To: 20000}, SellWindow: config.Window{From: 30000, To: 50000}},
		{Kind: config.KindBasket, Basket: "PICNIC_BASKET", Legs: []config.LegConfig{{Symbol: "BAGUETTE", Ratio: 2}, {Symbol: "DIP", Ratio: 4}, {Symbol: "UKULELE", Ratio: 1}}, Premium: 400, Margin: 10, TaperSpan: 200, Skew: 0.3},
		{Kind: config.KindPair, First: "COCONUTS", Second: "PINA_COLADAS", Ratio: 8.0 / 15, Threshold: 5, TaperFirst: 50, TaperSecond: 94},
	}
	strategies, err := Build(cfgs)
	require.NoError(t, err)
	tr := NewTrader(testLimits, strategies...)
	lc := risk.NewLimitChecker(testLimits)

	centers := map[string]int{
		"PEARLS": 10000, "BANANAS": 4900, "BERRIES": 3900, "PICNIC_BASKET": 73800,
		"BAGUETTE": 12200, "DIP": 7000, "UKULELE": 20700, "COCONUTS": 8000, "PINA_COLADAS": 15000,
	}
	rng := rand.New(rand.NewSource(7))
	pos := map[string]int{}
	for round := 0; round < 500; round++ {
		depths := make(map[string]market.OrderDepth, len(centers))
		for sym, c := range centers {
			c += rng.Intn(81) - 40
			centers[sym] = c
			bids := map[int]int{}
			asks := map[int]int{}
			for lvl := 0; lvl < 3; lvl++ {
				bids[c-1-lvl*rng.Intn(4)-lvl] = 1 + rng.Intn(40)
				asks[c+1+lvl*rng.Intn(4)+lvl] = 1 + rng.Intn(40)
			}
			depths[sym] = book(bids, asks)
		}
		snap := snapshot(int64(round*100), copyPos(pos), depths)
		out := tr.Decide(snap, nil)
		require.NoError(t, lc.CheckBatch(out, snap), "round %d", round)
		// 假设买单全部成交，推进仓位
		for sym, orders := range out {
			for _, o := range orders {
				pos[sym] += o.Quantity
			}
			require.LessOrEqual(t, pos[sym], testLimits.Of(sym))
			require.GreaterOrEqual(t, pos[sym], -testLimits.Of(sym))
		}
	}
}

func TestDecideIsRepeatable(t *testing.T) {
	mk := func() *Trader {
		s, err := Build([]config.StrategyConfig{
			{Kind: config.KindMACross, Symbol: "BANANAS", ShortWindow: 2, LongWindow: 4},
			{Kind: config.KindFixedFair, Symbol: "PEARLS", FairValue: 10000},
		})
		require.NoError(t, err)
		return NewTrader(testLimits, s...)
	}
	a, b := mk(), mk()
	var last *market.Snapshot
	for i, p := range []int{10, 10, 10, 9, 12} {
		last = snapshot(int64(i*100), nil, map[string]market.OrderDepth{
			"BANANAS": book(map[int]int{p - 1: 10}, map[int]int{p + 1: 10}),
			"PEARLS":  book(map[int]int{10001: 2}, map[int]int{9999: 3}),
		})
		assert.Equal(t, a.Decide(last, nil), b.Decide(last, nil))
	}
	first := a.Decide(last, nil)
	second := a.Decide(last, nil)
	assert.Equal(t, first, second)
	assert.Len(t, first["BANANAS"], 1)
}

func copyPos(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
