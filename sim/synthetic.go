package sim

import (
	"io"
	"math"
	"math/rand"
	"sort"

	"round-trader/config"
	"round-trader/market"
)

const denomination = "SEASHELLS"

// Synthetic 生成随机游走行情：每个品种维护一个 OrderBook，每轮围绕新的 mid
// 重建三档深度，并随机生成少量市场成交。相同 seed 产出相同序列。
type Synthetic struct {
	cfg     config.SimConfig
	rng     *rand.Rand
	symbols []string
	books   map[string]*market.OrderBook
	mids    map[string]float64
	round   int
}

func NewSynthetic(cfg config.SimConfig) *Synthetic {
	s := &Synthetic{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		books: make(map[string]*market.OrderBook, len(cfg.Symbols)),
		mids:  make(map[string]float64, len(cfg.Symbols)),
	}
	for sym, sc := range cfg.Symbols {
		s.symbols = append(s.symbols, sym)
		s.books[sym] = market.NewOrderBook()
		s.mids[sym] = float64(sc.Start)
	}
	sort.Strings(s.symbols) // map 遍历无序，排序保证可复现
	return s
}

func (s *Synthetic) Next() (*market.Snapshot, error) {
	if s.round >= s.cfg.Rounds {
		return nil, io.EOF
	}
	step := s.cfg.TimestampStep
	if step <= 0 {
		step = 100
	}
	snap := &market.Snapshot{
		Timestamp:    int64(s.round) * step,
		Listings:     make(map[string]market.Listing, len(s.symbols)),
		OrderDepths:  make(map[string]market.OrderDepth, len(s.symbols)),
		MarketTrades: make(map[string][]market.Trade),
		Observations: map[string]float64{},
	}
	for _, sym := range s.symbols {
		sc := s.cfg.Symbols[sym]
		s.mids[sym] = math.Max(1, s.mids[sym]+s.rng.NormFloat64()*sc.Vol)
		mid := int(math.Round(s.mids[sym]))
		half := max(1, sc.Spread/2)

		ob := s.books[sym]
		ob.Reset()
		bids, asks := map[int]int{}, map[int]int{}
		gap := 0
		for lvl := 0; lvl < 3; lvl++ {
			if lvl > 0 {
				gap += 1 + s.rng.Intn(3)
			}
			bids[mid-half-gap] = 1 + s.rng.Intn(sc.Depth)
			asks[mid+half+gap] = 1 + s.rng.Intn(sc.Depth)
		}
		ob.ApplyDelta(bids, asks)
		snap.OrderDepths[sym] = ob.Depth()
		snap.Listings[sym] = market.Listing{Symbol: sym, Product: sym, Denomination: denomination}

		if s.rng.Intn(3) == 0 && s.round > 0 {
			snap.MarketTrades[sym] = []market.Trade{{
				Symbol:    sym,
				Price:     mid,
				Quantity:  1 + s.rng.Intn(sc.Depth),
				Timestamp: snap.Timestamp - step,
			}}
		}
	}
	s.round++
	return snap, nil
}
