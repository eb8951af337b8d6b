package strategy

import (
	"fmt"

	"round-trader/config"
	"round-trader/risk"
)

// Build 按配置构造子策略，顺序与配置一致。
func Build(cfgs []config.StrategyConfig) ([]Strategy, error) {
	out := make([]Strategy, 0, len(cfgs))
	for i, sc := range cfgs {
		s, err := New(sc)
		if err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// New creates one strategy from its config entry.
func New(sc config.StrategyConfig) (Strategy, error) {
	switch sc.Kind {
	case config.KindFixedFair:
		return &FixedFair{ID: sc.Name, Symbol: sc.Symbol, Fair: sc.FairValue}, nil
	case config.KindGapTaker:
		return &GapTaker{ID: sc.Name, Symbol: sc.Symbol, MaxSpread: sc.MaxSpread, MinGap: sc.MinGap}, nil
	case config.KindMACross:
		if sc.ShortWindow <= 0 || sc.LongWindow <= sc.ShortWindow {
			return nil, fmt.Errorf("ma_cross %s: need 0 < short < long", sc.Symbol)
		}
		return NewMACross(sc.Name, sc.Symbol, sc.ShortWindow, sc.LongWindow, sc.HistorySize), nil
	case config.KindSeasonal:
		return &Seasonal{ID: sc.Name, Symbol: sc.Symbol, Buy: sc.BuyWindow, Sell: sc.SellWindow}, nil
	case config.KindBasket:
		legs := make([]Leg, 0, len(sc.Legs))
		for _, l := range sc.Legs {
			if l.Ratio <= 0 {
				return nil, fmt.Errorf("basket %s: leg %s ratio must be > 0", sc.Basket, l.Symbol)
			}
			legs = append(legs, Leg{Symbol: l.Symbol, Ratio: l.Ratio})
		}
		return &Basket{
			ID:        sc.Name,
			Basket:    sc.Basket,
			Legs:      legs,
			Premium:   sc.Premium,
			Margin:    sc.Margin,
			TaperSpan: sc.TaperSpan,
			Skew:      sc.Skew,
		}, nil
	case config.KindPair:
		return &Pair{
			ID:          sc.Name,
			First:       sc.First,
			Second:      sc.Second,
			Ratio:       sc.Ratio,
			Threshold:   sc.Threshold,
			TaperFirst:  sc.TaperFirst,
			TaperSecond: sc.TaperSecond,
		}, nil
	default:
		return nil, fmt.Errorf("unknown strategy kind: %q", sc.Kind)
	}
}

// NewTraderFromConfig builds a Trader with the limit table and strategies of cfg.
func NewTraderFromConfig(cfg config.AppConfig) (*Trader, error) {
	strategies, err := Build(cfg.Strategies)
	if err != nil {
		return nil, err
	}
	return NewTrader(risk.Limits(cfg.Limits), strategies...), nil
}
