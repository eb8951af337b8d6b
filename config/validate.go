package config

import (
	"errors"
	"fmt"
)

// 子策略类型
const (
	KindFixedFair = "fixed_fair"
	KindGapTaker  = "gap_taker"
	KindMACross   = "ma_cross"
	KindSeasonal  = "seasonal"
	KindBasket    = "basket"
	KindPair      = "pair"
)

var ErrInvalid = errors.New("invalid config")

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return fmt.Errorf("%w: env is required", ErrInvalid)
	}
	if len(cfg.Limits) == 0 {
		return fmt.Errorf("%w: limits is required", ErrInvalid)
	}
	for sym, l := range cfg.Limits {
		if l <= 0 {
			return fmt.Errorf("%w: limits.%s must be > 0", ErrInvalid, sym)
		}
	}
	if len(cfg.Strategies) == 0 {
		return fmt.Errorf("%w: at least one strategy is required", ErrInvalid)
	}
	for i, sc := range cfg.Strategies {
		if err := validateStrategy(sc, cfg.Limits); err != nil {
			return fmt.Errorf("%w: strategies[%d] (%s): %v", ErrInvalid, i, sc.Kind, err)
		}
	}
	if cfg.Risk.CircuitThreshold < 0 || cfg.Risk.CircuitWindow < 0 {
		return fmt.Errorf("%w: risk.circuitWindow/circuitThreshold must be >= 0", ErrInvalid)
	}
	if cfg.Sim.TimestampStep < 0 || cfg.Sim.Rounds < 0 {
		return fmt.Errorf("%w: sim.rounds/timestampStep must be >= 0", ErrInvalid)
	}
	for sym, s := range cfg.Sim.Symbols {
		if s.Start <= 0 || s.Spread <= 0 || s.Depth <= 0 || s.Vol < 0 {
			return fmt.Errorf("%w: sim.symbols.%s needs start/spread/depth > 0 and vol >= 0", ErrInvalid, sym)
		}
	}
	return nil
}

func validateStrategy(sc StrategyConfig, limits map[string]int) error {
	needSymbol := func(sym string) error {
		if sym == "" {
			return errors.New("symbol is required")
		}
		if limits[sym] <= 0 {
			return fmt.Errorf("no position limit for %s", sym)
		}
		return nil
	}
	switch sc.Kind {
	case KindFixedFair:
		if err := needSymbol(sc.Symbol); err != nil {
			return err
		}
		if sc.FairValue <= 0 {
			return errors.New("fairValue must be > 0")
		}
	case KindGapTaker:
		if err := needSymbol(sc.Symbol); err != nil {
			return err
		}
		if sc.MaxSpread <= 0 || sc.MinGap < 0 {
			return errors.New("maxSpread must be > 0 and minGap >= 0")
		}
	case KindMACross:
		if err := needSymbol(sc.Symbol); err != nil {
			return err
		}
		if sc.ShortWindow <= 0 || sc.LongWindow <= sc.ShortWindow {
			return errors.New("need 0 < shortWindow < longWindow")
		}
		if sc.HistorySize != 0 && sc.HistorySize < sc.LongWindow+1 {
			return errors.New("historySize must be >= longWindow+1")
		}
	case KindSeasonal:
		if err := needSymbol(sc.Symbol); err != nil {
			return err
		}
		if sc.BuyWindow.From > sc.BuyWindow.To || sc.SellWindow.From > sc.SellWindow.To {
			return errors.New("window from must be <= to")
		}
		if sc.SellWindow.From <= sc.BuyWindow.To {
			return errors.New("sellWindow must start after buyWindow ends")
		}
	case KindBasket:
		if err := needSymbol(sc.Basket); err != nil {
			return err
		}
		if len(sc.Legs) == 0 {
			return errors.New("legs are required")
		}
		for _, leg := range sc.Legs {
			if err := needSymbol(leg.Symbol); err != nil {
				return err
			}
			if leg.Ratio <= 0 {
				return fmt.Errorf("leg %s ratio must be > 0", leg.Symbol)
			}
		}
		if sc.Margin < 0 || sc.TaperSpan < 0 {
			return errors.New("margin/taperSpan must be >= 0")
		}
	case KindPair:
		if err := needSymbol(sc.First); err != nil {
			return err
		}
		if err := needSymbol(sc.Second); err != nil {
			return err
		}
		if sc.First == sc.Second {
			return errors.New("first and second must differ")
		}
		if sc.Ratio <= 0 {
			return errors.New("ratio must be > 0")
		}
		if sc.Threshold < 0 || sc.TaperFirst < 0 || sc.TaperSecond < 0 {
			return errors.New("threshold/taper must be >= 0")
		}
	default:
		return fmt.Errorf("unknown kind %q", sc.Kind)
	}
	return nil
}
