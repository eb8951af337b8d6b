package strategy

import (
	"round-trader/market"
	"round-trader/order"
	"round-trader/risk"
)

// Strategy 是一个子策略。Symbols 列出它需要的全部品种，
// Decide 通过 Round 读取行情并原子地发出订单。
type Strategy interface {
	Name() string
	Symbols() []string
	Decide(r *Round)
}

// Trader 是单轮决策核心：按顺序运行子策略，共享同一份仓位额度。
// 非并发安全，同一实例只应由一个回合驱动方串行调用。
type Trader struct {
	limits     *risk.LimitChecker
	strategies []Strategy
	onEmit     func(strategy string, o order.Order)
}

func NewTrader(limits risk.Limits, strategies ...Strategy) *Trader {
	return &Trader{
		limits:     risk.NewLimitChecker(limits),
		strategies: strategies,
	}
}

// OnEmit registers a hook called for every emitted order, with the name of
// the strategy that produced it.
func (t *Trader) OnEmit(fn func(strategy string, o order.Order)) {
	t.onEmit = fn
}

// Strategies returns the configured sub-strategies in run order.
func (t *Trader) Strategies() []Strategy {
	return t.strategies
}

// Limits returns the checker holding the position limit table.
func (t *Trader) Limits() *risk.LimitChecker {
	return t.limits
}

// Decide 根据快照计算本轮订单。filter 非空时只处理其中的品种，
// 多品种子策略要求其全部品种都在 filter 内。没有订单的品种不出现在结果中。
func (t *Trader) Decide(snap *market.Snapshot, log Logger, filter ...string) order.Batch {
	r := newRound(snap, log, t.limits)
	r.onEmit = t.onEmit
	allow := make(map[string]bool, len(filter))
	for _, sym := range filter {
		allow[sym] = true
	}
	for _, s := range t.strategies {
		if len(allow) > 0 && !allowed(allow, s.Symbols()) {
			continue
		}
		r.strategy = s.Name()
		s.Decide(r)
	}
	return r.batch
}

func allowed(allow map[string]bool, symbols []string) bool {
	for _, sym := range symbols {
		if !allow[sym] {
			return false
		}
	}
	return true
}
