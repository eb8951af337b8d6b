package risk

import (
	"errors"
	"fmt"
	"sort"

	"round-trader/order"
)

var ErrPositionLimit = errors.New("position limit exceeded")

// Limits 是品种 -> 最大绝对仓位的静态配置；未配置的品种上限为 0。
type Limits map[string]int

// Of returns the configured limit of symbol, or 0.
func (l Limits) Of(symbol string) int {
	if l == nil {
		return 0
	}
	if v := l[symbol]; v > 0 {
		return v
	}
	return 0
}

// Positions 提供当前净仓位；*market.Snapshot 与 inventory.Tracker 都满足。
type Positions interface {
	Position(symbol string) int
}

// LimitChecker 计算可用额度，并在下单前复核整批订单。
type LimitChecker struct {
	limits Limits
}

func NewLimitChecker(limits Limits) *LimitChecker {
	cp := make(Limits, len(limits))
	for k, v := range limits {
		cp[k] = v
	}
	return &LimitChecker{limits: cp}
}

// Limit returns the limit of symbol.
func (lc *LimitChecker) Limit(symbol string) int {
	return lc.limits.Of(symbol)
}

// BuyRoom 返回还能买入的最大数量：假设已挂出的买单全部成交。
func (lc *LimitChecker) BuyRoom(symbol string, position, pendingBuy int) int {
	return nonNeg(lc.limits.Of(symbol) - position - pendingBuy)
}

// SellRoom 返回还能卖出的最大数量（正数）：假设已挂出的卖单全部成交。
func (lc *LimitChecker) SellRoom(symbol string, position, pendingSell int) int {
	return nonNeg(lc.limits.Of(symbol) + position - pendingSell)
}

// CheckBatch verifies that the batch cannot breach any limit even if every
// buy fills and no sell fills, or the reverse.
func (lc *LimitChecker) CheckBatch(b order.Batch, pos Positions) error {
	syms := make([]string, 0, len(b))
	for sym := range b {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	for _, sym := range syms {
		buy, sell := b.Exposure(sym)
		p := 0
		if pos != nil {
			p = pos.Position(sym)
		}
		limit := lc.limits.Of(sym)
		if buy > 0 && p+buy > limit {
			return fmt.Errorf("%w: %s long %d+%d > %d", ErrPositionLimit, sym, p, buy, limit)
		}
		if sell > 0 && p-sell < -limit {
			return fmt.Errorf("%w: %s short %d-%d < -%d", ErrPositionLimit, sym, p, sell, limit)
		}
	}
	return nil
}

func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
