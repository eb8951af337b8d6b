package risk

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"round-trader/order"
)

// CircuitBreaker 以轮次为窗口监控每个品种 mid 的相对涨跌幅。
// 任一品种超过阈值即视为熔断，涉及该品种的整批订单被拒绝，直到窗口内行情回落。
type CircuitBreaker struct {
	Window int     // 回看轮数
	Thresh float64 // 相对涨跌幅阈值，例如 0.02

	mu      sync.Mutex
	hist    map[string][]float64
	tripped map[string]bool
}

func NewCircuitBreaker(window int, thresh float64) *CircuitBreaker {
	if window < 1 {
		window = 1
	}
	return &CircuitBreaker{
		Window:  window,
		Thresh:  thresh,
		hist:    make(map[string][]float64),
		tripped: make(map[string]bool),
	}
}

// OnRound 记录本轮 mid 并刷新熔断状态；本轮缺失的品种保持原样。
func (c *CircuitBreaker) OnRound(mids map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sym, mid := range mids {
		buf := append(c.hist[sym], mid)
		if len(buf) > c.Window+1 {
			buf = buf[len(buf)-c.Window-1:]
		}
		c.hist[sym] = buf
		c.tripped[sym] = c.check(buf)
	}
}

func (c *CircuitBreaker) check(buf []float64) bool {
	if c.Thresh <= 0 || len(buf) < 2 {
		return false
	}
	first, last := buf[0], buf[len(buf)-1]
	if first == 0 {
		return false
	}
	return math.Abs(last-first)/first > c.Thresh
}

// Tripped 返回品种当前是否处于熔断状态。
func (c *CircuitBreaker) Tripped(symbol string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tripped[symbol]
}

// CheckBatch 实现 Guard。
func (c *CircuitBreaker) CheckBatch(b order.Batch, _ Positions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var hit []string
	for _, sym := range b.Symbols() {
		if c.tripped[sym] {
			hit = append(hit, sym)
		}
	}
	if len(hit) == 0 {
		return nil
	}
	sort.Strings(hit)
	return fmt.Errorf("%w: %v", ErrCircuitOpen, hit)
}
