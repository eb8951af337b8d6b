package risk

import "round-trader/order"

// Guard 是下单前的整批校验接口。
type Guard interface {
	CheckBatch(b order.Batch, pos Positions) error
}

// MultiGuard 顺序执行多个 Guard，只要有一个返回错误则中止。
type MultiGuard struct {
	Guards []Guard
}

func (m MultiGuard) CheckBatch(b order.Batch, pos Positions) error {
	for _, g := range m.Guards {
		if g == nil {
			continue
		}
		if err := g.CheckBatch(b, pos); err != nil {
			return err
		}
	}
	return nil
}
