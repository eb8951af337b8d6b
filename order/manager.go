package order

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Gateway 提供基础下单抽象；模拟撮合与测试桩都实现它。
// Place 返回本次立即成交的数量（绝对值）。
type Gateway interface {
	Place(o Order) (filled int, err error)
}

// Manager 维护订单状态并通过 Gateway 下发。
type Manager struct {
	gw     Gateway
	mu     sync.RWMutex
	orders map[string]*Order
	open   []string
}

func NewManager(gw Gateway) *Manager {
	return &Manager{
		gw:     gw,
		orders: make(map[string]*Order),
	}
}

var (
	ErrUnknownOrder = errors.New("unknown order")
	ErrInvalidOrder = errors.New("invalid order")
	ErrNoGateway    = errors.New("gateway not configured")
)

// Submit 校验后同步调用 Gateway 下单并登记状态。
func (m *Manager) Submit(o Order) (*Order, error) {
	if err := validate(o); err != nil {
		return nil, err
	}
	if m.gw == nil {
		return nil, ErrNoGateway
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Status = StatusNew
	o.Filled = 0
	m.mu.Lock()
	m.orders[o.ID] = &o
	m.mu.Unlock()

	filled, err := m.gw.Place(o)
	if err != nil {
		_ = m.updateStatus(o.ID, StatusRejected, 0, err)
		return nil, err
	}
	st := StatusAck
	switch {
	case filled >= o.Size():
		st = StatusFilled
	case filled > 0:
		st = StatusPartial
	}
	if err := m.updateStatus(o.ID, st, filled, nil); err != nil {
		return nil, err
	}
	if !IsFinal(st) {
		m.mu.Lock()
		m.open = append(m.open, o.ID)
		m.mu.Unlock()
	}
	return m.Get(o.ID)
}

// Get 返回订单副本。
func (m *Manager) Get(id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrUnknownOrder
	}
	cp := *o
	return &cp, nil
}

// Status 返回订单当前状态，如不存在则第二个返回值为 false。
func (m *Manager) Status(id string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return "", false
	}
	return o.Status, true
}

// CancelOpen 在轮次结束时撤销所有未完结订单，返回撤销数量。
func (m *Manager) CancelOpen() int {
	m.mu.Lock()
	open := m.open
	m.open = nil
	m.mu.Unlock()
	n := 0
	for _, id := range open {
		if err := m.updateStatus(id, StatusCanceled, -1, nil); err == nil {
			n++
		}
	}
	return n
}

// Len 返回当前登记的订单数。
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// Reset 丢弃所有历史订单。
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = make(map[string]*Order)
	m.open = nil
}

// filled < 0 keeps the current fill count.
func (m *Manager) updateStatus(id string, st Status, filled int, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrUnknownOrder
	}
	if err := ValidateTransition(o.Status, st); err != nil {
		return err
	}
	o.Status = st
	if filled >= 0 {
		o.Filled = filled
	}
	if cause != nil {
		o.LastError = cause.Error()
	}
	return nil
}

func validate(o Order) error {
	if o.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if o.Quantity == 0 {
		return fmt.Errorf("%w: zero quantity for %s", ErrInvalidOrder, o.Symbol)
	}
	if o.Price <= 0 {
		return fmt.Errorf("%w: price %d for %s", ErrInvalidOrder, o.Price, o.Symbol)
	}
	return nil
}
