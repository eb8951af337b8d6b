package order

import "fmt"

// Status represents order lifecycle.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusAck      Status = "ACK"
	StatusPartial  Status = "PARTIAL"
	StatusFilled   Status = "FILLED"
	StatusCanceled Status = "CANCELED"
	StatusRejected Status = "REJECTED"
)

// Side 由数量符号推出，不单独存储。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is a limit order for one symbol. Quantity is signed: positive buys,
// negative sells. ID, Status, Filled and LastError belong to the Manager.
type Order struct {
	ID        string
	Symbol    string
	Price     int
	Quantity  int
	Status    Status
	Filled    int
	LastError string
}

// New returns an order as emitted by a strategy.
func New(symbol string, price, quantity int) Order {
	return Order{Symbol: symbol, Price: price, Quantity: quantity}
}

// Side returns BUY for positive quantities, SELL otherwise.
func (o Order) Side() Side {
	if o.Quantity > 0 {
		return SideBuy
	}
	return SideSell
}

// Size returns the absolute quantity.
func (o Order) Size() int {
	if o.Quantity < 0 {
		return -o.Quantity
	}
	return o.Quantity
}

// Remaining 返回尚未成交的数量（绝对值）。
func (o Order) Remaining() int {
	return o.Size() - o.Filled
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %dx%d", o.Side(), o.Symbol, o.Size(), o.Price)
}
