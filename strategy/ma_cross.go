package strategy

import "round-trader/order"

// MACross 是均线交叉策略：短均线上穿长均线时买满，下穿时卖满。
// 历史 mid 价是决策核心唯一的跨轮状态。
type MACross struct {
	ID     string
	Symbol string
	Short  int
	Long   int

	hist *History
}

// NewMACross keeps historySize mids; values below long+1 are raised to it.
func NewMACross(id, symbol string, short, long, historySize int) *MACross {
	if historySize < long+1 {
		historySize = long + 1
	}
	return &MACross{ID: id, Symbol: symbol, Short: short, Long: long, hist: NewHistory(historySize)}
}

func (s *MACross) Name() string      { return nameOr(s.ID, "ma_cross:"+s.Symbol) }
func (s *MACross) Symbols() []string { return []string{s.Symbol} }

// History exposes the rolling mids.
func (s *MACross) History() *History { return s.hist }

func (s *MACross) Decide(r *Round) {
	if s.hist == nil {
		s.hist = NewHistory(s.Long + 1)
	}
	d, ok := r.Depth(s.Symbol)
	if !ok {
		return
	}
	mid, ok := d.Mid()
	if !ok {
		return
	}
	s.hist.Observe(r.Snap.Timestamp, mid)
	if s.hist.Len() < s.Long+1 {
		return
	}
	shortNow, _ := s.hist.SMA(s.Short, 0)
	longNow, _ := s.hist.SMA(s.Long, 0)
	shortPrev, _ := s.hist.SMA(s.Short, 1)
	longPrev, _ := s.hist.SMA(s.Long, 1)

	switch {
	case shortPrev < longPrev && shortNow > longNow:
		ask, _ := d.BestAsk()
		if q := r.BuyRoom(s.Symbol); q > 0 {
			r.Printf("golden cross %.2f/%.2f, BUY %d @ %d", shortNow, longNow, q, ask.Price)
			r.Emit(order.New(s.Symbol, ask.Price, q))
		}
	case shortPrev > longPrev && shortNow < longNow:
		bid, _ := d.BestBid()
		if q := r.SellRoom(s.Symbol); q > 0 {
			r.Printf("death cross %.2f/%.2f, SELL %d @ %d", shortNow, longNow, q, bid.Price)
			r.Emit(order.New(s.Symbol, bid.Price, -q))
		}
	}
}
