package strategy

// History 是定长的 mid 价序列，最旧的样本在前。
// 同一时间戳重复写入会覆盖最后一个样本，保证同一轮重复决策结果一致。
type History struct {
	size   int
	stamps []int64
	mids   []float64
}

func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		size:   size,
		stamps: make([]int64, 0, size),
		mids:   make([]float64, 0, size),
	}
}

// Observe records the mid of round ts.
func (h *History) Observe(ts int64, mid float64) {
	if n := len(h.stamps); n > 0 && h.stamps[n-1] == ts {
		h.mids[n-1] = mid
		return
	}
	h.stamps = append(h.stamps, ts)
	h.mids = append(h.mids, mid)
	if len(h.mids) > h.size {
		drop := len(h.mids) - h.size
		h.stamps = append(h.stamps[:0], h.stamps[drop:]...)
		h.mids = append(h.mids[:0], h.mids[drop:]...)
	}
}

func (h *History) Len() int { return len(h.mids) }

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	return append([]float64(nil), h.mids...)
}

// SMA 返回以倒数第 lag 个样本结尾、长度为 window 的简单均值；样本不足时 ok=false。
func (h *History) SMA(window, lag int) (float64, bool) {
	end := len(h.mids) - lag
	start := end - window
	if window <= 0 || lag < 0 || start < 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range h.mids[start:end] {
		sum += v
	}
	return sum / float64(window), true
}
