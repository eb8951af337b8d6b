package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchFlattenAndExposure(t *testing.T) {
	b := Batch{}
	b.Add(New("PICNIC_BASKET", 73000, -2), New("BAGUETTE", 12000, 4))
	b.Add(New("BAGUETTE", 12001, -1))
	b["EMPTY"] = nil

	assert.Equal(t, []string{"BAGUETTE", "PICNIC_BASKET"}, b.Symbols())
	assert.Equal(t, 3, b.Count())

	flat := b.Flatten()
	assert.Len(t, flat, 3)
	assert.Equal(t, 12000, flat[0].Price)
	assert.Equal(t, 12001, flat[1].Price)

	buy, sell := b.Exposure("BAGUETTE")
	assert.Equal(t, 4, buy)
	assert.Equal(t, 1, sell)
}
