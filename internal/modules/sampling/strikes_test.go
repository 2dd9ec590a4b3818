package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestStrikes(t *testing.T) {
	chain := []int64{50, 100, 150, 200, 250, 300}

	tests := []struct {
		name    string
		strikes []int64
		spot    float64
		n       int
		want    []int64
	}{
		{"centred on 150", chain, 155, 6, []int64{50, 100, 150, 200, 250}},
		{"spot below minimum clamps low end", chain, 10, 6, []int64{50, 100, 150}},
		{"spot above maximum clamps high end", chain, 900, 6, []int64{150, 200, 250, 300}},
		{"full band in the middle", []int64{100, 200, 300, 400, 500, 600, 700, 800}, 460, 6, []int64{200, 300, 400, 500, 600, 700}},
		{"tie goes to lower strike", chain, 125, 2, []int64{50, 100}},
		{"unsorted input", []int64{300, 50, 250, 100, 200, 150}, 155, 6, []int64{50, 100, 150, 200, 250}},
		{"single strike", []int64{21500}, 21000, 6, []int64{21500}},
		{"band of one has no half-width", chain, 155, 1, []int64{}},
		{"repeated strikes count once", []int64{100, 100, 200, 200, 300, 300, 400, 400}, 260, 4, []int64{100, 200, 300, 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestStrikes(tt.strikes, tt.spot, tt.n))
		})
	}
}

func TestNearestStrikes_Empty(t *testing.T) {
	assert.Nil(t, NearestStrikes(nil, 100, 6))
	assert.Nil(t, NearestStrikes([]int64{100}, 100, 0))
}

func TestNearestStrikes_DoesNotMutateInput(t *testing.T) {
	input := []int64{300, 100, 200}
	NearestStrikes(input, 150, 6)
	assert.Equal(t, []int64{300, 100, 200}, input)
}
