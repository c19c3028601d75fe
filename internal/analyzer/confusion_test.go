package analyzer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfusionMatrix_ConcurrentIncrement(t *testing.T) {
	m := NewConfusionMatrix(3)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				m.Increment(w%3, i%3)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(8000), m.Total())
}

func TestConfusionMatrix_RowsIsCopy(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Increment(0, 1)

	rows := m.Rows()
	assert.Equal(t, [][]int64{{0, 1}, {0, 0}}, rows)

	rows[0][1] = 42
	assert.Equal(t, int64(1), m.Get(0, 1))
}

func TestConfusionMatrix_Summary(t *testing.T) {
	m := NewConfusionMatrix(2)
	for i := 0; i < 4; i++ {
		m.Increment(0, 0)
	}
	m.Increment(0, 1)
	m.Increment(1, 0)
	m.Increment(1, 1)
	m.Increment(1, 1)

	s := m.Summary()
	assert.InDelta(t, 3.0, s.WithinClassMean, 1e-12)
	assert.InDelta(t, 1.0, s.BetweenClassMean, 1e-12)
	assert.InDelta(t, 3.0, s.Ratio, 1e-12)
}

func TestConfusionMatrix_SummaryDegenerate(t *testing.T) {
	assert.Equal(t, ConfusionSummary{}, NewConfusionMatrix(0).Summary())

	single := NewConfusionMatrix(1)
	single.Increment(0, 0)
	s := single.Summary()
	assert.Equal(t, 1.0, s.WithinClassMean)
	assert.Equal(t, 0.0, s.BetweenClassMean)
	assert.Equal(t, 0.0, s.Ratio)
}
