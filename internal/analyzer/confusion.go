package analyzer

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// ConfusionMatrix counts, per seed document row, which document each of its
// windows most resembled. It is shared by all solver workers.
type ConfusionMatrix struct {
	mu    sync.Mutex
	size  int
	cells []int64
}

// ConfusionSummary compares diagonal (within-class) against off-diagonal
// (between-class) cells of the raw counts.
type ConfusionSummary struct {
	WithinClassMean  float64
	BetweenClassMean float64
	// Ratio is WithinClassMean / BetweenClassMean, 0 when the denominator is 0
	Ratio float64
}

// NewConfusionMatrix creates a size x size matrix of zero counts
func NewConfusionMatrix(size int) *ConfusionMatrix {
	return &ConfusionMatrix{
		size:  size,
		cells: make([]int64, size*size),
	}
}

// Increment adds one to cell (row, col)
func (m *ConfusionMatrix) Increment(row, col int) {
	m.mu.Lock()
	m.cells[row*m.size+col]++
	m.mu.Unlock()
}

// Get returns the count in cell (row, col)
func (m *ConfusionMatrix) Get(row, col int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells[row*m.size+col]
}

// Size returns the number of rows (and columns)
func (m *ConfusionMatrix) Size() int {
	return m.size
}

// Total returns the sum of all cells
func (m *ConfusionMatrix) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, v := range m.cells {
		total += v
	}
	return total
}

// Rows returns a copy of the matrix as nested slices
func (m *ConfusionMatrix) Rows() [][]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([][]int64, m.size)
	for i := range rows {
		rows[i] = make([]int64, m.size)
		copy(rows[i], m.cells[i*m.size:(i+1)*m.size])
	}
	return rows
}

// Summary computes the within/between class diagnostic
func (m *ConfusionMatrix) Summary() ConfusionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size == 0 {
		return ConfusionSummary{}
	}

	within := make([]float64, 0, m.size)
	between := make([]float64, 0, m.size*m.size-m.size)
	for i := 0; i < m.size; i++ {
		for j := 0; j < m.size; j++ {
			v := float64(m.cells[i*m.size+j])
			if i == j {
				within = append(within, v)
			} else {
				between = append(between, v)
			}
		}
	}

	summary := ConfusionSummary{
		WithinClassMean: stat.Mean(within, nil),
	}
	if len(between) > 0 {
		summary.BetweenClassMean = stat.Mean(between, nil)
	}
	if summary.BetweenClassMean != 0 {
		summary.Ratio = summary.WithinClassMean / summary.BetweenClassMean
	}
	return summary
}
