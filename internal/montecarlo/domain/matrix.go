package domain

// PriceMatrix 价格矩阵，行为路径，列为交易日
// 底层使用行优先的一维切片存储
type PriceMatrix struct {
	rows int
	cols int
	data []float64
}

// NewPriceMatrix 创建 rows × cols 的价格矩阵
func NewPriceMatrix(rows, cols int) *PriceMatrix {
	return &PriceMatrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// Rows 路径数
func (m *PriceMatrix) Rows() int { return m.rows }

// Cols 列数 (HorizonDays + 1)
func (m *PriceMatrix) Cols() int { return m.cols }

// Row 返回第 i 条路径，与矩阵共享底层存储
func (m *PriceMatrix) Row(i int) []float64 {
	start := i * m.cols
	return m.data[start : start+m.cols : start+m.cols]
}

// firstInvalidPrice 查找第一个非有限或非正的价格
func (m *PriceMatrix) firstInvalidPrice() (row, col int, v float64, found bool) {
	for k, p := range m.data {
		if p <= 0 || !isFinite(p) {
			return k / m.cols, k % m.cols, p, true
		}
	}
	return 0, 0, 0, false
}

// Column 将第 t 列复制到 dst 中并返回
// dst 容量不足时重新分配
func (m *PriceMatrix) Column(t int, dst []float64) []float64 {
	if cap(dst) < m.rows {
		dst = make([]float64, m.rows)
	}
	dst = dst[:m.rows]
	for i := 0; i < m.rows; i++ {
		dst[i] = m.data[i*m.cols+t]
	}
	return dst
}

// SampleRows 每隔 step 行抽取一条路径的副本
func (m *PriceMatrix) SampleRows(step int) [][]float64 {
	if step < 1 {
		step = 1
	}
	out := make([][]float64, 0, (m.rows+step-1)/step)
	for i := 0; i < m.rows; i += step {
		row := make([]float64, m.cols)
		copy(row, m.Row(i))
		out = append(out, row)
	}
	return out
}

// SampleStep 计算抽样步长 k = N / 100，至少为 1
func SampleStep(numPaths int) int {
	k := numPaths / SampleTarget
	if k == 0 {
		return 1
	}
	return k
}
