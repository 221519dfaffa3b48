package domain

import "testing"

func TestPriceMatrix_RowAndColumn(t *testing.T) {
	m := NewPriceMatrix(3, 4)
	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		for d := range row {
			row[d] = float64(i*10 + d)
		}
	}

	if got := m.Row(2)[3]; got != 23 {
		t.Errorf("expected row 2 day 3 = 23, got %v", got)
	}

	col := m.Column(1, nil)
	want := []float64{1, 11, 21}
	for i := range want {
		if col[i] != want[i] {
			t.Errorf("column 1[%d]: expected %v, got %v", i, want[i], col[i])
		}
	}

	// 复用缓冲区
	col = m.Column(3, col)
	if col[0] != 3 || col[2] != 23 {
		t.Errorf("unexpected reused column: %v", col)
	}
}

func TestPriceMatrix_SampleRowsCopies(t *testing.T) {
	m := NewPriceMatrix(5, 2)
	for i := 0; i < 5; i++ {
		m.Row(i)[0] = float64(i)
	}

	rows := m.SampleRows(2)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != 2 || rows[2][0] != 4 {
		t.Errorf("unexpected sampled rows: %v", rows)
	}

	rows[0][0] = 99
	if m.Row(0)[0] != 0 {
		t.Error("expected sampled rows to be copies")
	}
}

func TestSampleStep(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1},
		{50, 1},
		{99, 1},
		{100, 1},
		{350, 3},
		{1000, 10},
		{5000, 50},
	}
	for _, tt := range tests {
		if got := SampleStep(tt.n); got != tt.want {
			t.Errorf("SampleStep(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPriceMatrix_FirstInvalidPrice(t *testing.T) {
	m := NewPriceMatrix(2, 3)
	for i := 0; i < 2; i++ {
		row := m.Row(i)
		for d := range row {
			row[d] = 100
		}
	}
	if _, _, _, found := m.firstInvalidPrice(); found {
		t.Fatal("expected no invalid price in a positive matrix")
	}

	m.Row(1)[2] = 0
	row, col, v, found := m.firstInvalidPrice()
	if !found || row != 1 || col != 2 || v != 0 {
		t.Errorf("expected zero price at (1, 2), got found=%v (%d, %d)=%v", found, row, col, v)
	}
}
