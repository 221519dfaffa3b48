package domain

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Percentile 计算已排序样本的第 p 百分位数
// 排名位置为 p/100*(n-1)，在相邻两个次序统计量之间线性插值
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ColumnStats 单列 (单个交易日) 的截面统计量
type ColumnStats struct {
	Mean float64
	P5   float64
	P95  float64
}

// computeColumnStats 计算一列的均值及 5%/95% 分位数，会对 col 原地排序
func computeColumnStats(col []float64) ColumnStats {
	mean, err := stats.Mean(stats.Float64Data(col))
	if err != nil {
		mean = math.NaN()
	}
	slices.Sort(col)
	return ColumnStats{
		Mean: mean,
		P5:   Percentile(col, 5),
		P95:  Percentile(col, 95),
	}
}

// round2 保留两位小数
// 先放大 100 倍再按银行家舍入取整，与 numpy round(x, 2) 对二进制值的处理一致
func round2(v float64) float64 {
	if !isFinite(v) {
		return v
	}
	return decimal.NewFromFloat(v * 100).RoundBank(0).Shift(-2).InexactFloat64()
}
