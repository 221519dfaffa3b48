package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)
)

// renderSummary 渲染模拟结果摘要面板
func renderSummary(res *domain.SimulationResult, elapsed time.Duration) string {
	last := res.HorizonDays
	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"initial price", fmt.Sprintf("%.2f", res.InitialPrice), valueStyle},
		{"paths", fmt.Sprintf("%d", res.NumPaths), valueStyle},
		{"horizon (days)", fmt.Sprintf("%d", res.HorizonDays), valueStyle},
		{"mean final", fmt.Sprintf("%.2f", res.MeanPath[last]), valueStyle},
		{"p95 final", fmt.Sprintf("%.2f", res.P95Path[last]), valueStyle},
		{"VaR price (p5)", fmt.Sprintf("%.2f", res.VaRPrice), valueStyle},
		{"VaR loss", fmt.Sprintf("%.2f", res.VaRLoss), lossStyle},
		{"elapsed", elapsed.Round(time.Microsecond).String(), valueStyle},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Monte Carlo VaR (95%)"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.label), r.style.Render(r.value)))
	}
	return panelStyle.Render(b.String())
}

// renderChart 绘制均值、p5、p95 路径
func renderChart(res *domain.SimulationResult) string {
	return asciigraph.PlotMany(
		[][]float64{res.P95Path, res.MeanPath, res.P5Path},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Default, asciigraph.Red),
		asciigraph.Caption("p95 (green) / mean / p5 (red)"),
	)
}
