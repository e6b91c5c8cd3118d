package viz

import "github.com/guptarohit/asciigraph"

// Plot renders one series as an ASCII line chart.
func Plot(series []float64, caption string) string {
	return asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption))
}

// Overlay renders several series on one chart, recorded against simulated
// trajectories for instance.
func Overlay(series [][]float64, caption string) string {
	return asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red))
}
