package export

import (
	"fmt"
	"strings"
)

const (
	recordedColor  = "#00ff00"
	simulatedColor = "#ff00ff"
)

// TrajectorySVG renders the recorded and simulated position series of one
// log as an SVG document, position over time.
func TrajectorySVG(times, recorded, simulated []float64, width, height int) string {
	if len(times) < 2 || len(recorded) != len(times) || len(simulated) != len(times) {
		return ""
	}

	// Find bounds across both series
	minT, maxT := times[0], times[len(times)-1]
	minY, maxY := recorded[0], recorded[0]
	for i := range times {
		for _, v := range []float64{recorded[i], simulated[i]} {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	// Add padding
	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath := func(series []float64, color string) {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, v := range series {
			x := (times[i] - minT) / rangeT * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	writePath(recorded, recordedColor)
	writePath(simulated, simulatedColor)

	sb.WriteString(fmt.Sprintf(`<text x="10" y="20" fill="%s" font-family="monospace" font-size="12">recorded</text>
<text x="10" y="36" fill="%s" font-family="monospace" font-size="12">simulated</text>
</svg>`, recordedColor, simulatedColor))

	return sb.String()
}
