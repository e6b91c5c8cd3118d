package analysis

import (
	"strings"

	"github.com/san-kum/servofit/internal/logs"
)

// PhasePortrait2D holds points of a position/velocity phase plot.
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// PhasePortrait collects the (position, speed) pairs of a motion log.
func PhasePortrait(log *logs.Log) *PhasePortrait2D {
	if log == nil || len(log.Entries) == 0 {
		return nil
	}

	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, 0, len(log.Entries)),
	}
	for _, e := range log.Entries {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: e.Position,
			Y: e.Speed,
		})
	}
	return portrait
}

// PoincareSection records (position, speed) whenever the position crosses
// the threshold going up. For periodic motion the points cluster.
func PoincareSection(log *logs.Log, threshold float64) *PhasePortrait2D {
	if log == nil || len(log.Entries) < 2 {
		return nil
	}

	section := &PhasePortrait2D{}
	prev := log.Entries[0].Position
	for _, e := range log.Entries[1:] {
		if prev < threshold && e.Position >= threshold {
			section.Points = append(section.Points, struct{ X, Y float64 }{
				X: e.Position,
				Y: e.Speed,
			})
		}
		prev = e.Position
	}
	return section
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	// Create canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Plot points
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	// Convert to string
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
