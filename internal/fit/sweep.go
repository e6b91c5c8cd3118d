package fit

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/servofit/internal/logs"
)

// SweepPoint is one objective evaluation along a swept parameter's range.
// A failed replay keeps its axis position with an infinite score and the
// cause in Err.
type SweepPoint struct {
	Value float64
	Score float64
	Err   error
}

// Sweep evaluates the objective at points evenly spaced positions across
// one parameter's search range, holding every other parameter at its base
// value. The resulting curve is the one-dimensional objective landscape
// around a fitted solution: a flat curve means the logs do not constrain
// the parameter, a sharp valley means they do. Cancellation returns the
// points evaluated so far with ctx's error.
func Sweep(ctx context.Context, factory Factory, collection *logs.Collection, base map[string]float64, name string, points int) ([]SweepPoint, error) {
	if collection == nil || collection.Len() == 0 {
		return nil, ErrNoLogs
	}
	if points < 2 {
		return nil, fmt.Errorf("fit: sweep needs at least 2 points, got %d", points)
	}

	probe, err := factory()
	if err != nil {
		return nil, err
	}
	p, ok := probe.Params().Get(name)
	if !ok {
		return nil, fmt.Errorf("fit: %s has no parameter %s", probe.Name(), name)
	}
	min, max := p.Min, p.Max

	step := (max - min) / float64(points-1)
	out := make([]SweepPoint, 0, points)
	for i := 0; i < points; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		value := min + float64(i)*step

		m, err := factory()
		if err != nil {
			return out, err
		}
		m.Params().Load(base)
		if sp, ok := m.Params().Get(name); ok {
			sp.Value = value
		}

		score, err := Objective(m, collection)
		if err != nil {
			out = append(out, SweepPoint{Value: value, Score: math.Inf(1), Err: err})
			continue
		}
		out = append(out, SweepPoint{Value: value, Score: score})
	}
	return out, nil
}
