package fit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/servofit/internal/logs"
)

// errBudgetExhausted unwinds the grid walk when the trial budget runs out.
var errBudgetExhausted = errors.New("fit: trial budget exhausted")

// Grid evaluates the objective on a regular grid over the model's
// parameter box, points values per axis, and returns the best cell. The
// walk is deterministic and exhaustive, which makes it a useful cross
// check on the stochastic search for the low-dimensional variants; the
// cell count grows as points^dim, so Options.Trials caps the walk and the
// run reports FunctionEvaluationLimit when the cap cuts it short.
// Cancellation through ctx keeps the best cell found so far.
func Grid(ctx context.Context, factory Factory, collection *logs.Collection, opts Options, points int) (*Result, error) {
	if collection == nil || collection.Len() == 0 {
		return nil, ErrNoLogs
	}
	if points < 2 {
		return nil, fmt.Errorf("fit: grid needs at least 2 points per axis, got %d", points)
	}

	probe, err := factory()
	if err != nil {
		return nil, err
	}
	bounds := searchBounds(probe.Params())
	if len(bounds) == 0 {
		return nil, ErrNothingToOptimize
	}

	if opts.Trials <= 0 {
		opts.Trials = 10000
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "fit"))

	// Axis positions in the unit box, mapped per-parameter by the bounds.
	axis := make([]float64, points)
	for i := range axis {
		axis[i] = float64(i) / float64(points-1)
	}

	g := &gridWalk{
		ctx:        ctx,
		factory:    factory,
		collection: collection,
		bounds:     bounds,
		axis:       axis,
		budget:     opts.Trials,
		observer:   opts.Observer,
		logger:     logger,
		best:       math.Inf(1),
	}

	logger.Info("grid search started",
		zap.String("model", probe.Name()),
		zap.Int("dimensions", len(bounds)),
		zap.Int("points", points),
		zap.Float64("cells", math.Pow(float64(points), float64(len(bounds)))),
		zap.Int("budget", opts.Trials),
		zap.Int("logs", collection.Len()),
	)

	start := time.Now()
	status := "GridComplete"
	walkErr := g.walk(0, make([]float64, len(bounds)))
	switch {
	case errors.Is(walkErr, errBudgetExhausted):
		status = "FunctionEvaluationLimit"
		walkErr = nil
	case walkErr != nil:
		status = "Failure"
	}

	if g.bestValues == nil {
		if walkErr != nil {
			return nil, walkErr
		}
		return nil, fmt.Errorf("fit: no grid evaluation succeeded")
	}

	out := &Result{
		Model:      probe.Name(),
		BestScore:  g.best,
		BestValues: g.bestValues,
		Trials:     g.count,
		Runtime:    time.Since(start),
		Status:     status,
	}

	logger.Info("grid search finished",
		zap.Float64("best_score", out.BestScore),
		zap.Int("trials", out.Trials),
		zap.String("status", out.Status),
	)

	return out, walkErr
}

// gridWalk carries the recursion state: one unit coordinate per dimension,
// filled depth-first so every axis combination is visited exactly once.
type gridWalk struct {
	ctx        context.Context
	factory    Factory
	collection *logs.Collection
	bounds     []bound
	axis       []float64
	budget     int
	observer   func(Trial)
	logger     *zap.Logger

	count      int
	best       float64
	bestValues map[string]float64
}

func (g *gridWalk) walk(depth int, x []float64) error {
	if depth == len(g.bounds) {
		return g.evaluate(x)
	}
	for _, u := range g.axis {
		x[depth] = u
		if err := g.walk(depth+1, x); err != nil {
			return err
		}
	}
	return nil
}

func (g *gridWalk) evaluate(x []float64) error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	if g.count >= g.budget {
		return errBudgetExhausted
	}

	g.count++
	tr := Trial{Number: g.count, Score: math.Inf(1)}

	m, err := g.factory()
	if err != nil {
		tr.Err = err
	} else {
		tr.Values = applyUnit(m.Params(), g.bounds, x)
		score, err := Objective(m, g.collection)
		if err != nil {
			tr.Err = err
		} else {
			tr.Score = score
		}
	}

	if g.observer != nil {
		g.observer(tr)
	}
	if tr.Err != nil {
		g.logger.Warn("trial failed", zap.Int("trial", tr.Number), zap.Error(tr.Err))
		return nil
	}

	if tr.Score < g.best {
		g.best = tr.Score
		g.bestValues = tr.Values
	}
	return nil
}
