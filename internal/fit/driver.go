package fit

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/model"
	"github.com/san-kum/servofit/internal/param"
)

// Factory builds a fresh model instance for one evaluation. Every trial
// owns its instance, so concurrent trials share no mutable state.
type Factory func() (model.Dynamics, error)

// VariantFactory returns a Factory for a registered variant name.
func VariantFactory(name string) Factory {
	return func() (model.Dynamics, error) { return model.New(name) }
}

// Trial is one finished objective evaluation.
type Trial struct {
	Number int
	Score  float64
	Values map[string]float64
	Err    error
}

// Options configure a calibration run.
type Options struct {
	// Trials is the evaluation budget. Defaults to 10000.
	Trials int

	// Jobs is the number of concurrent evaluations. Defaults to 1.
	Jobs int

	// Seed fixes the sampler; 0 seeds from the clock.
	Seed int64

	// Sigma is the initial step size in the unit search box. Defaults to 1/6.
	Sigma float64

	// Population overrides the CMA-ES population size; 0 keeps the
	// dimension-derived default.
	Population int

	// Logger receives engine diagnostics. Nil disables them.
	Logger *zap.Logger

	// Observer, when set, receives every finished trial. Calls are
	// serialized across workers.
	Observer func(Trial)
}

// Result is the outcome of a calibration run.
type Result struct {
	Model      string
	BestScore  float64
	BestValues map[string]float64
	Trials     int
	Runtime    time.Duration
	Status     string
}

// bound is one searchable parameter's box edge. The optimizer works in
// the unit box; values are clamped and mapped affinely into [min, max],
// so bounds are enforced by the sampling box alone.
type bound struct {
	name     string
	min, max float64
}

func (b bound) fromUnit(u float64) float64 {
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return b.min + u*(b.max-b.min)
}

func searchBounds(r *param.Registry) []bound {
	var bounds []bound
	r.Each(func(name string, p *param.Parameter) {
		if p.Optimize {
			bounds = append(bounds, bound{name: name, min: p.Min, max: p.Max})
		}
	})
	return bounds
}

// applyUnit writes a unit-box vector into the registry and returns the
// mapped values by name.
func applyUnit(r *param.Registry, bounds []bound, x []float64) map[string]float64 {
	values := make(map[string]float64, len(bounds))
	for i, b := range bounds {
		v := b.fromUnit(x[i])
		if p, ok := r.Get(b.name); ok {
			p.Value = v
		}
		values[b.name] = v
	}
	return values
}

// Calibrate searches the model's parameter box with CMA-ES for the values
// minimizing Objective over the collection, within a fixed trial budget.
// A failed trial scores +Inf and the run continues. Cancellation through
// ctx is best-effort: the optimizer stops between evaluations and the
// best vector found so far is still returned alongside ctx's error.
func Calibrate(ctx context.Context, factory Factory, collection *logs.Collection, opts Options) (*Result, error) {
	if collection == nil || collection.Len() == 0 {
		return nil, ErrNoLogs
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
	if opts.Sigma <= 0 {
		opts.Sigma = 1.0 / 6.0
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "fit"))

	var mu sync.Mutex
	count := 0
	report := func(tr Trial) {
		mu.Lock()
		count++
		tr.Number = count
		if opts.Observer != nil {
			opts.Observer(tr)
		}
		mu.Unlock()
		if tr.Err != nil {
			logger.Warn("trial failed", zap.Int("trial", tr.Number), zap.Error(tr.Err))
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			m, err := factory()
			if err != nil {
				report(Trial{Score: math.Inf(1), Err: err})
				return math.Inf(1)
			}
			values := applyUnit(m.Params(), bounds, x)
			score, err := Objective(m, collection)
			if err != nil {
				report(Trial{Score: math.Inf(1), Values: values, Err: err})
				return math.Inf(1)
			}
			report(Trial{Score: score, Values: values})
			return score
		},
		Status: func() (optimize.Status, error) {
			select {
			case <-ctx.Done():
				return optimize.Failure, ctx.Err()
			default:
				return optimize.NotTerminated, nil
			}
		},
	}

	// The trial budget is the only stopping rule: convergence-based
	// termination is disabled so short plateaus cannot end a run early.
	settings := &optimize.Settings{
		FuncEvaluations: opts.Trials,
		Converger:       optimize.NeverTerminate{},
	}
	if opts.Jobs > 1 {
		settings.Concurrent = opts.Jobs
	}

	method := &optimize.CmaEsChol{
		InitStepSize:    opts.Sigma,
		Population:      opts.Population,
		StopLogDet:      -1,
		Src:             rand.NewPCG(uint64(seed), uint64(seed)),
	}

	initX := make([]float64, len(bounds))
	for i := range initX {
		initX[i] = 0.5
	}

	logger.Info("calibration started",
		zap.String("model", probe.Name()),
		zap.Int("dimensions", len(bounds)),
		zap.Int("trials", opts.Trials),
		zap.Int("jobs", opts.Jobs),
		zap.Int("logs", collection.Len()),
	)

	res, runErr := optimize.Minimize(problem, initX, settings, method)
	if res == nil {
		return nil, fmt.Errorf("fit: optimizer: %w", runErr)
	}

	best := make(map[string]float64, len(bounds))
	for i, b := range bounds {
		best[b.name] = b.fromUnit(res.Location.X[i])
	}

	out := &Result{
		Model:      probe.Name(),
		BestScore:  res.Location.F,
		BestValues: best,
		Trials:     res.Stats.FuncEvaluations,
		Runtime:    res.Stats.Runtime,
		Status:     res.Status.String(),
	}

	logger.Info("calibration finished",
		zap.Float64("best_score", out.BestScore),
		zap.Int("trials", out.Trials),
		zap.String("status", out.Status),
	)

	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if runErr != nil {
		return out, fmt.Errorf("fit: optimizer: %w", runErr)
	}
	return out, nil
}
