package fit

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/model"
	"github.com/san-kum/servofit/internal/sim"
)

// Score replays one log through the model and returns the mean absolute
// deviation between predicted and recorded positions. The simulator
// guarantees the sequences align one to one.
func Score(m model.Dynamics, log *logs.Log) (float64, error) {
	predicted, err := sim.Replay(log, m)
	if err != nil {
		return 0, err
	}

	recorded := log.Positions()
	deviations := make([]float64, len(predicted))
	for i := range predicted {
		deviations[i] = math.Abs(predicted[i] - recorded[i])
	}
	return stat.Mean(deviations, nil), nil
}
