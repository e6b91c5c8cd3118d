package fit

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/model"
)

// Objective averages Score uniformly over the collection. Pure given a
// deterministic simulator: unchanged model and logs yield identical
// values. An empty collection is a configuration error, never averaged
// around.
func Objective(m model.Dynamics, collection *logs.Collection) (float64, error) {
	if collection == nil || collection.Len() == 0 {
		return 0, ErrNoLogs
	}

	scores := make([]float64, 0, collection.Len())
	for _, log := range collection.Logs {
		score, err := Score(m, log)
		if err != nil {
			return 0, fmt.Errorf("score %s: %w", log.Name, err)
		}
		scores = append(scores, score)
	}
	return stat.Mean(scores, nil), nil
}
