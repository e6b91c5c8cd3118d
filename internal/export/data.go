package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ReplayData pairs a recorded trajectory with its simulated replay in the
// shape external plotting tools consume.
type ReplayData struct {
	Model     string    `json:"model"`
	MAE       float64   `json:"mae"`
	Samples   int       `json:"samples"`
	Times     []float64 `json:"times"`
	Recorded  []float64 `json:"recorded"`
	Simulated []float64 `json:"simulated"`
}

func (d *ReplayData) check() error {
	if len(d.Recorded) != len(d.Times) || len(d.Simulated) != len(d.Times) {
		return fmt.Errorf("export: series lengths differ: %d times, %d recorded, %d simulated",
			len(d.Times), len(d.Recorded), len(d.Simulated))
	}
	return nil
}

// WriteJSON persists the comparison as indented JSON.
func WriteJSON(path string, d *ReplayData) error {
	if err := d.check(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteCSV persists the comparison as time,recorded,simulated rows.
func WriteCSV(path string, d *ReplayData) error {
	if err := d.check(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "recorded", "simulated"}); err != nil {
		return err
	}
	for i := range d.Times {
		row := []string{
			strconv.FormatFloat(d.Times[i], 'f', 6, 64),
			strconv.FormatFloat(d.Recorded[i], 'f', 6, 64),
			strconv.FormatFloat(d.Simulated[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
