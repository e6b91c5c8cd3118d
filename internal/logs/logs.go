package logs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one telemetry sample of a recorded trajectory. Volts is nil
// when the motor was electrically disconnected at sample time; JSON null
// round-trips that state.
type Entry struct {
	Timestamp    float64  `json:"timestamp"`
	Dt           float64  `json:"dt"`
	Position     float64  `json:"position"`
	Speed        float64  `json:"speed"`
	Load         float64  `json:"load"`
	Volts        *float64 `json:"volts"`
	GoalPosition *float64 `json:"goal_position,omitempty"`
	TorqueEnable bool     `json:"torque_enable"`
	InputVolts   float64  `json:"input_volts"`
	Temp         float64  `json:"temp"`
}

// Log is one recorded trajectory with the rig constants needed to replay
// it. Immutable once loaded. Kp and Vin are the recording-time controller
// gain and supply voltage, used when entries carry goal positions instead
// of direct voltages.
type Log struct {
	Name    string  `json:"name,omitempty"`
	Mass    float64 `json:"mass"`
	Length  float64 `json:"length"`
	Kp      float64 `json:"kp"`
	Vin     float64 `json:"vin"`
	Entries []Entry `json:"entries"`
}

// Positions returns the recorded ground-truth position sequence.
func (l *Log) Positions() []float64 {
	positions := make([]float64, len(l.Entries))
	for i, entry := range l.Entries {
		positions[i] = entry.Position
	}
	return positions
}

// Duration returns the recorded time span in seconds.
func (l *Log) Duration() float64 {
	if len(l.Entries) < 2 {
		return 0
	}
	return l.Entries[len(l.Entries)-1].Timestamp - l.Entries[0].Timestamp
}

// ReadFile loads a single log. A log without a name takes its filename.
func ReadFile(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, err
	}
	if log.Name == "" {
		log.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &log, nil
}

// WriteFile persists a log as indented JSON.
func WriteFile(path string, log *Log) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

// Collection is the immutable set of logs a calibration run fits against.
type Collection struct {
	Dir  string
	Logs []*Log
}

// Load reads every *.json log under dir in filename order. An empty
// directory yields an empty collection, not an error; the objective
// rejects empty collections at evaluation time.
func Load(dir string) (*Collection, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	c := &Collection{Dir: dir}
	for _, path := range paths {
		log, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		c.Logs = append(c.Logs, log)
	}
	return c, nil
}

func (c *Collection) Len() int {
	return len(c.Logs)
}
