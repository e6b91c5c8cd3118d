package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleReplay() *ReplayData {
	return &ReplayData{
		Model:     "m9",
		MAE:       0.042,
		Samples:   3,
		Times:     []float64{0, 0.005, 0.01},
		Recorded:  []float64{0, 0.1, 0.2},
		Simulated: []float64{0, 0.09, 0.21},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.json")
	if err := WriteJSON(path, sampleReplay()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got ReplayData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.Model != "m9" {
		t.Errorf("expected model m9, got %s", got.Model)
	}
	if got.MAE != 0.042 {
		t.Errorf("expected mae 0.042, got %g", got.MAE)
	}
	if len(got.Times) != 3 || len(got.Recorded) != 3 || len(got.Simulated) != 3 {
		t.Errorf("expected 3 samples per series, got %d/%d/%d",
			len(got.Times), len(got.Recorded), len(got.Simulated))
	}
}

func TestWriteCSVRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.csv")
	if err := WriteCSV(path, sampleReplay()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,recorded,simulated" {
		t.Errorf("expected csv header, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "0.005000,") {
		t.Errorf("expected second row at t=0.005, got %q", lines[2])
	}
}

func TestWriteJSONRejectsMismatchedSeries(t *testing.T) {
	d := sampleReplay()
	d.Simulated = d.Simulated[:2]
	if err := WriteJSON(filepath.Join(t.TempDir(), "bad.json"), d); err == nil {
		t.Error("expected an error for mismatched series lengths")
	}
}
