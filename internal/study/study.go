package study

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store keeps calibration run history in a local sqlite database. The
// fitting engine never depends on it; the CLI feeds it through the trial
// observer.
type Store struct {
	*sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS studies (
	id            TEXT PRIMARY KEY,
	created_at    TIMESTAMP,
	model         TEXT,
	logdir        TEXT,
	trials        BIGINT,
	jobs          BIGINT,
	seed          BIGINT,
	status        TEXT,
	best_score    DOUBLE,
	best_params   TEXT
);
CREATE TABLE IF NOT EXISTS trials (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	study_id      TEXT,
	number        BIGINT,
	score         DOUBLE,
	params        TEXT,
	state         TEXT,
	created_at    TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trials_study ON trials(study_id, number);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Study is one calibration run's metadata and outcome.
type Study struct {
	ID         string
	CreatedAt  time.Time
	Model      string
	LogDir     string
	Trials     int
	Jobs       int
	Seed       int64
	Status     string
	BestScore  float64
	BestParams map[string]float64
}

// Trial is one recorded objective evaluation. A failed trial has State
// "failed" and an infinite score.
type Trial struct {
	ID        int64
	StudyID   string
	Number    int
	Score     float64
	Params    map[string]float64
	State     string
	CreatedAt time.Time
}

// CreateStudy registers a new running study and returns its id.
func (s *Store) CreateStudy(model, logdir string, trials, jobs int, seed int64) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec(
		`INSERT INTO studies (id, created_at, model, logdir, trials, jobs, seed, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), model, logdir, trials, jobs, seed, "running",
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordTrial appends one evaluation. Infinite scores are stored as NULL
// so sqlite aggregation stays usable.
func (s *Store) RecordTrial(studyID string, number int, score float64, params map[string]float64, failed bool) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}

	state := "complete"
	if failed {
		state = "failed"
	}
	stored := sql.NullFloat64{Float64: score, Valid: !math.IsInf(score, 0) && !math.IsNaN(score)}

	_, err = s.Exec(
		`INSERT INTO trials (study_id, number, score, params, state, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		studyID, number, stored, string(data), state, time.Now().UTC(),
	)
	return err
}

// FinishStudy records the outcome and final status of a study.
func (s *Store) FinishStudy(id, status string, bestScore float64, bestParams map[string]float64) error {
	data, err := json.Marshal(bestParams)
	if err != nil {
		return err
	}
	stored := sql.NullFloat64{Float64: bestScore, Valid: !math.IsInf(bestScore, 0) && !math.IsNaN(bestScore)}

	res, err := s.Exec(
		`UPDATE studies SET status = ?, best_score = ?, best_params = ? WHERE id = ?`,
		status, stored, string(data), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("study: no study with id %s", id)
	}
	return nil
}

// ListStudies returns all studies, newest first.
func (s *Store) ListStudies() ([]Study, error) {
	rows, err := s.Query(
		`SELECT id, created_at, model, logdir, trials, jobs, seed, status, best_score, best_params FROM studies ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var studies []Study
	for rows.Next() {
		var st Study
		var score sql.NullFloat64
		var params sql.NullString
		if err := rows.Scan(&st.ID, &st.CreatedAt, &st.Model, &st.LogDir, &st.Trials, &st.Jobs, &st.Seed, &st.Status, &score, &params); err != nil {
			return nil, err
		}
		st.BestScore = nullScore(score)
		if params.Valid && params.String != "" {
			if err := json.Unmarshal([]byte(params.String), &st.BestParams); err != nil {
				return nil, err
			}
		}
		studies = append(studies, st)
	}
	return studies, rows.Err()
}

// Trials returns every recorded evaluation of a study in trial order.
func (s *Store) Trials(studyID string) ([]Trial, error) {
	rows, err := s.Query(
		`SELECT id, study_id, number, score, params, state, created_at FROM trials WHERE study_id = ? ORDER BY number`,
		studyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		tr, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		trials = append(trials, tr)
	}
	return trials, rows.Err()
}

// BestTrial returns the completed trial with the lowest score.
func (s *Store) BestTrial(studyID string) (*Trial, error) {
	row := s.QueryRow(
		`SELECT id, study_id, number, score, params, state, created_at FROM trials
		 WHERE study_id = ? AND state = 'complete' AND score IS NOT NULL
		 ORDER BY score ASC, number ASC LIMIT 1`,
		studyID,
	)
	tr, err := scanTrial(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("study: no completed trials for %s", studyID)
	}
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrial(s scanner) (Trial, error) {
	var tr Trial
	var score sql.NullFloat64
	var params sql.NullString
	if err := s.Scan(&tr.ID, &tr.StudyID, &tr.Number, &score, &params, &tr.State, &tr.CreatedAt); err != nil {
		return Trial{}, err
	}
	tr.Score = nullScore(score)
	if params.Valid && params.String != "" {
		if err := json.Unmarshal([]byte(params.String), &tr.Params); err != nil {
			return Trial{}, err
		}
	}
	return tr, nil
}

func nullScore(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(1)
	}
	return v.Float64
}
