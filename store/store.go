// Package store persists a record of every completed simulation run —
// its configuration and final tallies — to a SQLite database, so a
// series of runs (different alpha profiles, different policies) can be
// compared after the fact without re-parsing log files.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agencia-rdp/simulator/net"
)

// Store wraps a SQLite database holding one row per completed run.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint     TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	finished_at     TEXT NOT NULL,
	alpha_profile   TEXT NOT NULL,
	policy_name     TEXT NOT NULL,
	target_fires    INTEGER NOT NULL,
	exit_fires      INTEGER NOT NULL,
	sequence_length INTEGER NOT NULL,
	invariants_completed INTEGER NOT NULL,
	fire_counts     TEXT NOT NULL
);`

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunRecord summarizes one completed simulation run.
type RunRecord struct {
	ID                 int64
	Fingerprint        string
	StartedAt          time.Time
	FinishedAt         time.Time
	AlphaProfile       string
	PolicyName         string
	TargetFires        int
	ExitFires          int
	SequenceLength     int
	InvariantsComplete int
	FireCounts         [net.Transitions]int
}

// RecordRun inserts one completed run's summary.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	fireCounts, err := json.Marshal(r.FireCounts)
	if err != nil {
		return 0, fmt.Errorf("store: encoding fire counts: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			fingerprint, started_at, finished_at, alpha_profile, policy_name,
			target_fires, exit_fires, sequence_length, invariants_completed,
			fire_counts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Fingerprint,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.AlphaProfile, r.PolicyName,
		r.TargetFires, r.ExitFires, r.SequenceLength, r.InvariantsComplete,
		string(fireCounts),
	)
	if err != nil {
		return 0, fmt.Errorf("store: recording run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, started_at, finished_at, alpha_profile, policy_name,
		       target_fires, exit_fires, sequence_length, invariants_completed,
		       fire_counts
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished, fireCounts string
		if err := rows.Scan(&r.ID, &r.Fingerprint, &started, &finished, &r.AlphaProfile, &r.PolicyName,
			&r.TargetFires, &r.ExitFires, &r.SequenceLength, &r.InvariantsComplete, &fireCounts); err != nil {
			return nil, fmt.Errorf("store: scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		if err := json.Unmarshal([]byte(fireCounts), &r.FireCounts); err != nil {
			return nil, fmt.Errorf("store: decoding fire counts: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordFromReport is a convenience constructor pulling the fields
// RecordRun needs out of a completed net's state.
func RecordFromReport(fingerprint string, started, finished time.Time, profile, policyName string, exitTransition, target int, fires [net.Transitions]int, seqLen, invariantsComplete int) RunRecord {
	return RunRecord{
		Fingerprint:        fingerprint,
		StartedAt:          started,
		FinishedAt:         finished,
		AlphaProfile:       profile,
		PolicyName:         policyName,
		TargetFires:        target,
		ExitFires:          fires[exitTransition],
		SequenceLength:     seqLen,
		InvariantsComplete: invariantsComplete,
		FireCounts:         fires,
	}
}
