// Package logging records the provenance of every engine computation.
package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-computation
// LogComputation writes a provenance entry to the provenance_log table.
func LogComputation(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (run_id, input_key, operation, params_json, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		entry.InputKey,
		entry.Operation,
		nullIfEmpty(entry.ParamsJSON),
		entry.Outcome,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log computation: %w", err)
	}
	return nil
}

// Record builds an entry whose params are rec encoded as JSON.
func Record(inputKey, outcome string, rec ComputationRecord) (ProvenanceEntry, error) {
	params, err := json.Marshal(rec)
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("marshal computation record: %w", err)
	}
	return ProvenanceEntry{
		InputKey:   inputKey,
		Operation:  rec.Operation,
		ParamsJSON: string(params),
		Outcome:    outcome,
	}, nil
}

// #endregion log-computation

// #region list
// List returns the most recent entries for inputKey, newest first. An empty
// key lists all entries.
func List(db *sql.DB, inputKey string, limit int) ([]ProvenanceEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT run_id, input_key, operation, params_json, outcome, reason, created_at
	      FROM provenance_log`
	args := []interface{}{}
	if inputKey != "" {
		q += ` WHERE input_key = ?`
		args = append(args, inputKey)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list provenance: %w", err)
	}
	defer rows.Close()

	var out []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		var runID, params, reason sql.NullString
		var created string
		if err := rows.Scan(&runID, &e.InputKey, &e.Operation, &params, &e.Outcome, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan provenance: %w", err)
		}
		e.RunID = runID.String
		e.ParamsJSON = params.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
