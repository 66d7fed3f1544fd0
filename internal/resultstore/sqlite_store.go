package resultstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/google/uuid"
	"github.com/localrivet/textsummary/internal/errortypes"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// SQLiteStore is an implementation of ResultStore that uses SQLite.
type SQLiteStore struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Initialize initializes the store with the given database path.
func (s *SQLiteStore) Initialize(dbPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return errortypes.DatabaseError(err, "failed to open SQLite database").WithField("path", dbPath)
	}
	s.conn = conn

	if err := s.createTables(); err != nil {
		s.conn.Close()
		s.conn = nil
		return errortypes.DatabaseError(err, "failed to create tables").WithField("path", dbPath)
	}

	return nil
}

// createTables creates the run and result tables if they don't exist.
func (s *SQLiteStore) createTables() error {
	return sqlitex.ExecScript(s.conn, `
	CREATE TABLE IF NOT EXISTS benchmark_runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS benchmark_results (
		run_id TEXT NOT NULL REFERENCES benchmark_runs(id),
		method TEXT NOT NULL,
		summary TEXT NOT NULL,
		metrics TEXT NOT NULL,
		evaluation_status TEXT NOT NULL,
		message TEXT NOT NULL,
		error_message TEXT NOT NULL,
		PRIMARY KEY (run_id, method)
	);`)
}

// Close closes the store and releases any resources.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// SaveRun stores the run and all of its records in one transaction.
func (s *SQLiteStore) SaveRun(run Run) (id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return "", errortypes.DatabaseError(errors.New("store is not initialized"), "failed to save run")
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	defer sqlitex.Save(s.conn)(&err)

	stmt, err := s.conn.Prepare(`
	INSERT INTO benchmark_runs (id, source, created_at)
	VALUES (?, ?, ?);`)
	if err != nil {
		return "", errortypes.DatabaseError(err, "failed to prepare run insert")
	}
	stmt.BindText(1, run.ID)
	stmt.BindText(2, run.Source)
	stmt.BindInt64(3, run.CreatedAt.UnixNano())
	_, err = stmt.Step()
	stmt.Reset()
	if err != nil {
		return "", errortypes.DatabaseError(err, "failed to insert run").WithField("run_id", run.ID)
	}

	stmt, err = s.conn.Prepare(`
	INSERT INTO benchmark_results (run_id, method, summary, metrics, evaluation_status, message, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return "", errortypes.DatabaseError(err, "failed to prepare result insert")
	}
	for _, record := range run.Records {
		metrics, err := json.Marshal(record.Metrics)
		if err != nil {
			return "", errortypes.DatabaseError(err, "failed to encode metrics").WithField("method", record.Method)
		}

		stmt.BindText(1, run.ID)
		stmt.BindText(2, record.Method)
		stmt.BindText(3, record.Summary)
		stmt.BindText(4, string(metrics))
		stmt.BindText(5, record.EvaluationStatus)
		stmt.BindText(6, record.Message)
		stmt.BindText(7, record.ErrorMessage)
		_, err = stmt.Step()
		stmt.Reset()
		if err != nil {
			return "", errortypes.DatabaseError(err, "failed to insert result").
				WithFields(map[string]interface{}{"run_id": run.ID, "method": record.Method})
		}
	}

	return run.ID, nil
}

// GetRun returns the run with the given id, records ordered by method.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, errortypes.DatabaseError(errors.New("store is not initialized"), "failed to load run")
	}

	stmt, err := s.conn.Prepare(`SELECT source, created_at FROM benchmark_runs WHERE id = ?;`)
	if err != nil {
		return nil, errortypes.DatabaseError(err, "failed to prepare run query")
	}
	defer stmt.Reset()
	stmt.BindText(1, id)

	hasRow, err := stmt.Step()
	if err != nil {
		return nil, errortypes.DatabaseError(err, "failed to query run").WithField("run_id", id)
	}
	if !hasRow {
		return nil, errortypes.DatabaseError(ErrRunNotFound, "failed to load run").WithField("run_id", id)
	}
	run := &Run{
		ID:        id,
		Source:    stmt.ColumnText(0),
		CreatedAt: time.Unix(0, stmt.ColumnInt64(1)),
	}
	stmt.Reset()

	results, err := s.queryResults(`
	SELECT r.run_id, runs.created_at, r.method, r.summary, r.metrics, r.evaluation_status, r.message, r.error_message
	FROM benchmark_results r JOIN benchmark_runs runs ON runs.id = r.run_id
	WHERE r.run_id = ?
	ORDER BY r.method;`, id)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		run.Records = append(run.Records, result.Record)
	}
	return run, nil
}

// Latest returns the newest stored result of every method.
func (s *SQLiteStore) Latest() ([]StoredResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, errortypes.DatabaseError(errors.New("store is not initialized"), "failed to load results")
	}

	results, err := s.queryResults(`
	SELECT r.run_id, runs.created_at, r.method, r.summary, r.metrics, r.evaluation_status, r.message, r.error_message
	FROM benchmark_results r JOIN benchmark_runs runs ON runs.id = r.run_id
	WHERE runs.seq = (
		SELECT MAX(runs2.seq)
		FROM benchmark_results r2 JOIN benchmark_runs runs2 ON runs2.id = r2.run_id
		WHERE r2.method = r.method
	);`)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Method < results[j].Method
	})
	return results, nil
}

// queryResults runs a result query and decodes its rows. The caller holds the lock.
func (s *SQLiteStore) queryResults(query string, args ...string) ([]StoredResult, error) {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return nil, errortypes.DatabaseError(err, "failed to prepare result query")
	}
	defer stmt.Reset()

	for i, arg := range args {
		stmt.BindText(i+1, arg)
	}

	var results []StoredResult
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, errortypes.DatabaseError(err, "failed to query results")
		}
		if !hasRow {
			break
		}

		var metrics map[string]float64
		if raw := stmt.ColumnText(4); raw != "" {
			if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
				return nil, errortypes.DatabaseError(err, fmt.Sprintf("failed to decode metrics for %s", stmt.ColumnText(2)))
			}
		}

		results = append(results, StoredResult{
			RunID:     stmt.ColumnText(0),
			CreatedAt: time.Unix(0, stmt.ColumnInt64(1)),
			Record: Record{
				Method:           stmt.ColumnText(2),
				Summary:          stmt.ColumnText(3),
				Metrics:          metrics,
				EvaluationStatus: stmt.ColumnText(5),
				Message:          stmt.ColumnText(6),
				ErrorMessage:     stmt.ColumnText(7),
			},
		})
	}
	return results, nil
}
