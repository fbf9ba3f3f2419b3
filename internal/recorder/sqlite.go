package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ClaimSentinel/internal/model"
)

// SQLiteRecorder persists decision history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log *zap.SugaredLogger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.SugaredLogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so external readers do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			account       TEXT NOT NULL,
			kind          TEXT NOT NULL,
			outcome       TEXT NOT NULL,
			collected     REAL,
			current_limit REAL,
			target_limit  REAL,
			cost          REAL,
			waste         REAL,
			tx_id         TEXT,
			note          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_account ON decisions(account, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordDecision appends one decision event.
func (r *SQLiteRecorder) RecordDecision(ev *model.DecisionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO decisions
		(timestamp, account, kind, outcome, collected, current_limit, target_limit, cost, waste, tx_id, note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), ev.Account, string(ev.Kind), string(ev.Outcome),
		nanToNull(ev.Collected), nanToNull(ev.CurrentLimit), nanToNull(ev.TargetLimit),
		nanToNull(ev.Cost), nanToNull(ev.Waste), ev.TxID, ev.Note,
	)
	return err
}

// nanToNull keeps sentinel NaNs out of the database.
func nanToNull(v float64) any {
	if v != v {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
