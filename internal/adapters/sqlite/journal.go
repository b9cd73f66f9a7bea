// Package sqlite implements the decision journal on SQLite. The journal
// is append-only: the engine writes one row per evaluated candidate and
// never reads them back, so no decision state survives a cycle through
// this store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal implements ports.Journal using SQLite.
type Journal struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite journal.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewJournal opens (creating if necessary) the journal database.
func NewJournal(cfg Config) (*Journal, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite journal")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/decisions.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, logger: cfg.Logger}
	if err := j.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize journal schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Decision journal ready", map[string]interface{}{"path": dbPath})
	return j, nil
}

func (j *Journal) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		evaluated_at TIMESTAMP NOT NULL,
		price REAL NOT NULL,
		trend TEXT NOT NULL,
		volatility REAL NOT NULL,
		probability REAL NOT NULL,
		rsi REAL NOT NULL,
		score INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		order_id INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_cycle ON decisions(cycle);
	CREATE INDEX IF NOT EXISTS idx_decisions_symbol ON decisions(symbol);`

	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Record appends one decision and sets its assigned ID.
func (j *Journal) Record(ctx context.Context, d *domain.Decision) error {
	const query = `
	INSERT INTO decisions (
		cycle, symbol, evaluated_at, price, trend, volatility, probability,
		rsi, score, outcome, quantity, stop_loss, take_profit, order_id, detail
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := j.db.ExecContext(ctx, query,
		d.Cycle, d.Symbol, d.EvaluatedAt, d.Price, string(d.Trend), d.Volatility,
		d.Probability, d.RSI, d.Score, string(d.Outcome), d.Quantity,
		d.StopLoss, d.TakeProfit, d.OrderID, d.Detail,
	)
	if err != nil {
		return fmt.Errorf("%w: insert decision: %v", ports.ErrQueryFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: last insert id: %v", ports.ErrQueryFailed, err)
	}
	d.ID = id
	return nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
