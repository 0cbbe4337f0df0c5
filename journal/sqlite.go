package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver.
	DriverCGO = "sqlite3"
	// DriverPure is the modernc.org/sqlite driver, for CGO-free builds.
	DriverPure = "sqlite"

	DefaultDriver = DriverCGO
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	return Open(DefaultDriver, path)
}

// Open opens (creating if needed) the journal database at path.
func Open(driver, path string) (*SQLite, error) {
	switch driver {
	case DriverCGO, DriverPure:
	default:
		return nil, fmt.Errorf("unknown sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordTrade validates t and inserts it, replacing any record with the
// same id.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	if err := t.Validate(); err != nil {
		return err
	}

	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.UserID, t.Symbol, string(t.Side), string(t.Status),
		t.EntryPrice, t.Quantity, nullFloat(t.ExitPrice),
		t.EntryTime.UTC(), nullTime(t.ExitTime),
		t.EmotionBefore, t.EmotionAfter, nullFloat(t.RealizedPL), t.Notes,
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// DeleteTrade removes a trade by ID.
func (j *SQLite) DeleteTrade(tradeID string) error {
	res, err := j.db.Exec(`DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
	}
	return nil
}

// ListTrades returns every trade ordered by entry time.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT ` + tradeColumns + `
		FROM trades
		ORDER BY entry_time ASC, trade_id ASC`)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// ListTradesEnteredBetween returns trades whose entry_time is within [start, end).
func (j *SQLite) ListTradesEnteredBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE entry_time >= ? AND entry_time < ?
		ORDER BY entry_time ASC, trade_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec           TradeRecord
		side, status  string
		exitPrice, pl sql.NullFloat64
		exitTime      sql.NullTime
	)
	err := s.Scan(
		&rec.TradeID,
		&rec.UserID,
		&rec.Symbol,
		&side,
		&status,
		&rec.EntryPrice,
		&rec.Quantity,
		&exitPrice,
		&rec.EntryTime,
		&exitTime,
		&rec.EmotionBefore,
		&rec.EmotionAfter,
		&pl,
		&rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	rec.Side = Side(side)
	rec.Status = Status(status)
	if exitPrice.Valid {
		rec.ExitPrice = &exitPrice.Float64
	}
	if exitTime.Valid {
		rec.ExitTime = &exitTime.Time
	}
	if pl.Valid {
		rec.RealizedPL = &pl.Float64
	}
	return rec, nil
}

func collectTrades(rows *sql.Rows) ([]TradeRecord, error) {
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}
