// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"trade_id", "user_id", "symbol", "side", "status",
	"entry_price", "quantity", "exit_price",
	"entry_time", "exit_time",
	"emotion_before", "emotion_after", "realized_pl", "notes",
}

// CSVJournal appends trades to a CSV file.
type CSVJournal struct {
	trades *csv.Writer
	tf     *os.File
}

// NewCSV opens tradesPath for appending, creating it with a header row when
// it is new or empty.
func NewCSV(tradesPath string) (*CSVJournal, error) {
	tf, err := os.OpenFile(tradesPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	st, err := tf.Stat()
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	if st.Size() == 0 {
		if err := tw.Write(csvHeader); err != nil {
			tf.Close()
			return nil, err
		}
		tw.Flush()
		if err := tw.Error(); err != nil {
			tf.Close()
			return nil, err
		}
	}

	return &CSVJournal{trades: tw, tf: tf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := j.trades.Write(csvRow(t)); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		j.tf.Close()
		return err
	}
	return j.tf.Close()
}

// WriteCSV writes a header and one row per trade.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(csvRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses trades written by WriteCSV. Every row is validated; errors
// carry the 1-based line number.
func ReadCSV(r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header")
		}
		return nil, err
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return nil, fmt.Errorf("csv: column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var out []TradeRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		t, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func csvRow(t TradeRecord) []string {
	return []string{
		t.TradeID,
		t.UserID,
		t.Symbol,
		string(t.Side),
		string(t.Status),
		f(t.EntryPrice),
		f(t.Quantity),
		optF(t.ExitPrice),
		t.EntryTime.Format(time.RFC3339),
		optTime(t.ExitTime),
		t.EmotionBefore,
		t.EmotionAfter,
		optF(t.RealizedPL),
		t.Notes,
	}
}

func parseRow(row []string) (TradeRecord, error) {
	var (
		t   TradeRecord
		err error
	)
	t.TradeID = row[0]
	t.UserID = row[1]
	t.Symbol = row[2]
	if t.Side, err = ParseSide(row[3]); err != nil {
		return t, err
	}
	if t.Status, err = ParseStatus(row[4]); err != nil {
		return t, err
	}
	if t.EntryPrice, err = strconv.ParseFloat(row[5], 64); err != nil {
		return t, fmt.Errorf("entry_price: %w", err)
	}
	if t.Quantity, err = strconv.ParseFloat(row[6], 64); err != nil {
		return t, fmt.Errorf("quantity: %w", err)
	}
	if t.ExitPrice, err = parseOptF(row[7]); err != nil {
		return t, fmt.Errorf("exit_price: %w", err)
	}
	if t.EntryTime, err = time.Parse(time.RFC3339, row[8]); err != nil {
		return t, fmt.Errorf("entry_time: %w", err)
	}
	if row[9] != "" {
		et, err := time.Parse(time.RFC3339, row[9])
		if err != nil {
			return t, fmt.Errorf("exit_time: %w", err)
		}
		t.ExitTime = &et
	}
	t.EmotionBefore = row[10]
	t.EmotionAfter = row[11]
	if t.RealizedPL, err = parseOptF(row[12]); err != nil {
		return t, fmt.Errorf("realized_pl: %w", err)
	}
	t.Notes = row[13]
	return t, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func optF(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

func optTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseOptF(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
