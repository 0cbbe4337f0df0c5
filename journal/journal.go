// journal/journal.go
package journal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrInvalidTrade  = errors.New("invalid trade")
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

type Status string

const (
	Open      Status = "open"
	Closed    Status = "closed"
	Cancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case Open:
		return Open, nil
	case Closed:
		return Closed, nil
	case Cancelled:
		return Cancelled, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// TradeRecord is one journaled position. Optional fields are pointers;
// an empty emotion string means no emotion was recorded.
type TradeRecord struct {
	TradeID string
	UserID  string
	Symbol  string
	Side    Side
	Status  Status

	EntryPrice float64
	Quantity   float64
	ExitPrice  *float64

	EntryTime time.Time
	ExitTime  *time.Time

	EmotionBefore string
	EmotionAfter  string
	Notes         string

	RealizedPL *float64
}

// PnL returns the realized P/L, or 0 when none was booked.
func (t TradeRecord) PnL() float64 {
	if t.RealizedPL == nil {
		return 0
	}
	return *t.RealizedPL
}

// Notional is the entry value of the position.
func (t TradeRecord) Notional() float64 {
	return t.EntryPrice * t.Quantity
}

// IsClosed reports whether the trade counts toward closed-trade metrics.
func (t TradeRecord) IsClosed() bool {
	return t.Status == Closed && t.RealizedPL != nil
}

// HasEmotion reports whether either emotion slot references id.
func (t TradeRecord) HasEmotion(id string) bool {
	return id != "" && (t.EmotionBefore == id || t.EmotionAfter == id)
}

// CalculatePnL books the P/L for closing qty units at exit.
func CalculatePnL(entry, exit, qty float64, side Side) float64 {
	if side == Sell {
		return (entry - exit) * qty
	}
	return (exit - entry) * qty
}

// CloseAt marks the trade closed at exit and books its realized P/L.
func (t *TradeRecord) CloseAt(exit float64, at time.Time) {
	pl := CalculatePnL(t.EntryPrice, exit, t.Quantity, t.Side)
	t.ExitPrice = &exit
	t.ExitTime = &at
	t.RealizedPL = &pl
	t.Status = Closed
}

const plTolerance = 1e-6

// Validate checks the record invariants. It is applied where trades enter
// the journal, never by the analytics code.
func (t TradeRecord) Validate() error {
	if t.TradeID == "" {
		return invalid("trade_id is required")
	}
	if t.Symbol == "" {
		return invalid("%s: symbol is required", t.TradeID)
	}
	if t.Side != Buy && t.Side != Sell {
		return invalid("%s: unknown side %q", t.TradeID, t.Side)
	}
	switch t.Status {
	case Open, Closed, Cancelled:
	default:
		return invalid("%s: unknown status %q", t.TradeID, t.Status)
	}
	if t.EntryPrice <= 0 {
		return invalid("%s: entry_price must be positive", t.TradeID)
	}
	if t.Quantity <= 0 {
		return invalid("%s: quantity must be positive", t.TradeID)
	}
	if t.ExitPrice != nil && *t.ExitPrice < 0 {
		return invalid("%s: exit_price must not be negative", t.TradeID)
	}
	if t.EntryTime.IsZero() {
		return invalid("%s: entry_time is required", t.TradeID)
	}
	if t.ExitTime != nil && t.ExitTime.Before(t.EntryTime) {
		return invalid("%s: exit_time before entry_time", t.TradeID)
	}
	if t.RealizedPL == nil {
		return nil
	}
	if t.Status != Closed {
		return invalid("%s: realized_pl on %s trade", t.TradeID, t.Status)
	}
	if t.ExitPrice != nil {
		want := CalculatePnL(t.EntryPrice, *t.ExitPrice, t.Quantity, t.Side)
		if math.Abs(want-*t.RealizedPL) > plTolerance*math.Max(1, math.Abs(want)) {
			return invalid("%s: realized_pl %.6f does not match %.6f", t.TradeID, *t.RealizedPL, want)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTrade, fmt.Sprintf(format, args...))
}

// Journal stores trade records.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Tee returns a Journal that records every trade to each of js in order.
func Tee(js ...Journal) Journal {
	return tee(js)
}

type tee []Journal

// RecordTrade stops at the first journal that fails.
func (t tee) RecordTrade(rec TradeRecord) error {
	for _, j := range t {
		if err := j.RecordTrade(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every journal and joins their errors.
func (t tee) Close() error {
	var errs []error
	for _, j := range t {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}
