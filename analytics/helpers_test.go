package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

var day0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func fp(v float64) *float64 { return &v }

// closed builds a closed trade with the given realized P/L. Prices are not
// consistent with the P/L; the analytics code never checks them.
func closed(id string, pl float64) journal.TradeRecord {
	return journal.TradeRecord{
		TradeID:    id,
		Symbol:     "BTC/USD",
		Side:       journal.Buy,
		Status:     journal.Closed,
		EntryPrice: 100,
		Quantity:   1,
		EntryTime:  day0,
		RealizedPL: fp(pl),
	}
}

func open(id string) journal.TradeRecord {
	return journal.TradeRecord{
		TradeID:    id,
		Symbol:     "ETH/USD",
		Side:       journal.Sell,
		Status:     journal.Open,
		EntryPrice: 200,
		Quantity:   2,
		EntryTime:  day0,
	}
}

func at(t journal.TradeRecord, ts time.Time) journal.TradeRecord {
	t.EntryTime = ts
	return t
}

func sym(t journal.TradeRecord, s string) journal.TradeRecord {
	t.Symbol = s
	return t
}

func emo(t journal.TradeRecord, before, after string) journal.TradeRecord {
	t.EmotionBefore = before
	t.EmotionAfter = after
	return t
}

func withPL(t journal.TradeRecord, pl float64) journal.TradeRecord {
	t.RealizedPL = fp(pl)
	return t
}
