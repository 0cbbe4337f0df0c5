// Package analytics turns a list of journaled trades into the metrics, series
// and groupings shown on the dashboard and analytics views.
//
// Every function is a pure computation over its arguments: input slices are
// never modified, results are freshly allocated and no state is kept between
// calls, so all of them are safe to call concurrently on shared input.
package analytics

import (
	"errors"

	"github.com/rustyeddy/tradejournal/journal"
)

// ErrNoClosedTrades is returned by Summary.Extremes when the best and worst
// trade are undefined.
var ErrNoClosedTrades = errors.New("no closed trades")

// Summary holds the headline performance metrics.
//
// A trade is closed when its status is closed and it carries a realized P/L.
// Ratio metrics are 0 when their denominator is empty. BestTrade and
// WorstTrade are nil when there are no closed trades.
type Summary struct {
	Trades       int     `json:"trades"`
	ClosedTrades int     `json:"closed_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalPnL     float64 `json:"total_pnl"`
	WinRate      float64 `json:"win_rate"` // percent, 0..100
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"` // magnitude
	ProfitFactor float64 `json:"profit_factor"`

	BestTrade  *float64 `json:"best_trade,omitempty"`
	WorstTrade *float64 `json:"worst_trade,omitempty"`

	AvgTradeSize float64 `json:"avg_trade_size"` // over all trades, not only closed
}

// HasExtremes reports whether BestTrade and WorstTrade are defined.
func (s Summary) HasExtremes() bool {
	return s.BestTrade != nil && s.WorstTrade != nil
}

// Extremes returns the best and worst realized P/L, or ErrNoClosedTrades.
func (s Summary) Extremes() (best, worst float64, err error) {
	if !s.HasExtremes() {
		return 0, 0, ErrNoClosedTrades
	}
	return *s.BestTrade, *s.WorstTrade, nil
}

// Summarize computes the summary metrics for trades.
func Summarize(trades []journal.TradeRecord) Summary {
	s := Summary{Trades: len(trades)}

	var (
		grossWin, grossLoss float64
		notional            float64
		best, worst         float64
	)
	for _, t := range trades {
		notional += t.Notional()

		if !t.IsClosed() {
			continue
		}
		pl := *t.RealizedPL

		if s.ClosedTrades == 0 || pl > best {
			best = pl
		}
		if s.ClosedTrades == 0 || pl < worst {
			worst = pl
		}
		s.ClosedTrades++
		s.TotalPnL += pl

		switch {
		case pl > 0:
			s.Wins++
			grossWin += pl
		case pl < 0:
			s.Losses++
			grossLoss += -pl
		}
	}

	if len(trades) > 0 {
		s.AvgTradeSize = notional / float64(len(trades))
	}
	if s.ClosedTrades == 0 {
		return s
	}

	s.BestTrade = &best
	s.WorstTrade = &worst
	s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	if s.Wins > 0 {
		s.AvgWin = grossWin / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = grossLoss / float64(s.Losses)
	}
	if s.AvgLoss > 0 {
		s.ProfitFactor = s.AvgWin / s.AvgLoss
	}
	return s
}

// Outcomes are the journal header counts: wins and losses by P/L sign over
// every record, and the number of open positions.
type Outcomes struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Open   int `json:"open"`
}

// CountOutcomes counts wins, losses and open positions in trades.
func CountOutcomes(trades []journal.TradeRecord) Outcomes {
	var o Outcomes
	for _, t := range trades {
		switch pl := t.PnL(); {
		case pl > 0:
			o.Wins++
		case pl < 0:
			o.Losses++
		}
		if t.Status == journal.Open {
			o.Open++
		}
	}
	return o
}
