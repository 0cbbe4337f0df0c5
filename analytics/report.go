package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// Options select the window and ranking size for a Report.
type Options struct {
	Days int       // calendar days in the window, ending on Now's date
	TopK int       // symbols kept in the ranking; <= 0 keeps all
	Now  time.Time // end of the window; its Location defines calendar days
}

// Report is everything the analytics view shows for one window.
type Report struct {
	Generated time.Time      `json:"generated"`
	Days      int            `json:"days"`
	Summary   Summary        `json:"summary"`
	Outcomes  Outcomes       `json:"outcomes"`
	Daily     []DayPnL       `json:"daily"`
	Symbols   []SymbolStats  `json:"symbols"`
	Emotions  []EmotionStats `json:"emotions"`
}

// Build computes a Report over the trades entered within the window.
func Build(trades []journal.TradeRecord, catalog []journal.EmotionTag, opts Options) Report {
	in := Window(trades, opts.Days, opts.Now)
	return Report{
		Generated: opts.Now,
		Days:      opts.Days,
		Summary:   Summarize(in),
		Outcomes:  CountOutcomes(in),
		Daily:     DailyPnL(in, opts.Days, opts.Now),
		Symbols:   TopSymbols(in, opts.TopK),
		Emotions:  EmotionGroups(in, catalog),
	}
}
