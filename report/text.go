// Package report renders analytics results for the terminal and for Org files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

const rule = "--------------------------------------------------"

// PrintReport writes every section of r as plain text.
func PrintReport(w io.Writer, r analytics.Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Trading Performance")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Generated:     %s\n", r.Generated.Format(time.RFC3339))
	fmt.Fprintf(w, "Window:        %d days\n", r.Days)
	fmt.Fprintln(w)

	PrintSummary(w, r.Summary)
	fmt.Fprintln(w)
	PrintOutcomes(w, r.Outcomes)
	fmt.Fprintln(w)
	PrintSymbols(w, r.Symbols)
	fmt.Fprintln(w)
	PrintEmotions(w, r.Emotions)
	fmt.Fprintln(w)
	PrintDaily(w, r.Daily)
}

// PrintSummary writes the headline metrics.
func PrintSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Closed:        %d\n", s.ClosedTrades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Total P/L:     %.2f\n", s.TotalPnL)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	if best, worst, err := s.Extremes(); err == nil {
		fmt.Fprintf(w, "Best Trade:    %.2f\n", best)
		fmt.Fprintf(w, "Worst Trade:   %.2f\n", worst)
	}
	fmt.Fprintf(w, "Avg Size:      %.2f\n", s.AvgTradeSize)
}

// PrintOutcomes writes the win/loss/open distribution.
func PrintOutcomes(w io.Writer, o analytics.Outcomes) {
	fmt.Fprintln(w, "Trade Distribution")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Wins:          %d\n", o.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", o.Losses)
	fmt.Fprintf(w, "Open:          %d\n", o.Open)
}

// PrintDaily writes one line per day with a bar scaled to the largest move.
func PrintDaily(w io.Writer, days []analytics.DayPnL) {
	fmt.Fprintln(w, "Daily P/L")
	fmt.Fprintln(w, rule)

	var peak float64
	for _, d := range days {
		peak = max(peak, abs(d.PnL))
	}
	for _, d := range days {
		fmt.Fprintf(w, "%s %12.2f %s\n", d.Key(), d.PnL, bar(d.PnL, peak, 20))
	}
}

// PrintSymbols writes the symbol ranking.
func PrintSymbols(w io.Writer, symbols []analytics.SymbolStats) {
	fmt.Fprintln(w, "Top Symbols")
	fmt.Fprintln(w, rule)
	if len(symbols) == 0 {
		fmt.Fprintln(w, "(no trades)")
		return
	}
	fmt.Fprintf(w, "%-4s %-14s %6s %6s %12s\n", "#", "Symbol", "Trades", "Wins", "P/L")
	for i, s := range symbols {
		fmt.Fprintf(w, "%-4d %-14s %6d %6d %12.2f\n", i+1, s.Symbol, s.Trades, s.Wins, s.PnL)
	}
}

// PrintEmotions writes the per-emotion groups.
func PrintEmotions(w io.Writer, groups []analytics.EmotionStats) {
	fmt.Fprintln(w, "Emotions")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %-9s %6s %6s %6s %10s\n", "Emotion", "Category", "Before", "After", "Total", "Avg P/L")
	for _, g := range groups {
		fmt.Fprintf(w, "%-12s %-9s %6d %6d %6d %10.2f\n",
			label(g), g.Tag.Category, g.Before, g.After, g.Total, g.AvgPnL)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func label(g analytics.EmotionStats) string {
	if g.Tag.Label != "" {
		return g.Tag.Label
	}
	return g.Tag.ID
}

func bar(v, peak float64, width int) string {
	if peak == 0 || v == 0 {
		return ""
	}
	n := max(1, int(abs(v)/peak*float64(width)+0.5))
	if v < 0 {
		return strings.Repeat("-", n)
	}
	return strings.Repeat("+", n)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
