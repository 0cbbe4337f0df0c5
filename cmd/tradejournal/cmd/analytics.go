package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show performance metrics for a timeframe",
	Long: `Compute the full performance report over the trades entered in the
timeframe: summary metrics, outcome distribution, top symbols, emotions and
the daily P/L series.

Examples:
  tradejournal summary
  tradejournal summary --timeframe 90d --format org -o perf.org
  tradejournal summary --format json`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show the daily P/L series",
	Args:  cobra.NoArgs,
	RunE:  runDaily,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Rank symbols by total P/L",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

var emotionsCmd = &cobra.Command{
	Use:   "emotions",
	Short: "Show trade counts and average P/L per emotion",
	Args:  cobra.NoArgs,
	RunE:  runEmotions,
}

var (
	timeframe    string
	outputFormat string
	dailyDays    int
	topSymbols   int
	reportOutput string
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(emotionsCmd)

	for _, c := range []*cobra.Command{summaryCmd, symbolsCmd, emotionsCmd} {
		c.Flags().StringVarP(&timeframe, "timeframe", "t", "", "window such as 7d, 4w or 1y (default from config)")
	}
	for _, c := range []*cobra.Command{summaryCmd, dailyCmd, symbolsCmd, emotionsCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json (summary also org)")
	}
	summaryCmd.Flags().IntVar(&topSymbols, "top", 0, "symbols in the ranking, -1 for all (default from config)")
	symbolsCmd.Flags().IntVar(&topSymbols, "top", 0, "symbols in the ranking, -1 for all (default from config)")
	summaryCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this file instead of stdout")
	dailyCmd.Flags().IntVar(&dailyDays, "days", 30, "number of days in the series")
}

func runSummary(cmd *cobra.Command, args []string) error {
	trades, days, at, err := loadWindow()
	if err != nil {
		return err
	}

	r := analytics.Build(trades, cfg.Catalog(), analytics.Options{Days: days, TopK: topK(), Now: at})
	logger.Debug().Int("trades", r.Summary.Trades).Int("days", days).Msg("report built")

	if reportOutput != "" && outputFormat == "org" {
		if err := report.WriteOrgFile(reportOutput, r); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		logger.Info().Str("file", reportOutput).Msg("report written")
		return nil
	}

	if outputFormat != "org" {
		if err := checkFormat(); err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch outputFormat {
	case "text":
		report.PrintReport(out, r)
	case "org":
		if err := report.WriteOrg(out, r); err != nil {
			return err
		}
	case "json":
		if err := report.WriteJSON(out, r); err != nil {
			return err
		}
	}
	if reportOutput != "" {
		logger.Info().Str("file", reportOutput).Msg("report written")
	}
	return nil
}

func runDaily(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	trades, err := loadTrades()
	if err != nil {
		return err
	}
	at, err := clock()
	if err != nil {
		return err
	}

	series := analytics.DailyPnL(trades, dailyDays, at)
	if outputFormat == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), series)
	}
	report.PrintDaily(cmd.OutOrStdout(), series)
	return nil
}

func runSymbols(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	trades, _, _, err := loadWindow()
	if err != nil {
		return err
	}

	ranking := analytics.TopSymbols(trades, topK())
	if outputFormat == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), ranking)
	}
	report.PrintSymbols(cmd.OutOrStdout(), ranking)
	return nil
}

func runEmotions(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	trades, _, _, err := loadWindow()
	if err != nil {
		return err
	}

	groups := analytics.EmotionGroups(trades, cfg.Catalog())
	if outputFormat == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), groups)
	}
	report.PrintEmotions(cmd.OutOrStdout(), groups)
	return nil
}

func loadTrades() ([]journal.TradeRecord, error) {
	j, err := openJournal()
	if err != nil {
		return nil, err
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return trades, nil
}

// loadWindow returns the trades entered within the selected timeframe, its
// length in days and the reference time.
func loadWindow() ([]journal.TradeRecord, int, time.Time, error) {
	tf := timeframe
	if tf == "" {
		tf = cfg.Analytics.Timeframe
	}
	days, err := analytics.ParseTimeframe(tf)
	if err != nil {
		return nil, 0, time.Time{}, fmt.Errorf("timeframe: %w", err)
	}

	at, err := clock()
	if err != nil {
		return nil, 0, time.Time{}, err
	}

	trades, err := loadTrades()
	if err != nil {
		return nil, 0, time.Time{}, err
	}
	return analytics.Window(trades, days, at), days, at, nil
}

// topK is the --top value when given, else the configured size. Negative
// values keep every symbol.
func topK() int {
	if topSymbols != 0 {
		return topSymbols
	}
	return cfg.Analytics.TopSymbols
}

func checkFormat() error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q", outputFormat)
	}
	return nil
}
