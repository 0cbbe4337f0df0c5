package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query journaled trades",
	Long: `Record, query, import and export trade journal records in SQLite.

Subcommands:
  add     - Record a new trade
  close   - Close an open trade at an exit price
  trade   - Get details of a specific trade by ID
  list    - List trades, optionally filtered
  import  - Import trades from CSV
  export  - Export trades to CSV
  delete  - Delete a trade

Examples:
  tradejournal journal add --symbol BTC/USD --side buy --qty 0.5 --entry 42000 --before confident
  tradejournal journal close 01HS... --exit 43500 --after calm
  tradejournal journal list --search btc --status closed
  tradejournal journal export -o trades.csv

add, close and import take --csv <path> to also append each recorded
trade to a CSV journal.`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalClose,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import trades from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalImport,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades to CSV",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

var (
	addUser   string
	addSymbol string
	addSide   string
	addQty    float64
	addEntry  float64
	addExit   float64
	addAt     string
	addExitAt string
	addCancel bool
	addNotes  string

	emotionBefore string
	emotionAfter  string

	listSearch  string
	listStatus  string
	listEmotion string
	listDay     string
	listFormat  string

	exportOutput string
	journalCSV   string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalCloseCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalImportCmd)
	journalCmd.AddCommand(journalExportCmd)
	journalCmd.AddCommand(journalDeleteCmd)

	journalCmd.PersistentFlags().StringVar(&journalCSV, "csv", "", "also append recorded trades to this CSV file")

	f := journalAddCmd.Flags()
	f.StringVar(&addUser, "user", "", "user id")
	f.StringVar(&addSymbol, "symbol", "", "traded symbol, e.g. BTC/USD (required)")
	f.StringVar(&addSide, "side", "buy", "buy or sell")
	f.Float64Var(&addQty, "qty", 0, "quantity (required)")
	f.Float64Var(&addEntry, "entry", 0, "entry price (required)")
	f.Float64Var(&addExit, "exit", 0, "exit price; closes the trade when set")
	f.StringVar(&addAt, "at", "", "entry time, RFC3339 (default now)")
	f.StringVar(&addExitAt, "exit-at", "", "exit time, RFC3339 (default now)")
	f.BoolVar(&addCancel, "cancel", false, "record the trade as cancelled")
	f.StringVar(&addNotes, "notes", "", "free-form notes")
	f.StringVar(&emotionBefore, "before", "", "emotion before the trade")
	f.StringVar(&emotionAfter, "after", "", "emotion after the trade")
	journalAddCmd.MarkFlagRequired("symbol")
	journalAddCmd.MarkFlagRequired("qty")
	journalAddCmd.MarkFlagRequired("entry")

	f = journalCloseCmd.Flags()
	f.Float64Var(&addExit, "exit", 0, "exit price (required)")
	f.StringVar(&addExitAt, "at", "", "exit time, RFC3339 (default now)")
	f.StringVar(&emotionAfter, "after", "", "emotion after the trade")
	journalCloseCmd.MarkFlagRequired("exit")

	f = journalListCmd.Flags()
	f.StringVarP(&listSearch, "search", "s", "", "match symbol or notes")
	f.StringVar(&listStatus, "status", "", "open, closed or cancelled")
	f.StringVar(&listEmotion, "emotion", "", "emotion before or after")
	f.StringVar(&listDay, "day", "", "only trades entered on YYYY-MM-DD")
	f.StringVarP(&listFormat, "format", "f", "org", "output format: org or csv")

	journalExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	side, err := journal.ParseSide(addSide)
	if err != nil {
		return err
	}
	if err := checkEmotions(emotionBefore, emotionAfter); err != nil {
		return err
	}

	at, err := clock()
	if err != nil {
		return err
	}
	entryAt, err := parseTimeOr(addAt, at)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	rec := journal.TradeRecord{
		TradeID:       id.NewAt(entryAt),
		UserID:        addUser,
		Symbol:        strings.ToUpper(strings.TrimSpace(addSymbol)),
		Side:          side,
		Status:        journal.Open,
		EntryPrice:    addEntry,
		Quantity:      addQty,
		EntryTime:     entryAt,
		EmotionBefore: emotionBefore,
		EmotionAfter:  emotionAfter,
		Notes:         addNotes,
	}
	switch {
	case addCancel:
		rec.Status = journal.Cancelled
	case cmd.Flags().Changed("exit"):
		exitAt, err := parseTimeOr(addExitAt, at)
		if err != nil {
			return fmt.Errorf("--exit-at: %w", err)
		}
		rec.CloseAt(addExit, exitAt)
	}

	db, err := openJournal()
	if err != nil {
		return err
	}
	j, err := recorder(db)
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	logger.Info().Str("trade_id", rec.TradeID).Str("symbol", rec.Symbol).Str("status", string(rec.Status)).Msg("trade recorded")

	fmt.Fprintln(cmd.OutOrStdout(), rec.TradeID)
	return nil
}

func runJournalClose(cmd *cobra.Command, args []string) error {
	if err := checkEmotions("", emotionAfter); err != nil {
		return err
	}

	db, err := openJournal()
	if err != nil {
		return err
	}
	j, err := recorder(db)
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := db.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	if rec.Status != journal.Open {
		return fmt.Errorf("trade %s is %s", rec.TradeID, rec.Status)
	}

	at, err := clock()
	if err != nil {
		return err
	}
	exitAt, err := parseTimeOr(addExitAt, at)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	rec.CloseAt(addExit, exitAt)
	if emotionAfter != "" {
		rec.EmotionAfter = emotionAfter
	}
	if err := j.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	logger.Info().Str("trade_id", rec.TradeID).Float64("realized_pl", rec.PnL()).Msg("trade closed")

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	filter := journal.Filter{Search: listSearch, Emotion: listEmotion}
	if listStatus != "" {
		st, err := journal.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = st
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var recs []journal.TradeRecord
	if listDay != "" {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		start, end, err := dayBounds(loc, listDay)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		recs, err = j.ListTradesEnteredBetween(start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
	} else {
		recs, err = j.ListTrades()
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
	}
	recs = filter.Apply(recs)

	out := cmd.OutOrStdout()
	switch listFormat {
	case "org":
		fmt.Fprintln(out, journal.FormatTradesOrg(recs))
		return nil
	case "csv":
		return journal.WriteCSV(out, recs)
	}
	return fmt.Errorf("unknown format %q", listFormat)
}

func runJournalImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	recs, err := journal.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	db, err := openJournal()
	if err != nil {
		return err
	}
	j, err := recorder(db)
	if err != nil {
		return err
	}
	defer j.Close()

	for _, rec := range recs {
		if err := j.RecordTrade(rec); err != nil {
			return fmt.Errorf("record trade: %w", err)
		}
	}
	logger.Info().Int("trades", len(recs)).Str("file", args[0]).Msg("imported")

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s\n", len(recs), args[0])
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	recs, err := loadTrades()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := journal.WriteCSV(w, recs); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	logger.Info().Int("trades", len(recs)).Str("file", exportOutput).Msg("exported")
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.DeleteTrade(args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	logger.Info().Str("trade_id", args[0]).Msg("trade deleted")
	return nil
}

// checkEmotions rejects emotion ids missing from the configured catalog.
func checkEmotions(ids ...string) error {
	catalog := cfg.Catalog()
	for _, e := range ids {
		if e == "" {
			continue
		}
		if _, ok := journal.FindEmotion(catalog, e); !ok {
			return fmt.Errorf("unknown emotion %q", e)
		}
	}
	return nil
}

func parseTimeOr(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, s)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
