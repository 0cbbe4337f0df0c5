package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
	logJSON  bool

	cfg    *config.Config
	logger zerolog.Logger

	// now is the reference time for windowed views.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with performance and emotion analytics",
	Long: `Tradejournal records trades together with the emotions felt before and
after them, and reports on performance.

It provides tools for:
  - Journaling trades in SQLite, with CSV import and export
  - Summary metrics: win rate, average win and loss, profit factor
  - Daily P/L series and top symbol rankings
  - Per-emotion trade counts and average P/L

Settings are read from --config, then TRADEJOURNAL_* environment variables
(a .env file in the working directory is loaded first), then flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load() // best-effort

	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	cfg.ApplyEnv()
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if logJSON {
		logger = logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	} else {
		logger = logging.NewConsole(cfg.Log.Level, cmd.ErrOrStderr())
	}
	logger.Debug().
		Str("config", cfgFile).
		Str("driver", cfg.Journal.Driver).
		Str("db", cfg.Journal.DBPath).
		Msg("configured")
	return nil
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.Open(cfg.Journal.Driver, cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// recorder wraps db so that recorded trades are also appended to the --csv
// file when one is given. Closing it closes db.
func recorder(db *journal.SQLite) (journal.Journal, error) {
	if journalCSV == "" {
		return db, nil
	}
	cj, err := journal.NewCSV(journalCSV)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open csv journal: %w", err)
	}
	return journal.Tee(db, cj), nil
}

// clock returns the current time in the configured timezone.
func clock() (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return now().In(loc), nil
}
