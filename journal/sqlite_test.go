package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.ErrorContains(t, err, "unknown sqlite driver")
}

func TestSQLiteRecordAndGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	expected := closedTrade("T123", Buy, 45000, 45500, 0.2)
	expected.UserID = "user_1"
	expected.EmotionBefore = "confident"
	expected.EmotionAfter = "calm"
	expected.Notes = "Sample trade note"

	require.NoError(t, j.RecordTrade(expected))

	actual, err := j.GetTrade("T123")
	require.NoError(t, err)

	assert.Equal(t, expected.TradeID, actual.TradeID)
	assert.Equal(t, expected.UserID, actual.UserID)
	assert.Equal(t, expected.Symbol, actual.Symbol)
	assert.Equal(t, expected.Side, actual.Side)
	assert.Equal(t, expected.Status, actual.Status)
	assert.InDelta(t, expected.EntryPrice, actual.EntryPrice, 1e-9)
	assert.InDelta(t, expected.Quantity, actual.Quantity, 1e-9)
	require.NotNil(t, actual.ExitPrice)
	assert.InDelta(t, *expected.ExitPrice, *actual.ExitPrice, 1e-9)
	assert.True(t, actual.EntryTime.Equal(expected.EntryTime))
	require.NotNil(t, actual.ExitTime)
	assert.True(t, actual.ExitTime.Equal(*expected.ExitTime))
	require.NotNil(t, actual.RealizedPL)
	assert.InDelta(t, 100.0, *actual.RealizedPL, 1e-6)
	assert.Equal(t, "confident", actual.EmotionBefore)
	assert.Equal(t, "calm", actual.EmotionAfter)
	assert.Equal(t, "Sample trade note", actual.Notes)
}

func TestSQLiteOptionalFieldsStayNil(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	open := TradeRecord{
		TradeID:    "OPEN1",
		Symbol:     "SOL/USD",
		Side:       Sell,
		Status:     Open,
		EntryPrice: 140,
		Quantity:   10,
		EntryTime:  time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, j.RecordTrade(open))

	got, err := j.GetTrade("OPEN1")
	require.NoError(t, err)
	assert.Nil(t, got.ExitPrice)
	assert.Nil(t, got.ExitTime)
	assert.Nil(t, got.RealizedPL)
	assert.Empty(t, got.EmotionBefore)
	assert.Empty(t, got.EmotionAfter)
}

func TestSQLiteRecordTradeRejectsInvalid(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	bad := closedTrade("BAD", Buy, 100, 110, 1)
	bad.RealizedPL = fp(999)

	err := j.RecordTrade(bad)
	assert.ErrorIs(t, err, ErrInvalidTrade)

	_, err = j.GetTrade("BAD")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestSQLiteRecordTradeReplaces(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	tr := TradeRecord{
		TradeID:    "T1",
		Symbol:     "ETH/USD",
		Side:       Buy,
		Status:     Open,
		EntryPrice: 3000,
		Quantity:   1,
		EntryTime:  time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, j.RecordTrade(tr))

	tr.CloseAt(3100, tr.EntryTime.Add(time.Hour))
	require.NoError(t, j.RecordTrade(tr))

	all, err := j.ListTrades()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, Closed, all[0].Status)
	require.NotNil(t, all[0].RealizedPL)
	assert.InDelta(t, 100.0, *all[0].RealizedPL, 1e-9)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	assert.ErrorIs(t, err, ErrTradeNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestDeleteTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordTrade(closedTrade("T1", Buy, 10, 11, 1)))
	require.NoError(t, j.DeleteTrade("T1"))

	_, err := j.GetTrade("T1")
	assert.ErrorIs(t, err, ErrTradeNotFound)

	assert.ErrorIs(t, j.DeleteTrade("T1"), ErrTradeNotFound)
}

func TestListTradesOrdering(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Insert in non-chronological order
	for _, c := range []struct {
		id     string
		offset time.Duration
	}{
		{"T3", 10 * time.Hour},
		{"T1", 2 * time.Hour},
		{"T2", 5 * time.Hour},
	} {
		require.NoError(t, j.RecordTrade(TradeRecord{
			TradeID:    c.id,
			Symbol:     "BTC/USD",
			Side:       Buy,
			Status:     Open,
			EntryPrice: 50000,
			Quantity:   1,
			EntryTime:  base.Add(c.offset),
		}))
	}

	results, err := j.ListTrades()
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "T1", results[0].TradeID)
	assert.Equal(t, "T2", results[1].TradeID)
	assert.Equal(t, "T3", results[2].TradeID)
}

func TestListTradesEnteredBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{1 * time.Hour, 5 * time.Hour, 10 * time.Hour, 24 * time.Hour} {
		require.NoError(t, j.RecordTrade(TradeRecord{
			TradeID:    []string{"T1", "T2", "T3", "T4"}[i],
			Symbol:     "ETH/USD",
			Side:       Sell,
			Status:     Open,
			EntryPrice: 3000,
			Quantity:   1,
			EntryTime:  base.Add(offset),
		}))
	}

	results, err := j.ListTradesEnteredBetween(base.Add(3*time.Hour), base.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "T2", results[0].TradeID)
	assert.Equal(t, "T3", results[1].TradeID)

	// end is exclusive
	results, err = j.ListTradesEnteredBetween(base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestListTradesEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	results, err := j.ListTrades()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPureDriverRoundTrip(t *testing.T) {
	t.Parallel()

	j, err := Open(DriverPure, filepath.Join(t.TempDir(), "pure.db"))
	require.NoError(t, err)
	defer j.Close()

	tr := closedTrade("P1", Sell, 2500, 2400, 3)
	require.NoError(t, j.RecordTrade(tr))

	got, err := j.GetTrade("P1")
	require.NoError(t, err)
	assert.Equal(t, Sell, got.Side)
	require.NotNil(t, got.RealizedPL)
	assert.InDelta(t, 300.0, *got.RealizedPL, 1e-9)
	assert.True(t, got.EntryTime.Equal(tr.EntryTime))
}
