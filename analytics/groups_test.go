package analytics

import (
	"testing"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolGroups(t *testing.T) {
	t.Parallel()

	groups := SymbolGroups([]journal.TradeRecord{
		sym(closed("T1", 100), "BTC/USD"),
		sym(closed("T2", -20), "BTC/USD"),
		sym(open("O1"), "BTC/USD"),
		sym(closed("T3", 5), "eth/usd"),
		sym(closed("T4", 7), "ETH/USD"),
	})

	require.Len(t, groups, 3, "symbols are case-sensitive")
	assert.Equal(t, SymbolStats{Symbol: "BTC/USD", Trades: 3, PnL: 80, Wins: 1}, groups["BTC/USD"])
	assert.Equal(t, SymbolStats{Symbol: "eth/usd", Trades: 1, PnL: 5, Wins: 1}, groups["eth/usd"])
	assert.Equal(t, SymbolStats{Symbol: "ETH/USD", Trades: 1, PnL: 7, Wins: 1}, groups["ETH/USD"])
}

func TestSymbolGroupsEmpty(t *testing.T) {
	t.Parallel()

	groups := SymbolGroups(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
	assert.Empty(t, TopSymbols(nil, 5))
}

func TestTopSymbolsRanking(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		sym(closed("1", 10), "AAVE/USD"),
		sym(closed("2", 50), "BTC/USD"),
		sym(closed("3", -5), "COMP/USD"),
		sym(closed("4", 30), "ETH/USD"),
		sym(closed("5", 20), "LINK/USD"),
		sym(closed("6", 40), "SOL/USD"),
		sym(closed("7", 1), "UNI/USD"),
	}

	top := TopSymbols(trades, 5)
	require.Len(t, top, 5)

	var got []string
	for _, s := range top {
		got = append(got, s.Symbol)
	}
	assert.Equal(t, []string{"BTC/USD", "SOL/USD", "ETH/USD", "LINK/USD", "AAVE/USD"}, got)

	all := TopSymbols(trades, 0)
	assert.Len(t, all, 7)
	assert.Equal(t, "COMP/USD", all[6].Symbol)
}

func TestTopSymbolsStableTies(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		sym(closed("1", 10), "SOL/USD"),
		sym(closed("2", 10), "BTC/USD"),
		sym(closed("3", 25), "ETH/USD"),
		sym(closed("4", 10), "AAVE/USD"),
	}

	want := []string{"ETH/USD", "SOL/USD", "BTC/USD", "AAVE/USD"}
	for i := 0; i < 20; i++ {
		var got []string
		for _, s := range TopSymbols(trades, 0) {
			got = append(got, s.Symbol)
		}
		assert.Equal(t, want, got, "ties keep first-encountered order")
	}
}

func TestTopSymbolsMatchesGroups(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		sym(closed("1", 10), "SOL/USD"),
		sym(open("2"), "SOL/USD"),
		sym(closed("3", -4), "BTC/USD"),
		sym(closed("4", 8), "SOL/USD"),
	}

	groups := SymbolGroups(trades)
	for _, s := range TopSymbols(trades, 0) {
		assert.Equal(t, groups[s.Symbol], s)
	}
}

var testCatalog = []journal.EmotionTag{
	{ID: "confident", Label: "Confident", Category: journal.Positive},
	{ID: "calm", Label: "Calm", Category: journal.Positive},
	{ID: "fearful", Label: "Fearful", Category: journal.Negative},
	{ID: "greedy", Label: "Greedy", Category: journal.Negative},
	{ID: "neutral", Label: "Neutral", Category: journal.Neutral},
}

func findEmotion(t *testing.T, stats []EmotionStats, id string) EmotionStats {
	t.Helper()
	for _, s := range stats {
		if s.Tag.ID == id {
			return s
		}
	}
	t.Fatalf("emotion %q missing", id)
	return EmotionStats{}
}

func TestEmotionGroups(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		emo(closed("1", 100), "confident", "calm"),
		emo(closed("2", -40), "fearful", "fearful"),
		emo(closed("3", 20), "confident", ""),
		emo(open("4"), "greedy", "fearful"),
		emo(closed("5", 10), "", "confident"),
		emo(closed("6", 3), "bored", ""), // not in catalog
	}

	stats := EmotionGroups(trades, testCatalog)
	require.Len(t, stats, len(testCatalog))

	confident := findEmotion(t, stats, "confident")
	assert.Equal(t, 2, confident.Before)
	assert.Equal(t, 1, confident.After)
	assert.Equal(t, 3, confident.Total)
	assert.Equal(t, 3, confident.Trades)
	assert.InDelta(t, 130.0/3, confident.AvgPnL, 1e-9)

	fearful := findEmotion(t, stats, "fearful")
	assert.Equal(t, 1, fearful.Before)
	assert.Equal(t, 2, fearful.After)
	assert.Equal(t, 3, fearful.Total)
	assert.Equal(t, 2, fearful.Trades)
	assert.InDelta(t, -20.0, fearful.AvgPnL, 1e-9, "open trade contributes 0 to the pool")

	neutral := findEmotion(t, stats, "neutral")
	assert.Equal(t, EmotionStats{Tag: testCatalog[4]}, neutral)

	// Ordered by total desc, ties in catalog order.
	var order []string
	for _, s := range stats {
		order = append(order, s.Tag.ID)
	}
	assert.Equal(t, []string{"confident", "fearful", "calm", "greedy", "neutral"}, order)
}

func TestEmotionGroupsSameTagBothSlotsCountsOnce(t *testing.T) {
	t.Parallel()

	stats := EmotionGroups([]journal.TradeRecord{
		emo(closed("1", 90), "confident", "confident"),
		emo(closed("2", 30), "confident", ""),
	}, testCatalog)

	confident := findEmotion(t, stats, "confident")
	assert.Equal(t, 2, confident.Before)
	assert.Equal(t, 1, confident.After)
	assert.Equal(t, 3, confident.Total)
	assert.Equal(t, 2, confident.Trades)
	assert.InDelta(t, 60.0, confident.AvgPnL, 1e-9)
}

func TestEmotionGroupsTotalMatchesTagSlots(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		emo(closed("1", 1), "confident", "calm"),
		emo(closed("2", 2), "", "greedy"),
		emo(closed("3", 3), "neutral", ""),
		emo(closed("4", 4), "", ""),
		emo(open("5"), "fearful", "fearful"),
	}

	var want int
	for _, tr := range trades {
		if tr.EmotionBefore != "" {
			want++
		}
		if tr.EmotionAfter != "" {
			want++
		}
	}

	var got int
	for _, s := range EmotionGroups(trades, testCatalog) {
		got += s.Total
	}
	assert.Equal(t, want, got)
}

func TestEmotionGroupsEmpty(t *testing.T) {
	t.Parallel()

	stats := EmotionGroups(nil, journal.DefaultEmotionTags)
	require.Len(t, stats, len(journal.DefaultEmotionTags))
	for i, s := range stats {
		assert.Equal(t, journal.DefaultEmotionTags[i], s.Tag, "all-zero totals keep catalog order")
		assert.Zero(t, s.Total)
		assert.Zero(t, s.AvgPnL)
	}

	assert.Empty(t, EmotionGroups(nil, nil))
}

func TestEmotionGroupsDoesNotMutateCatalog(t *testing.T) {
	t.Parallel()

	catalog := append([]journal.EmotionTag(nil), testCatalog...)
	EmotionGroups([]journal.TradeRecord{emo(closed("1", 5), "neutral", "neutral")}, catalog)
	assert.Equal(t, testCatalog, catalog)
}
