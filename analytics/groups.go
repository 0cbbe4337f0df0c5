package analytics

import (
	"cmp"
	"slices"

	"github.com/rustyeddy/tradejournal/journal"
)

// SymbolStats is the per-symbol performance group. P/L is summed over every
// trade of the symbol, absent P/L counting as 0.
type SymbolStats struct {
	Symbol string  `json:"symbol"`
	Trades int     `json:"trades"`
	PnL    float64 `json:"pnl"`
	Wins   int     `json:"wins"`
}

// SymbolGroups groups trades by exact symbol.
func SymbolGroups(trades []journal.TradeRecord) map[string]SymbolStats {
	groups := make(map[string]SymbolStats)
	for _, t := range trades {
		g := groups[t.Symbol]
		g.Symbol = t.Symbol
		addTrade(&g, t)
		groups[t.Symbol] = g
	}
	return groups
}

// TopSymbols ranks symbols by summed P/L, highest first. Ties keep the order
// in which symbols first appear in trades. k > 0 truncates the ranking.
func TopSymbols(trades []journal.TradeRecord, k int) []SymbolStats {
	var ranked []SymbolStats
	index := make(map[string]int)
	for _, t := range trades {
		i, ok := index[t.Symbol]
		if !ok {
			i = len(ranked)
			index[t.Symbol] = i
			ranked = append(ranked, SymbolStats{Symbol: t.Symbol})
		}
		addTrade(&ranked[i], t)
	}

	slices.SortStableFunc(ranked, func(a, b SymbolStats) int {
		return cmp.Compare(b.PnL, a.PnL)
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	if ranked == nil {
		ranked = []SymbolStats{}
	}
	return ranked
}

func addTrade(g *SymbolStats, t journal.TradeRecord) {
	pl := t.PnL()
	g.Trades++
	g.PnL += pl
	if pl > 0 {
		g.Wins++
	}
}

// EmotionStats is the per-emotion performance group.
//
// Before and After count the records tagging the emotion in that slot. The
// pool is the set of records tagging it in either slot, so a record tagged
// in both slots is counted once in Trades and AvgPnL.
type EmotionStats struct {
	Tag    journal.EmotionTag `json:"tag"`
	Before int                `json:"before"`
	After  int                `json:"after"`
	Total  int                `json:"total"`
	Trades int                `json:"trades"`
	AvgPnL float64            `json:"avg_pnl"`
}

// EmotionGroups computes one group per catalog tag, including tags no trade
// uses, ordered by Total descending with ties in catalog order.
func EmotionGroups(trades []journal.TradeRecord, catalog []journal.EmotionTag) []EmotionStats {
	out := make([]EmotionStats, len(catalog))
	index := make(map[string]int, len(catalog))
	for i, tag := range catalog {
		out[i].Tag = tag
		if _, dup := index[tag.ID]; !dup {
			index[tag.ID] = i
		}
	}

	sums := make([]float64, len(catalog))
	for _, t := range trades {
		before, hasBefore := index[t.EmotionBefore]
		after, hasAfter := index[t.EmotionAfter]
		hasBefore = hasBefore && t.EmotionBefore != ""
		hasAfter = hasAfter && t.EmotionAfter != ""

		if hasBefore {
			out[before].Before++
			out[before].Trades++
			sums[before] += t.PnL()
		}
		if hasAfter {
			out[after].After++
			if !hasBefore || after != before {
				out[after].Trades++
				sums[after] += t.PnL()
			}
		}
	}

	for i := range out {
		out[i].Total = out[i].Before + out[i].After
		if out[i].Trades > 0 {
			out[i].AvgPnL = sums[i] / float64(out[i].Trades)
		}
	}

	slices.SortStableFunc(out, func(a, b EmotionStats) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return out
}
