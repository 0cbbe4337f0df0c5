package journal

import "strings"

// Filter narrows a trade list the way the journal view does. Zero values
// match everything.
type Filter struct {
	Search  string // case-insensitive substring of symbol or notes
	Status  Status
	Emotion string // matches emotion before or after
}

func (f Filter) Match(t TradeRecord) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Symbol), q) &&
			!strings.Contains(strings.ToLower(t.Notes), q) {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Emotion != "" && !t.HasEmotion(f.Emotion) {
		return false
	}
	return true
}

// Apply returns the matching trades in their original order.
func (f Filter) Apply(trades []TradeRecord) []TradeRecord {
	out := make([]TradeRecord, 0, len(trades))
	for _, t := range trades {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
