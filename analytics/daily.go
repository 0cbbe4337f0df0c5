package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// DayPnL is one calendar-day bucket of the P/L series. Date is midnight of
// the day in the series' location.
type DayPnL struct {
	Date time.Time `json:"date"`
	PnL  float64   `json:"pnl"`
}

// Key is the bucket's calendar date, YYYY-MM-DD.
func (d DayPnL) Key() string {
	return d.Date.Format(time.DateOnly)
}

// DailyPnL returns exactly days buckets, oldest first, ending on now's
// calendar date. Trades are bucketed by the calendar date of their entry
// time in now's location and every status contributes its P/L (absent
// counts as 0). Days without trades are 0. days <= 0 yields an empty series.
func DailyPnL(trades []journal.TradeRecord, days int, now time.Time) []DayPnL {
	if days <= 0 {
		return []DayPnL{}
	}

	loc := now.Location()
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	series := make([]DayPnL, days)
	index := make(map[string]int, days)
	for i := range series {
		d := first.AddDate(0, 0, i)
		series[i].Date = d
		index[d.Format(time.DateOnly)] = i
	}

	for _, t := range trades {
		key := t.EntryTime.In(loc).Format(time.DateOnly)
		if i, ok := index[key]; ok {
			series[i].PnL += t.PnL()
		}
	}
	return series
}

// Window returns the trades whose entry date falls within the days calendar
// days ending on now's date, in their original order.
func Window(trades []journal.TradeRecord, days int, now time.Time) []journal.TradeRecord {
	out := make([]journal.TradeRecord, 0, len(trades))
	if days <= 0 {
		return out
	}

	loc := now.Location()
	start := startOfDay(now).AddDate(0, 0, -(days - 1))
	end := startOfDay(now).AddDate(0, 0, 1)
	for _, t := range trades {
		at := t.EntryTime.In(loc)
		if !at.Before(start) && at.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseTimeframe converts a timeframe label such as "7d", "30d", "12w" or
// "1y" into a number of days.
func ParseTimeframe(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid timeframe %q", s)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid timeframe %q", s)
	}

	switch s[len(s)-1] {
	case 'd':
		return n, nil
	case 'w':
		return n * 7, nil
	case 'y':
		return n * 365, nil
	}
	return 0, fmt.Errorf("invalid timeframe %q", s)
}
