package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

var orgFuncs = template.FuncMap{
	"money": func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"pct":   func(x float64) string { return fmt.Sprintf("%.2f%%", x) },
	"inc":   func(i int) int { return i + 1 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"label": label,
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
}

var orgTemplate = template.Must(template.New("report").Funcs(orgFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders r as an Org-mode document.
func WriteOrg(w io.Writer, r analytics.Report) error {
	if err := orgTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

// WriteOrgFile renders r to path.
func WriteOrgFile(path string, r analytics.Report) error {
	buf := new(bytes.Buffer)
	if err := WriteOrg(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const ReportOrgTemplate = `* PERFORMANCE: last {{.Days}} days
:PROPERTIES:
:GENERATED:   [{{(orTime .Generated).Format "2006-01-02 Mon 15:04"}}]
:DAYS:        {{.Days}}
:TRADES:      {{.Summary.Trades}}
:CLOSED:      {{.Summary.ClosedTrades}}
:WINS:        {{.Summary.Wins}}
:LOSSES:      {{.Summary.Losses}}
:WIN_RATE:    {{money .Summary.WinRate}}
:TOTAL_PL:    {{money .Summary.TotalPnL}}
:PROFIT_FAC:  {{money .Summary.ProfitFactor}}
:END:

** Performance Summary
- Total P/L:        *{{money .Summary.TotalPnL}}*
- Win Rate:         *{{pct .Summary.WinRate}}*
- Avg Win:          *{{money .Summary.AvgWin}}*
- Avg Loss:         *{{money .Summary.AvgLoss}}*
- Profit Factor:    *{{money .Summary.ProfitFactor}}*
{{- if .Summary.HasExtremes}}
- Best Trade:       *{{money (deref .Summary.BestTrade)}}*
- Worst Trade:      *{{money (deref .Summary.WorstTrade)}}*
{{- end}}
- Avg Trade Size:   *{{money .Summary.AvgTradeSize}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Outcomes.Wins}} |
| Losses  | {{.Outcomes.Losses}} |
| Open    | {{.Outcomes.Open}} |

** Top Symbols
{{- if .Symbols}}
| # | Symbol | Trades | Wins | P/L |
|---+--------+--------+------+-----|
{{- range $i, $s := .Symbols}}
| {{inc $i}} | {{$s.Symbol}} | {{$s.Trades}} | {{$s.Wins}} | {{money $s.PnL}} |
{{- end}}
{{- else}}
# no trades in this window
{{- end}}

** Emotions
| Emotion | Category | Before | After | Total | Avg P/L |
|---------+----------+--------+-------+-------+---------|
{{- range .Emotions}}
| {{label .}} | {{.Tag.Category}} | {{.Before}} | {{.After}} | {{.Total}} | {{money .AvgPnL}} |
{{- end}}

** Daily P/L
| Date | P/L |
|------+-----|
{{- range .Daily}}
| {{.Key}} | {{money .PnL}} |
{{- end}}
`
