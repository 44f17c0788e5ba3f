package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/widgets"
)

const analyticsDays = 30

// Analytics summarises recent spending.
type Analytics struct {
	Daily      []float64
	Mean       float64
	StdDev     float64
	Categories []ledger.CategoryTotal
	Currency   string
}

// LoadAnalytics reads the last thirty days of spending.
func LoadAnalytics(ctx context.Context, repo *ledger.Repo, now time.Time, currency string) (*Analytics, error) {
	daily, err := repo.DailySpend(ctx, analyticsDays)
	if err != nil {
		return nil, err
	}
	cats, err := repo.SpendByCategory(ctx, now.AddDate(0, 0, -analyticsDays))
	if err != nil {
		return nil, err
	}
	return NewAnalytics(daily, cats, currency), nil
}

func NewAnalytics(daily []int64, cats []ledger.CategoryTotal, currency string) *Analytics {
	a := &Analytics{Categories: cats, Currency: currency, Daily: make([]float64, len(daily))}
	for i, c := range daily {
		a.Daily[i] = float64(c)
	}
	if len(a.Daily) > 0 {
		a.Mean, a.StdDev = stat.MeanStdDev(a.Daily, nil)
	}
	return a
}

// Spikes counts days more than one standard deviation above the mean.
func (a *Analytics) Spikes() int {
	n := 0
	for _, d := range a.Daily {
		if a.StdDev > 0 && d > a.Mean+a.StdDev {
			n++
		}
	}
	return n
}

func (a *Analytics) Render(width, height int) string {
	var b strings.Builder
	b.WriteString(widgets.AccentStyle.Render(fmt.Sprintf("Daily spend, last %d days", len(a.Daily))) + "\n")
	b.WriteString(Sparkline(a.Daily) + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %d\n\n",
		widgets.MutedStyle.Render("avg"), Money(int64(a.Mean), a.Currency),
		widgets.MutedStyle.Render("σ"), Money(int64(a.StdDev), a.Currency),
		widgets.MutedStyle.Render("spikes"), a.Spikes())

	b.WriteString(widgets.AccentStyle.Render("By category") + "\n")
	var top int64
	for _, c := range a.Categories {
		top = max(top, c.SpentCents)
	}
	gauge := max(4, width-40)
	for _, c := range a.Categories {
		ratio := 0.0
		if top > 0 {
			ratio = float64(c.SpentCents) / float64(top)
		}
		fmt.Fprintf(&b, "%-14s %s %s\n", title(c.Category), widgets.MutedStyle.Render(bar(ratio, gauge)), Money(c.SpentCents, a.Currency))
	}
	return widgets.Panel{Title: "Analytics", Body: strings.TrimRight(b.String(), "\n")}.Render(width, height)
}

func bar(ratio float64, width int) string {
	return strings.Repeat("▇", int(ratio*float64(width)+0.5))
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one cell per value scaled to the series maximum.
func Sparkline(vs []float64) string {
	if len(vs) == 0 {
		return ""
	}
	hi := floats.Max(vs)
	out := make([]rune, len(vs))
	for i, v := range vs {
		idx := 0
		if hi > 0 {
			idx = int(v / hi * float64(len(sparks)-1))
		}
		out[i] = sparks[idx]
	}
	return string(out)
}
