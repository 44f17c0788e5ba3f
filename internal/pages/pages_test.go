package pages

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/registry"
)

var fixedNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func seededDeps(t *testing.T) Deps {
	t.Helper()
	db, err := ledger.Open(ledger.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, ledger.Migrate(db))
	require.NoError(t, ledger.Seed(context.Background(), db, ledger.SeedOptions{Seed: 3, Transactions: 60, Now: fixedNow}))
	repo := ledger.NewRepo(db, func() time.Time { return fixedNow })
	snap, err := LoadSnapshot(context.Background(), repo)
	require.NoError(t, err)
	return Deps{Repo: repo, Currency: "$", Now: func() time.Time { return fixedNow }, Snapshot: &snap}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func requireSize(t *testing.T, out string, w, h int) {
	t.Helper()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, h)
	for _, l := range lines {
		require.Equal(t, w, ansi.StringWidth(l))
	}
}

func TestMoney(t *testing.T) {
	require.Equal(t, "$1,234.50", Money(123450, "$"))
	require.Equal(t, "-A$7.05", Money(-705, "A$"))
	require.Equal(t, "$0.00", Money(0, "$"))
}

func TestDescriptorsCoverEveryPage(t *testing.T) {
	reg, err := registry.New(Descriptors(seededDeps(t))...)
	require.NoError(t, err)
	require.Empty(t, reg.Missing())

	lazy := map[page.ID]bool{page.Transactions: true, page.Analytics: true, page.Budget: true, page.Goals: true}
	for _, id := range page.All() {
		d, fellBack := reg.Resolve(id)
		require.False(t, fellBack)
		require.Equal(t, lazy[id], d.Mode == registry.Lazy, id.String())
	}
}

func TestEveryPageRendersExactSize(t *testing.T) {
	deps := seededDeps(t)
	for _, d := range Descriptors(deps) {
		var v registry.View
		if d.Mode == registry.Lazy {
			requireSize(t, d.Fallback.Render(60, 16), 60, 16)
			var err error
			v, err = d.Load(context.Background())
			require.NoError(t, err, d.ID.String())
		} else {
			v = d.New()
		}
		out := v.Render(60, 16)
		requireSize(t, out, 60, 16)
		require.Contains(t, ansi.Strip(out), d.ID.Title())
	}
}

func TestLazyLoaderSurfacesRepoErrors(t *testing.T) {
	deps := seededDeps(t)
	db, err := ledger.Open(ledger.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	deps.Repo = ledger.NewRepo(db, deps.Now)

	for _, d := range Descriptors(deps) {
		if d.Mode != registry.Lazy {
			continue
		}
		v, err := d.Load(context.Background())
		require.Error(t, err, d.ID.String())
		require.Nil(t, v)
	}
}

func TestTransactionsCursor(t *testing.T) {
	txs := make([]ledger.Transaction, 30)
	for i := range txs {
		txs[i] = ledger.Transaction{Description: "tx", Category: "food", OccurredOn: fixedNow, AmountCents: -100}
	}
	v := NewTransactions(txs, "$")
	v.Update(press("k"))
	require.Zero(t, v.Selected())
	for i := 0; i < 12; i++ {
		v.Update(press("j"))
	}
	require.Equal(t, 12, v.Selected())
	require.Contains(t, ansi.Strip(v.Render(70, 10)), "13 of 30")

	v.Update(press("G"))
	require.Equal(t, 29, v.Selected())
	v.Update(press("j"))
	require.Equal(t, 29, v.Selected())
	v.Update(press("g"))
	require.Zero(t, v.Selected())
}

func TestNotificationsMarkRead(t *testing.T) {
	items := []ledger.Notification{
		{Title: "a", Unread: true, CreatedOn: fixedNow},
		{Title: "b", Unread: true, CreatedOn: fixedNow.AddDate(0, 0, -3)},
	}
	v := NewNotifications(items, fixedNow)
	require.Equal(t, 2, v.Unread())
	v.Update(press("j"))
	v.Update(press("enter"))
	require.Equal(t, 1, v.Unread())
	require.True(t, items[1].Unread, "source slice untouched")
	require.Contains(t, ansi.Strip(v.Render(60, 10)), "3d ago")
}

func TestAnalyticsStats(t *testing.T) {
	a := NewAnalytics([]int64{100, 100, 100, 100, 1000}, nil, "$")
	require.InDelta(t, 280, a.Mean, 1e-9)
	require.Greater(t, a.StdDev, 0.0)
	require.Equal(t, 1, a.Spikes())
	require.Equal(t, "▁▁▁▁█", Sparkline(a.Daily))

	empty := NewAnalytics(nil, nil, "$")
	require.Zero(t, empty.Spikes())
	require.Empty(t, Sparkline(nil))
}

func TestOnboardingRendersWelcome(t *testing.T) {
	calls := 0
	o := NewOnboarding("Sam", func(string) { calls++ })
	o.Init()
	require.Equal(t, "Sam", o.Name())
	out := o.Render(70, 24)
	requireSize(t, out, 70, 24)
	require.Contains(t, ansi.Strip(out), "Welcome to WalletShell")
	require.False(t, o.Done())
	require.Zero(t, calls)
}

func TestOnboardingCompletesWithTypedName(t *testing.T) {
	var got []string
	o := NewOnboarding("  Sam ", func(name string) { got = append(got, name) })
	o.Init()
	o.form.State = huh.StateCompleted
	require.Nil(t, o.Update(struct{}{}))
	require.True(t, o.Done())
	require.Equal(t, []string{"Sam"}, got)

	o.Update(struct{}{})
	require.Len(t, got, 1, "completion fires once")
}

func TestSavedNameReachesEagerPages(t *testing.T) {
	deps := seededDeps(t)
	ctx := context.Background()
	render := func(id page.ID) string {
		for _, d := range Descriptors(deps) {
			if d.ID == id {
				return ansi.Strip(d.New().Render(60, 16))
			}
		}
		t.Fatalf("no descriptor for %s", id)
		return ""
	}
	require.Contains(t, render(page.Dashboard), "Hi, Alex")

	require.NoError(t, deps.Snapshot.SaveName(ctx, deps.Repo, "  ", "$"))
	require.Equal(t, "Alex", deps.Snapshot.Profile.Name, "a blank name keeps the profile")

	require.NoError(t, deps.Snapshot.SaveName(ctx, deps.Repo, " Sam ", "$"))
	require.Contains(t, render(page.Dashboard), "Hi, Sam")
	require.Contains(t, render(page.Profile), "Sam")

	p, err := deps.Repo.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Sam", p.Name)
}
