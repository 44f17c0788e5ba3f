package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/widgets"
)

// Dashboard shows the month overview and the latest transactions.
type Dashboard struct {
	Overview ledger.Overview
	Currency string
	Name     string
}

func (v *Dashboard) Render(width, height int) string {
	o := v.Overview
	var b strings.Builder
	if v.Name != "" {
		b.WriteString(widgets.AccentStyle.Render("Hi, "+v.Name) + "\n\n")
	}
	fmt.Fprintf(&b, "%s  %s\n", widgets.MutedStyle.Render("Net worth"), widgets.AccentStyle.Render(Money(o.NetWorthCents, v.Currency)))
	fmt.Fprintf(&b, "%s  %s\n", widgets.MutedStyle.Render("Income   "), widgets.SuccessStyle.Render(Money(o.MonthIncome, v.Currency)))
	fmt.Fprintf(&b, "%s  %s\n", widgets.MutedStyle.Render("Spending "), widgets.ErrorStyle.Render(Money(o.MonthSpend, v.Currency)))
	if o.UnreadCount > 0 {
		fmt.Fprintf(&b, "%s\n", widgets.WarnStyle.Render(fmt.Sprintf("%d unread notifications", o.UnreadCount)))
	}
	b.WriteString("\n")
	b.WriteString(widgets.AccentStyle.Render("Recent") + "\n")
	for _, tx := range o.Recent {
		b.WriteString(txLine(tx, v.Currency, width-4) + "\n")
	}
	if len(o.Recent) == 0 {
		b.WriteString(widgets.MutedStyle.Render("No transactions yet.") + "\n")
	}
	return widgets.Panel{Title: "Dashboard", Body: strings.TrimRight(b.String(), "\n")}.Render(width, height)
}

func txLine(tx ledger.Transaction, currency string, width int) string {
	amount := Money(tx.AmountCents, currency)
	if tx.AmountCents > 0 {
		amount = widgets.SuccessStyle.Render("+" + amount)
	}
	left := tx.OccurredOn.Format("02 Jan") + "  " + tx.Description
	room := width - ansi.StringWidth(amount) - 1
	if room < 1 {
		return amount
	}
	return widgets.PadRight(ansi.Truncate(left, room, "…"), room) + " " + amount
}

// Wallet lists accounts with their balances.
type Wallet struct {
	Accounts []ledger.Account
	Currency string
}

func (v *Wallet) Render(width, height int) string {
	var (
		b     strings.Builder
		total int64
	)
	for _, a := range v.Accounts {
		total += a.BalanceCents
		fmt.Fprintf(&b, "%-22s %-10s %s\n", a.Name, widgets.MutedStyle.Render(a.Kind), Money(a.BalanceCents, v.Currency))
	}
	if len(v.Accounts) == 0 {
		b.WriteString(widgets.MutedStyle.Render("No accounts.") + "\n")
	}
	fmt.Fprintf(&b, "\n%s %s", widgets.AccentStyle.Render("Total"), Money(total, v.Currency))
	return widgets.Panel{Title: "Wallet", Body: b.String()}.Render(width, height)
}

// Budget compares category limits with this month's spend.
type Budget struct {
	Lines    []ledger.BudgetLine
	Currency string
}

func (v *Budget) Render(width, height int) string {
	var b strings.Builder
	gauge := max(4, width-50)
	for _, l := range v.Lines {
		ratio := 0.0
		if l.LimitCents > 0 {
			ratio = float64(l.SpentCents) / float64(l.LimitCents)
		}
		fmt.Fprintf(&b, "%-14s %s %s / %s\n", ansi.Truncate(title(l.Category), 14, "…"), widgets.Bar(ratio, gauge),
			Money(l.SpentCents, v.Currency), Money(l.LimitCents, v.Currency))
	}
	if len(v.Lines) == 0 {
		b.WriteString(widgets.MutedStyle.Render("No budgets set."))
	}
	return widgets.Panel{Title: "Budget", Body: strings.TrimRight(b.String(), "\n")}.Render(width, height)
}

// Goals shows progress towards each savings goal.
type Goals struct {
	Goals    []ledger.Goal
	Currency string
	Now      time.Time
}

func (v *Goals) Render(width, height int) string {
	var b strings.Builder
	gauge := max(4, width-44)
	for _, g := range v.Goals {
		ratio := 0.0
		if g.TargetCents > 0 {
			ratio = float64(g.SavedCents) / float64(g.TargetCents)
		}
		due := widgets.MutedStyle.Render("no due date")
		if g.DueOn != nil {
			days := int(g.DueOn.Sub(v.Now).Hours() / 24)
			if days < 0 {
				due = widgets.ErrorStyle.Render("overdue")
			} else {
				due = widgets.MutedStyle.Render(fmt.Sprintf("%d days left", days))
			}
		}
		fmt.Fprintf(&b, "%s  %s\n", widgets.AccentStyle.Render(g.Name), due)
		fmt.Fprintf(&b, "%s %s of %s\n\n", widgets.Bar(ratio, gauge), Money(g.SavedCents, v.Currency), Money(g.TargetCents, v.Currency))
	}
	if len(v.Goals) == 0 {
		b.WriteString(widgets.MutedStyle.Render("No goals yet."))
	}
	return widgets.Panel{Title: "Goals", Body: strings.TrimRight(b.String(), "\n")}.Render(width, height)
}

// Profile shows the account holder.
type Profile struct {
	Profile *ledger.Profile
}

func (v *Profile) Render(width, height int) string {
	body := widgets.MutedStyle.Render("No profile.")
	if p := v.Profile; p != nil {
		body = fmt.Sprintf("%s\n\n%s %s\n%s %s",
			widgets.AccentStyle.Render(p.Name),
			widgets.MutedStyle.Render("Currency     "), p.Currency,
			widgets.MutedStyle.Render("Member since "), p.MemberSince.Format("January 2006"))
	}
	return widgets.Panel{Title: "Profile", Body: body}.Render(width, height)
}
