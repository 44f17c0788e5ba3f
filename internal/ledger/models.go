package ledger

import "time"

// Account is a wallet account row.
type Account struct {
	ID           string
	Name         string
	Kind         string
	BalanceCents int64
}

// Transaction is a ledger row joined with its category name.
type Transaction struct {
	ID          string
	AccountID   string
	Category    string
	OccurredOn  time.Time
	AmountCents int64
	Description string
}

// CategoryTotal is the spend of one category over a window.
type CategoryTotal struct {
	Category   string
	SpentCents int64
}

// BudgetLine compares a category's limit with its month-to-date spend.
type BudgetLine struct {
	Category   string
	LimitCents int64
	SpentCents int64
}

// Goal is a savings goal.
type Goal struct {
	ID          string
	Name        string
	TargetCents int64
	SavedCents  int64
	DueOn       *time.Time
}

// Notification is an inbox item.
type Notification struct {
	ID        string
	CreatedOn time.Time
	Title     string
	Body      string
	Unread    bool
}

// Profile is the single user profile row.
type Profile struct {
	Name        string
	Currency    string
	MemberSince time.Time
}

// Overview is the dashboard summary.
type Overview struct {
	NetWorthCents int64
	MonthIncome   int64
	MonthSpend    int64
	UnreadCount   int
	Recent        []Transaction
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
