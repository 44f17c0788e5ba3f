package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repo answers the queries of the default page providers.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepo wraps db. now defaults to time.Now.
func NewRepo(db *sql.DB, now func() time.Time) *Repo {
	if now == nil {
		now = time.Now
	}
	return &Repo{db: db, now: now}
}

// Accounts lists accounts by name.
func (r *Repo) Accounts(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, kind, balance_cents FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.BalanceCents); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentTransactions returns the newest limit transactions.
func (r *Repo) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.id, t.account_id, COALESCE(c.name, ''), t.occurred_on, t.amount_cents, t.description
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	ORDER BY t.occurred_on DESC, t.id
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		var (
			t  Transaction
			on string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Category, &on, &t.AmountCents, &t.Description); err != nil {
			return nil, err
		}
		if t.OccurredOn, err = parseDate(on); err != nil {
			return nil, fmt.Errorf("transaction %s date: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SpendByCategory sums outflows per category since the given day, largest first.
func (r *Repo) SpendByCategory(ctx context.Context, since time.Time) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT COALESCE(c.name, 'Uncategorised'), -SUM(t.amount_cents)
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE t.amount_cents < 0 AND t.occurred_on >= ?
	GROUP BY 1
	ORDER BY 2 DESC, 1`, formatDate(since))
	if err != nil {
		return nil, fmt.Errorf("spend by category: %w", err)
	}
	defer rows.Close()
	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.SpentCents); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// DailySpend returns total outflow per day for the last days days, oldest
// first, with zero for days without spending.
func (r *Repo) DailySpend(ctx context.Context, days int) ([]int64, error) {
	if days <= 0 {
		return nil, nil
	}
	end := r.now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	rows, err := r.db.QueryContext(ctx, `
	SELECT occurred_on, -SUM(amount_cents)
	FROM transactions
	WHERE amount_cents < 0 AND occurred_on >= ? AND occurred_on <= ?
	GROUP BY occurred_on`, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("daily spend: %w", err)
	}
	defer rows.Close()
	byDay := map[string]int64{}
	for rows.Next() {
		var (
			on    string
			spent int64
		)
		if err := rows.Scan(&on, &spent); err != nil {
			return nil, err
		}
		byDay[on] = spent
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]int64, days)
	for i := range out {
		out[i] = byDay[formatDate(start.AddDate(0, 0, i))]
	}
	return out, nil
}

// BudgetUsage reports month-to-date spend against each budget.
func (r *Repo) BudgetUsage(ctx context.Context) ([]BudgetLine, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT c.name, b.limit_cents,
	       COALESCE((SELECT -SUM(t.amount_cents) FROM transactions t
	                 WHERE t.category_id = b.category_id AND t.amount_cents < 0 AND t.occurred_on >= ?), 0)
	FROM budgets b
	JOIN categories c ON c.id = b.category_id
	ORDER BY c.name`, formatDate(monthStart(r.now())))
	if err != nil {
		return nil, fmt.Errorf("budget usage: %w", err)
	}
	defer rows.Close()
	var out []BudgetLine
	for rows.Next() {
		var b BudgetLine
		if err := rows.Scan(&b.Category, &b.LimitCents, &b.SpentCents); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Goals lists savings goals by due date, undated last.
func (r *Repo) Goals(ctx context.Context) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, target_cents, saved_cents, due_on
	FROM goals
	ORDER BY due_on IS NULL, due_on, name`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()
	var out []Goal
	for rows.Next() {
		var (
			g   Goal
			due sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetCents, &g.SavedCents, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			d, err := parseDate(due.String)
			if err != nil {
				return nil, fmt.Errorf("goal %s due date: %w", g.ID, err)
			}
			g.DueOn = &d
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Notifications returns the newest limit notifications.
func (r *Repo) Notifications(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, created_on, title, body, unread
	FROM notifications
	ORDER BY created_on DESC, id
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var (
			n  Notification
			on string
		)
		if err := rows.Scan(&n.ID, &on, &n.Title, &n.Body, &n.Unread); err != nil {
			return nil, err
		}
		if n.CreatedOn, err = parseDate(on); err != nil {
			return nil, fmt.Errorf("notification %s date: %w", n.ID, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Profile returns the user profile, or nil if none was seeded.
func (r *Repo) Profile(ctx context.Context) (*Profile, error) {
	var (
		p     Profile
		since string
	)
	err := r.db.QueryRowContext(ctx, `SELECT name, currency, member_since FROM profile WHERE id = 1`).
		Scan(&p.Name, &p.Currency, &since)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if p.MemberSince, err = parseDate(since); err != nil {
		return nil, fmt.Errorf("profile member since: %w", err)
	}
	return &p, nil
}

// SaveProfileName sets the profile name, creating the profile with currency
// if there is none yet.
func (r *Repo) SaveProfileName(ctx context.Context, name, currency string) error {
	if name == "" {
		return fmt.Errorf("save profile: empty name")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, currency, member_since) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		name, currency, formatDate(r.now()))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Overview gathers the dashboard numbers.
func (r *Repo) Overview(ctx context.Context, recent int) (Overview, error) {
	var ov Overview
	from := formatDate(monthStart(r.now()))
	err := r.db.QueryRowContext(ctx, `
	SELECT
	  COALESCE((SELECT SUM(balance_cents) FROM accounts), 0),
	  COALESCE((SELECT SUM(amount_cents) FROM transactions WHERE amount_cents > 0 AND occurred_on >= ?), 0),
	  COALESCE((SELECT -SUM(amount_cents) FROM transactions WHERE amount_cents < 0 AND occurred_on >= ?), 0),
	  (SELECT COUNT(*) FROM notifications WHERE unread = 1)`, from, from).
		Scan(&ov.NetWorthCents, &ov.MonthIncome, &ov.MonthSpend, &ov.UnreadCount)
	if err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}
	if ov.Recent, err = r.RecentTransactions(ctx, recent); err != nil {
		return Overview{}, err
	}
	return ov, nil
}
