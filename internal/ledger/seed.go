package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is the profile currency when none is given.
const DefaultCurrency = "AUD"

// SeedOptions controls mock data generation.
type SeedOptions struct {
	Seed         int64 // 0 picks a time based seed
	Transactions int
	Now          time.Time
	ProfileName  string
	Currency     string
}

var seedCategories = []struct {
	Name  string
	Limit int64
}{
	{"Groceries", 60000},
	{"Restaurants", 30000},
	{"Transport", 20000},
	{"Utilities", 25000},
	{"Subscriptions", 8000},
	{"Shopping", 40000},
	{"Health", 15000},
	{"Income", 0},
}

var seedMerchants = map[string][]string{
	"Groceries":     {"WOOLWORTHS", "COLES", "ALDI"},
	"Restaurants":   {"UBER EATS* SUSHI", "LOCAL CAFE", "PIZZA PLACE"},
	"Transport":     {"MYKI TOPUP", "SHELL FUEL", "UBER TRIP"},
	"Utilities":     {"AGL ENERGY", "YARRA VALLEY WATER"},
	"Subscriptions": {"SPOTIFY", "NETFLIX"},
	"Shopping":      {"AMAZON.COM*XYZ", "JB HI-FI", "KMART"},
	"Health":        {"CHEMIST WAREHOUSE", "PHYSIO CLINIC"},
}

// Seed fills an empty ledger with sample data. A ledger that already has
// accounts is left untouched.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&existing); err != nil {
		return fmt.Errorf("seed: count accounts: %w", err)
	}
	if existing > 0 {
		return nil
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Transactions <= 0 {
		opts.Transactions = 120
	}
	if opts.ProfileName == "" {
		opts.ProfileName = "Alex"
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	now := opts.Now.UTC()

	return WithTx(db, func(tx *sql.Tx) error {
		accounts := []Account{
			{ID: uuid.NewString(), Name: "Everyday", Kind: "checking", BalanceCents: 250000 + rng.Int63n(200000)},
			{ID: uuid.NewString(), Name: "Savings", Kind: "savings", BalanceCents: 1200000 + rng.Int63n(800000)},
			{ID: uuid.NewString(), Name: "Credit Card", Kind: "credit", BalanceCents: -rng.Int63n(150000)},
		}
		for _, a := range accounts {
			if _, err := tx.ExecContext(ctx, `INSERT INTO accounts(id, name, kind, balance_cents) VALUES (?, ?, ?, ?)`,
				a.ID, a.Name, a.Kind, a.BalanceCents); err != nil {
				return fmt.Errorf("seed account %s: %w", a.Name, err)
			}
		}

		catIDs := make(map[string]string, len(seedCategories))
		for _, c := range seedCategories {
			id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+c.Name)).String()
			catIDs[c.Name] = id
			if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, name) VALUES (?, ?)`, id, c.Name); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Name, err)
			}
			if c.Limit > 0 {
				if _, err := tx.ExecContext(ctx, `INSERT INTO budgets(category_id, limit_cents) VALUES (?, ?)`, id, c.Limit); err != nil {
					return fmt.Errorf("seed budget %s: %w", c.Name, err)
				}
			}
		}

		spendCats := make([]string, 0, len(seedMerchants))
		for _, c := range seedCategories {
			if _, ok := seedMerchants[c.Name]; ok {
				spendCats = append(spendCats, c.Name)
			}
		}
		for i := 0; i < opts.Transactions; i++ {
			day := now.AddDate(0, 0, -rng.Intn(60))
			acct := accounts[rng.Intn(2)*2] // everyday or credit
			cat := spendCats[rng.Intn(len(spendCats))]
			merchants := seedMerchants[cat]
			desc := merchants[rng.Intn(len(merchants))]
			amount := -int64(rng.Intn(15000) + 500)
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions(id, account_id, category_id, occurred_on, amount_cents, description)
			VALUES (?, ?, ?, ?, ?, ?)`, uuid.NewString(), acct.ID, catIDs[cat], formatDate(day), amount, desc); err != nil {
				return fmt.Errorf("seed transaction: %w", err)
			}
		}
		for m := 0; m < 2; m++ {
			payday := monthStart(now).AddDate(0, -m, 14)
			if payday.After(now) {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions(id, account_id, category_id, occurred_on, amount_cents, description)
			VALUES (?, ?, ?, ?, ?, ?)`, uuid.NewString(), accounts[0].ID, catIDs["Income"], formatDate(payday), 520000, "SALARY ACME"); err != nil {
				return fmt.Errorf("seed salary: %w", err)
			}
		}

		goals := []Goal{
			{Name: "Emergency fund", TargetCents: 1000000, SavedCents: rng.Int63n(900000)},
			{Name: "Japan trip", TargetCents: 600000, SavedCents: rng.Int63n(400000)},
			{Name: "New laptop", TargetCents: 250000, SavedCents: rng.Int63n(250000)},
		}
		for i, g := range goals {
			var due any
			if i > 0 {
				due = formatDate(now.AddDate(0, 3*i, 0))
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO goals(id, name, target_cents, saved_cents, due_on) VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(), g.Name, g.TargetCents, g.SavedCents, due); err != nil {
				return fmt.Errorf("seed goal %s: %w", g.Name, err)
			}
		}

		notes := []Notification{
			{Title: "Budget alert", Body: "Restaurants is at 80% of its monthly limit."},
			{Title: "Salary received", Body: "SALARY ACME was deposited into Everyday."},
			{Title: "Goal milestone", Body: "Japan trip passed the halfway mark."},
			{Title: "Card statement", Body: "Your credit card statement is ready."},
		}
		for i, n := range notes {
			if _, err := tx.ExecContext(ctx, `INSERT INTO notifications(id, created_on, title, body, unread) VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(), formatDate(now.AddDate(0, 0, -i*3)), n.Title, n.Body, i < 2); err != nil {
				return fmt.Errorf("seed notification: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO profile(id, name, currency, member_since) VALUES (1, ?, ?, ?)`,
			opts.ProfileName, opts.Currency, formatDate(now.AddDate(-1, 0, 0))); err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
		return nil
	})
}
