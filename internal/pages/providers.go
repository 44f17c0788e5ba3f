package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/registry"
)

// Deps is what the providers need.
type Deps struct {
	Repo     *ledger.Repo
	Currency string
	Now      func() time.Time
	// Snapshot feeds the eager pages. Load it before the program starts.
	Snapshot *Snapshot
}

// Snapshot is the data eager pages render from.
type Snapshot struct {
	Overview      ledger.Overview
	Accounts      []ledger.Account
	Notifications []ledger.Notification
	Profile       *ledger.Profile
}

// LoadSnapshot reads everything the eager pages show.
func LoadSnapshot(ctx context.Context, repo *ledger.Repo) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)
	if s.Overview, err = repo.Overview(ctx, 6); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if s.Accounts, err = repo.Accounts(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if s.Notifications, err = repo.Notifications(ctx, 20); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if s.Profile, err = repo.Profile(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return s, nil
}

func (s *Snapshot) name() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Name
}

// SaveName stores the name typed during onboarding and refreshes the
// profile, so eager pages built afterwards show it. A blank name keeps the
// current profile.
func (s *Snapshot) SaveName(ctx context.Context, repo *ledger.Repo, name, currency string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if err := repo.SaveProfileName(ctx, name, currency); err != nil {
		return err
	}
	p, err := repo.Profile(ctx)
	if err != nil {
		return err
	}
	s.Profile = p
	return nil
}

// Descriptors returns one descriptor per page. Transactions, analytics,
// budget and goals load lazily; the rest render from the snapshot.
func Descriptors(d Deps) []registry.Descriptor {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Currency == "" {
		d.Currency = "$"
	}
	snap := d.Snapshot
	if snap == nil {
		snap = &Snapshot{}
	}
	return []registry.Descriptor{
		{ID: page.Dashboard, Mode: registry.Eager, New: func() registry.View {
			return &Dashboard{Overview: snap.Overview, Currency: d.Currency, Name: snap.name()}
		}},
		{ID: page.Transactions, Mode: registry.Lazy, Fallback: Skeleton(page.Transactions),
			Load: func(ctx context.Context) (registry.View, error) {
				txs, err := d.Repo.RecentTransactions(ctx, 200)
				if err != nil {
					return nil, err
				}
				return NewTransactions(txs, d.Currency), nil
			}},
		{ID: page.Analytics, Mode: registry.Lazy, Fallback: Skeleton(page.Analytics),
			Load: func(ctx context.Context) (registry.View, error) {
				a, err := LoadAnalytics(ctx, d.Repo, d.Now(), d.Currency)
				if err != nil {
					return nil, err
				}
				return a, nil
			}},
		{ID: page.Wallet, Mode: registry.Eager, New: func() registry.View {
			return &Wallet{Accounts: snap.Accounts, Currency: d.Currency}
		}},
		{ID: page.Budget, Mode: registry.Lazy, Fallback: Skeleton(page.Budget),
			Load: func(ctx context.Context) (registry.View, error) {
				lines, err := d.Repo.BudgetUsage(ctx)
				if err != nil {
					return nil, err
				}
				return &Budget{Lines: lines, Currency: d.Currency}, nil
			}},
		{ID: page.Goals, Mode: registry.Lazy, Fallback: Skeleton(page.Goals),
			Load: func(ctx context.Context) (registry.View, error) {
				goals, err := d.Repo.Goals(ctx)
				if err != nil {
					return nil, err
				}
				return &Goals{Goals: goals, Currency: d.Currency, Now: d.Now()}, nil
			}},
		{ID: page.Notifications, Mode: registry.Eager, New: func() registry.View {
			return NewNotifications(snap.Notifications, d.Now())
		}},
		{ID: page.Profile, Mode: registry.Eager, New: func() registry.View {
			return &Profile{Profile: snap.Profile}
		}},
	}
}
