// Package page defines the closed set of top-level pages the shell can show.
//
// Adding a page means extending this enumeration, the view registry and the
// navigation tab list together.
package page

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPage is returned when a name does not match any page.
var ErrUnknownPage = errors.New("unknown page")

// ID identifies a top-level page. Only the constants below are valid.
type ID uint8

const (
	Dashboard ID = iota
	Transactions
	Analytics
	Wallet
	Budget
	Goals
	Notifications
	Profile

	// Count is the number of valid pages.
	Count int = iota
)

// Default is the entry page after onboarding and the resolver's fallback.
const Default = Dashboard

type info struct {
	name  string
	title string
	jump  byte
}

var table = [Count]info{
	Dashboard:     {name: "dashboard", title: "Dashboard", jump: '1'},
	Transactions:  {name: "transactions", title: "Transactions", jump: '2'},
	Analytics:     {name: "analytics", title: "Analytics", jump: '3'},
	Wallet:        {name: "wallet", title: "Wallet", jump: '4'},
	Budget:        {name: "budget", title: "Budget", jump: '5'},
	Goals:         {name: "goals", title: "Goals", jump: '6'},
	Notifications: {name: "notifications", title: "Notifications", jump: '7'},
	Profile:       {name: "profile", title: "Profile", jump: '8'},
}

// Valid reports whether id is a member of the enumeration.
func (id ID) Valid() bool { return int(id) < Count }

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("page(%d)", uint8(id))
	}
	return table[id].name
}

// Title is the human label used by navigation.
func (id ID) Title() string {
	if !id.Valid() {
		return id.String()
	}
	return table[id].title
}

// JumpKey is the single key that selects the page from navigation.
func (id ID) JumpKey() string {
	if !id.Valid() {
		return ""
	}
	return string(table[id].jump)
}

// Parse maps a page name (case-insensitive) to its ID.
func Parse(name string) (ID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i := range table {
		if table[i].name == n {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

// All returns every page in navigation order.
func All() []ID {
	out := make([]ID, Count)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

// Next returns the page after id in navigation order, wrapping around.
func (id ID) Next() ID {
	if !id.Valid() {
		return Default
	}
	return ID((int(id) + 1) % Count)
}

// Prev returns the page before id in navigation order, wrapping around.
func (id ID) Prev() ID {
	if !id.Valid() {
		return Default
	}
	return ID((int(id) + Count - 1) % Count)
}
