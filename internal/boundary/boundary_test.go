package boundary

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func fallback(f *Failure, w, h int) string {
	return fmt.Sprintf("fallback:%s:%dx%d", f.Key, w, h)
}

func TestRenderPassesThrough(t *testing.T) {
	b := New("content", fallback, nil)
	out := b.Render("dashboard", 10, 2, func(w, h int) string { return fmt.Sprintf("ok %dx%d", w, h) })
	require.Equal(t, "ok 10x2", out)
	_, failed := b.Failed("dashboard")
	require.False(t, failed)
}

func TestRenderPanicIsContained(t *testing.T) {
	b := New("content", fallback, nil)
	calls := 0
	boom := func(int, int) string {
		calls++
		panic("transactions exploded")
	}
	require.Equal(t, "fallback:transactions:8x3", b.Render("transactions", 8, 3, boom))

	f, failed := b.Failed("transactions")
	require.True(t, failed)
	require.ErrorIs(t, f, ErrPanic)
	require.Contains(t, f.Error(), "transactions exploded")
	require.NotEmpty(t, f.Stack)

	// the failed subtree stays unmounted
	require.Equal(t, "fallback:transactions:8x3", b.Render("transactions", 8, 3, boom))
	require.Equal(t, 1, calls)

	// siblings are unaffected
	require.Equal(t, "fine", b.Render("wallet", 8, 3, func(int, int) string { return "fine" }))
}

func TestErrorPanicKeepsCause(t *testing.T) {
	b := New("content", fallback, nil)
	sentinel := errors.New("sentinel")
	b.Render("goals", 1, 1, func(int, int) string { panic(sentinel) })
	f, _ := b.Failed("goals")
	require.ErrorIs(t, f, sentinel)
}

func TestResetRemounts(t *testing.T) {
	b := New("content", fallback, nil)
	b.Render("budget", 1, 1, func(int, int) string { panic("x") })
	b.Reset("budget")
	require.Equal(t, "back", b.Render("budget", 1, 1, func(int, int) string { return "back" }))
}

func TestUpdateContainsPanic(t *testing.T) {
	b := New("navigation", fallback, nil)
	cmd := b.Update("nav", func() tea.Cmd { panic("bad key") })
	require.Nil(t, cmd)
	_, failed := b.Failed("nav")
	require.True(t, failed)

	called := false
	require.Nil(t, b.Update("nav", func() tea.Cmd { called = true; return nil }))
	require.False(t, called, "failed subtrees receive no more updates")
}

func TestGuardTurnsCommandPanicIntoMessage(t *testing.T) {
	b := New("content", fallback, nil)
	cmd := b.Update("analytics", func() tea.Cmd {
		return func() tea.Msg { panic("async boom") }
	})
	require.NotNil(t, cmd)
	msg := cmd()
	fm, ok := msg.(FailureMsg)
	require.True(t, ok)
	require.Equal(t, "content", fm.Failure.Region)
	require.Equal(t, "analytics", fm.Failure.Key)

	other := New("navigation", fallback, nil)
	other.Record(fm.Failure)
	_, failed := other.Failed("analytics")
	require.False(t, failed, "failures are recorded only by their own region")

	b.Record(fm.Failure)
	_, failed = b.Failed("analytics")
	require.True(t, failed)
}

func TestGuardCoversBatchedCommands(t *testing.T) {
	b := New("content", fallback, nil)
	noop := func() tea.Msg { return "ok" }
	bad := func() tea.Msg { panic("batched boom") }
	cmd := b.Guard("wallet", tea.Batch(noop, tea.Batch(noop, bad)))

	var msgs []tea.Msg
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, child := range batch {
				run(child)
			}
			return
		}
		msgs = append(msgs, msg)
	}
	require.NotPanics(t, func() { run(cmd) })

	var failures []FailureMsg
	for _, m := range msgs {
		if fm, ok := m.(FailureMsg); ok {
			failures = append(failures, fm)
		}
	}
	require.Len(t, failures, 1)
	require.Equal(t, "wallet", failures[0].Failure.Key)
	require.ErrorIs(t, failures[0].Failure, ErrPanic)
}

func TestGuardPassesMessagesThrough(t *testing.T) {
	b := New("content", fallback, nil)
	require.Nil(t, b.Guard("x", nil))
	require.Equal(t, "done", b.Guard("x", func() tea.Msg { return "done" })())
}

func TestFail(t *testing.T) {
	b := New("content", fallback, nil)
	require.Nil(t, b.Fail("goals", nil))
	loadErr := errors.New("load failed")
	f := b.Fail("goals", loadErr)
	require.ErrorIs(t, f, loadErr)
	require.Equal(t, "fallback:goals:4x1", b.Render("goals", 4, 1, func(int, int) string { return "never" }))
	require.Same(t, f, b.Fail("goals", errors.New("second")), "first failure wins")
}
