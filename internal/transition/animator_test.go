package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jask/walletshell/internal/page"
)

func testOptions() Options {
	return Options{Enabled: true, Duration: 300 * time.Millisecond, FrameRate: 10, Offset: 2}
}

// frames feeds n frames of the live generation.
func frames(a *Animator, n int) {
	for i := 0; i < n; i++ {
		a.Update(FrameMsg{Gen: a.Generation()})
	}
}

func TestSequentialExitThenEnter(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	require.NotNil(t, a.Navigate(page.Transactions))
	require.Equal(t, Exiting, a.Phase())
	require.Equal(t, page.Dashboard, a.Shown())

	// 300ms at 10fps is three frames per phase
	frames(a, 2)
	require.Equal(t, Exiting, a.Phase(), "enter must wait for exit to finish")
	require.Equal(t, page.Dashboard, a.Shown())

	frames(a, 1)
	require.Equal(t, Entering, a.Phase())
	require.Equal(t, page.Transactions, a.Shown())

	frames(a, 3)
	require.Equal(t, Idle, a.Phase())
	require.Equal(t, page.Transactions, a.Shown())
}

func TestPhaseOrderIsObserved(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Transactions)
	var seen []Frame
	for i := 0; i < 10; i++ {
		seen = append(seen, a.Frame())
		frames(a, 1)
	}
	var phases []Phase
	for _, f := range seen {
		if len(phases) == 0 || phases[len(phases)-1] != f.Phase {
			phases = append(phases, f.Phase)
		}
		if f.Phase == Exiting {
			require.Equal(t, page.Dashboard, f.Page)
		} else {
			require.Equal(t, page.Transactions, f.Page)
		}
	}
	require.Equal(t, []Phase{Exiting, Entering, Idle}, phases)
}

func TestExplicitComplete(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Wallet)
	gen := a.Generation()
	require.NotNil(t, a.Complete())
	require.Equal(t, Entering, a.Phase())
	require.Nil(t, a.Update(FrameMsg{Gen: gen}), "frames from the exit chain are stale")
	require.Nil(t, a.Complete())
	require.Equal(t, Idle, a.Phase())
	require.Nil(t, a.Complete())
}

func TestNavigateToShownIsNoop(t *testing.T) {
	a := New(page.Goals, testOptions(), nil)
	require.Nil(t, a.Navigate(page.Goals))
	require.Equal(t, Idle, a.Phase())
	require.Nil(t, a.Navigate(page.ID(100)))
}

func TestRetargetWhileExiting(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Transactions)
	frames(a, 1)
	require.Nil(t, a.Navigate(page.Analytics), "the running frame chain carries on")
	require.Equal(t, Exiting, a.Phase())
	require.Equal(t, page.Dashboard, a.Shown())
	require.Equal(t, page.Analytics, a.Target())

	frames(a, 2)
	require.Equal(t, Entering, a.Phase())
	require.Equal(t, page.Analytics, a.Shown(), "transactions is never shown")
	frames(a, 3)
	require.Equal(t, Idle, a.Phase())
	require.Equal(t, page.Analytics, a.Shown())
}

func TestReturnToShownWhileExitingReverses(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Transactions)
	frames(a, 1)
	require.InDelta(t, 1.0/3.0, a.Progress(), 1e-9)

	require.Nil(t, a.Navigate(page.Dashboard))
	require.Equal(t, Entering, a.Phase(), "no full exit of the page being returned to")
	require.Equal(t, page.Dashboard, a.Shown())
	require.Equal(t, page.Dashboard, a.Target())
	require.InDelta(t, 2.0/3.0, a.Progress(), 1e-9)

	frames(a, 1)
	require.Equal(t, Idle, a.Phase())
	require.Equal(t, page.Dashboard, a.Shown())
}

func TestInterruptWhileEntering(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Transactions)
	frames(a, 3)
	frames(a, 1)
	require.Equal(t, Entering, a.Phase())
	require.InDelta(t, 1.0/3.0, a.Progress(), 1e-9)

	a.Navigate(page.Budget)
	require.Equal(t, Exiting, a.Phase())
	require.Equal(t, page.Transactions, a.Shown())
	require.InDelta(t, 2.0/3.0, a.Progress(), 1e-9, "exit resumes from the mirrored position")

	frames(a, 2)
	require.Equal(t, Entering, a.Phase())
	require.Equal(t, page.Budget, a.Shown())
	frames(a, 3)
	require.Equal(t, Idle, a.Phase())
}

func TestSameTargetWhileEnteringIsNoop(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Transactions)
	frames(a, 4)
	require.Equal(t, Entering, a.Phase())
	a.Navigate(page.Transactions)
	require.Equal(t, Entering, a.Phase())
}

func TestDisabledJumpsImmediately(t *testing.T) {
	opts := testOptions()
	opts.Enabled = false
	a := New(page.Dashboard, opts, nil)
	require.Nil(t, a.Navigate(page.Profile))
	require.Equal(t, Idle, a.Phase())
	require.Equal(t, page.Profile, a.Shown())
}

func TestReset(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	a.Navigate(page.Wallet)
	gen := a.Generation()
	a.Reset(page.Goals)
	require.Equal(t, Idle, a.Phase())
	require.Equal(t, page.Goals, a.Shown())
	require.Nil(t, a.Update(FrameMsg{Gen: gen}))
}

func TestFrameShape(t *testing.T) {
	a := New(page.Dashboard, testOptions(), nil)
	require.Equal(t, Frame{Page: page.Dashboard, Phase: Idle, Opacity: 1}, a.Frame())

	a.Navigate(page.Wallet)
	f := a.Frame()
	require.Equal(t, 1.0, f.Opacity)
	require.Equal(t, 0, f.Offset)
	frames(a, 2)
	f = a.Frame()
	require.Less(t, f.Opacity, 1.0)
	require.Less(t, f.Offset, 0, "exit moves content up")

	frames(a, 1)
	f = a.Frame()
	require.Equal(t, 0.0, f.Opacity)
	require.Equal(t, 2, f.Offset, "enter starts offset below")
}

func TestEaseOut(t *testing.T) {
	require.Equal(t, 0.0, EaseOut(-1))
	require.Equal(t, 1.0, EaseOut(2))
	require.Greater(t, EaseOut(0.5), 0.5, "ease-out front-loads motion")
}

func TestAnimatorConvergesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := New(page.Dashboard, testOptions(), nil)
		last := page.Dashboard
		steps := rapid.SliceOfN(rapid.IntRange(-3, page.Count-1), 1, 60).Draw(t, "steps")
		for _, s := range steps {
			if s < 0 {
				frames(a, -s)
			} else {
				last = page.ID(s)
				a.Navigate(last)
			}
			require.True(t, a.Shown().Valid())
			switch a.Phase() {
			case Idle, Entering:
				require.Equal(t, a.Target(), a.Shown())
			}
		}
		frames(a, 6)
		require.Equal(t, Idle, a.Phase())
		require.Equal(t, last, a.Shown())
	})
}
