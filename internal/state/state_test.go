package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jask/walletshell/internal/page"
)

func authed(p page.ID) ApplicationState {
	return ApplicationState{CurrentPage: p, Session: Authenticated}
}

func TestSetCurrentPageForEveryValidPage(t *testing.T) {
	for _, id := range page.All() {
		s := NewStore(authed(page.Dashboard), nil)
		require.NoError(t, s.Dispatch(SetCurrentPage{Page: id}))
		require.Equal(t, id, s.Snapshot().CurrentPage)
	}
}

func TestInvalidPageIsRejected(t *testing.T) {
	s := NewStore(authed(page.Wallet), nil)
	calls := 0
	s.Subscribe(func(prev, next ApplicationState) { calls++ })

	err := s.Dispatch(SetCurrentPage{Page: page.ID(42)})
	require.True(t, errors.Is(err, ErrInvalidAction))
	require.Equal(t, page.Wallet, s.Snapshot().CurrentPage)
	require.Zero(t, calls)
}

func TestNilActionIsRejected(t *testing.T) {
	s := NewStore(authed(page.Wallet), nil)
	require.ErrorIs(t, s.Dispatch(nil), ErrInvalidAction)
}

func TestCompleteOnboardingIsAtomic(t *testing.T) {
	s := NewStore(ApplicationState{CurrentPage: page.Goals}, nil)
	var seen []ApplicationState
	s.Subscribe(func(prev, next ApplicationState) { seen = append(seen, next) })

	require.NoError(t, s.Dispatch(CompleteOnboarding{}))
	require.Equal(t, authed(page.Dashboard), s.Snapshot())
	require.Len(t, seen, 1, "session and page must change in one notification")
	require.Equal(t, authed(page.Dashboard), seen[0])
}

func TestCompleteOnboardingWhenAuthenticatedIsNoop(t *testing.T) {
	s := NewStore(authed(page.Profile), nil)
	calls := 0
	s.Subscribe(func(prev, next ApplicationState) { calls++ })
	require.NoError(t, s.Dispatch(CompleteOnboarding{}))
	require.Equal(t, authed(page.Profile), s.Snapshot())
	require.Zero(t, calls)
}

func TestSamePageDoesNotNotify(t *testing.T) {
	s := NewStore(authed(page.Budget), nil)
	calls := 0
	s.Subscribe(func(prev, next ApplicationState) { calls++ })
	require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Budget}))
	require.Zero(t, calls)
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore(authed(page.Dashboard), nil)
	calls := 0
	stop := s.Subscribe(func(prev, next ApplicationState) { calls++ })
	require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Goals}))
	stop()
	require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Wallet}))
	require.Equal(t, 1, calls)
}

func TestDispatchFromListenerIsQueuedInOrder(t *testing.T) {
	s := NewStore(authed(page.Dashboard), nil)
	var order []page.ID
	s.Subscribe(func(prev, next ApplicationState) {
		order = append(order, next.CurrentPage)
		if next.CurrentPage == page.Analytics {
			require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Goals}))
			// the nested dispatch has not been applied yet
			require.Equal(t, page.Analytics, s.Snapshot().CurrentPage)
		}
	})
	require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Analytics}))
	require.Equal(t, []page.ID{page.Analytics, page.Goals}, order)
	require.Equal(t, page.Goals, s.Snapshot().CurrentPage)
}

func TestPanickingListenerDropsQueuedActions(t *testing.T) {
	s := NewStore(authed(page.Dashboard), nil)
	var order []page.ID
	s.Subscribe(func(prev, next ApplicationState) {
		order = append(order, next.CurrentPage)
		if next.CurrentPage == page.Analytics {
			require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Goals}))
			panic("listener failed")
		}
	})
	require.Panics(t, func() { _ = s.Dispatch(SetCurrentPage{Page: page.Analytics}) })
	require.Equal(t, page.Analytics, s.Snapshot().CurrentPage)

	order = nil
	require.NoError(t, s.Dispatch(SetCurrentPage{Page: page.Wallet}))
	require.Equal(t, []page.ID{page.Wallet}, order, "the abandoned goals action is not replayed")
	require.Equal(t, page.Wallet, s.Snapshot().CurrentPage)
}

func TestNewStoreNormalisesInitialState(t *testing.T) {
	s := NewStore(ApplicationState{CurrentPage: page.ID(77), Session: SessionStatus(9)}, nil)
	require.Equal(t, ApplicationState{CurrentPage: page.Default, Session: Unauthenticated}, s.Snapshot())
}

func TestDispatchPropertyCurrentPageAlwaysValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore(ApplicationState{}, nil)
		authenticated := false
		raws := rapid.SliceOfN(rapid.IntRange(-1, 255), 1, 50).Draw(t, "actions")
		for _, raw := range raws {
			if raw < 0 {
				require.NoError(t, s.Dispatch(CompleteOnboarding{}))
				authenticated = true
				continue
			}
			before := s.Snapshot()
			err := s.Dispatch(SetCurrentPage{Page: page.ID(raw)})
			if raw >= page.Count {
				require.ErrorIs(t, err, ErrInvalidAction)
				require.Equal(t, before, s.Snapshot())
			} else {
				require.NoError(t, err)
				require.Equal(t, page.ID(raw), s.Snapshot().CurrentPage)
			}
			require.True(t, s.Snapshot().CurrentPage.Valid())
		}
		if authenticated {
			require.Equal(t, Authenticated, s.Snapshot().Session)
		} else {
			require.Equal(t, Unauthenticated, s.Snapshot().Session)
		}
	})
}
