package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/walletshell/internal/page"
)

func text(s string) View {
	return ViewFunc(func(int, int) string { return s })
}

func eager(id page.ID, s string) Descriptor {
	return Descriptor{ID: id, Mode: Eager, New: func() View { return text(s) }}
}

func lazy(id page.ID, s string) Descriptor {
	return Descriptor{
		ID:       id,
		Mode:     Lazy,
		Load:     func(context.Context) (View, error) { return text(s), nil },
		Fallback: text("loading " + s),
	}
}

func mustNew(t *testing.T, descs ...Descriptor) *Registry {
	t.Helper()
	r, err := New(descs...)
	require.NoError(t, err)
	return r
}

func TestResolveRegistered(t *testing.T) {
	r, err := New(eager(page.Dashboard, "dash"), lazy(page.Analytics, "charts"))
	require.NoError(t, err)

	d, fellBack := r.Resolve(page.Analytics)
	require.False(t, fellBack)
	require.Equal(t, page.Analytics, d.ID)
	require.Equal(t, Lazy, d.Mode)
	require.Equal(t, "loading charts", d.Fallback.Render(10, 1))
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := mustNew(t, eager(page.Dashboard, "dash"))

	d, fellBack := r.Resolve(page.Wallet)
	require.True(t, fellBack)
	require.Equal(t, page.Dashboard, d.ID)
	require.Equal(t, "dash", d.New().Render(0, 0))

	d, fellBack = r.Resolve(page.ID(99))
	require.True(t, fellBack)
	require.Equal(t, page.Dashboard, d.ID)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := mustNew(t, eager(page.Dashboard, "dash"))
	for i := 0; i < 3; i++ {
		d, _ := r.Resolve(page.Goals)
		require.Equal(t, page.Dashboard, d.ID)
	}
}

func TestNewRejectsBadDescriptors(t *testing.T) {
	cases := map[string][]Descriptor{
		"missing default": {eager(page.Wallet, "w")},
		"duplicate":       {eager(page.Dashboard, "a"), eager(page.Dashboard, "b")},
		"eager no ctor":   {eager(page.Dashboard, "a"), {ID: page.Wallet, Mode: Eager}},
		"lazy no fallback": {eager(page.Dashboard, "a"), {ID: page.Goals, Mode: Lazy, Load: func(context.Context) (View, error) {
			return nil, nil
		}}},
		"lazy no loader": {eager(page.Dashboard, "a"), {ID: page.Goals, Mode: Lazy, Fallback: text("x")}},
		"invalid page":   {eager(page.Dashboard, "a"), eager(page.ID(50), "x")},
		"bad mode":       {eager(page.Dashboard, "a"), {ID: page.Budget, Mode: LoadMode(7), New: func() View { return text("") }}},
	}
	for name, descs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(descs...)
			require.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestMissing(t *testing.T) {
	r := mustNew(t, eager(page.Dashboard, "d"), eager(page.Profile, "p"))
	require.Len(t, r.Missing(), page.Count-2)
	require.True(t, r.Registered(page.Profile))
	require.False(t, r.Registered(page.Goals))
}
