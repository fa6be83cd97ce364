package platforms_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/ghub-api/platforms"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func ids(list platforms.List) []string {
	out := make([]string, 0, len(list.Platforms))
	for _, p := range list.Platforms {
		out = append(out, p.ID)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := platforms.NewDefaultCatalog(platforms.WithNowTime(func() time.Time { return fixedNow }))

	t.Run("all ordered by priority", func(t *testing.T) {
		all := c.All()
		require.Equal(t, []string{"steam", "epic", "xbox", "playstation"}, ids(all))
		require.Equal(t, 4, all.TotalCount)
		require.Equal(t, fixedNow, all.LastUpdated)
	})

	t.Run("enabled", func(t *testing.T) {
		enabled := c.Enabled()
		require.Equal(t, []string{"steam"}, ids(enabled))
		require.Equal(t, 1, enabled.TotalCount)
	})

	t.Run("available includes coming soon", func(t *testing.T) {
		require.Equal(t, []string{"steam", "epic", "xbox", "playstation"}, ids(c.Available()))
	})

	t.Run("by id", func(t *testing.T) {
		steam, err := c.ByID("steam")
		require.NoError(t, err)
		require.Equal(t, platforms.AuthTypeOpenID, steam.AuthConfig.Type)
		require.False(t, steam.AuthConfig.ClientIDRequired)
		require.Equal(t, "ghub://steam-auth", steam.AuthConfig.RedirectURI)
		require.False(t, steam.Features.Screenshots)
		require.True(t, steam.IsEnabled)

		_, err = c.ByID("origin")
		require.ErrorIs(t, err, platforms.ErrPlatformNotFound)
	})
}

func TestCatalog_OrderAndIsolation(t *testing.T) {
	c := platforms.NewCatalog([]platforms.Platform{
		{ID: "b", Priority: 2, IsEnabled: true, AuthConfig: platforms.AuthConfig{Scopes: []string{"x"}}},
		{ID: "a", Priority: 1},
		{ID: "c", Priority: 3, ComingSoon: true},
	})

	require.Equal(t, []string{"a", "b", "c"}, ids(c.All()))
	require.Equal(t, []string{"b"}, ids(c.Enabled()))
	require.Equal(t, []string{"b", "c"}, ids(c.Available()))

	b, err := c.ByID("b")
	require.NoError(t, err)
	b.AuthConfig.Scopes[0] = "mutated"

	again, err := c.ByID("b")
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, again.AuthConfig.Scopes)
}
