package page_test

import (
	"testing"

	"github.com/councl/backend/business/sdk/page"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pg, err := page.Parse("", "")
		require.NoError(t, err)
		require.Equal(t, 0, pg.Offset())
		require.Equal(t, page.MaxLimit, pg.Limit())
	})

	t.Run("explicit values", func(t *testing.T) {
		pg, err := page.Parse("40", "20")
		require.NoError(t, err)
		require.Equal(t, 40, pg.Offset())
		require.Equal(t, 20, pg.Limit())
	})

	t.Run("limit above ceiling is clamped", func(t *testing.T) {
		pg, err := page.Parse("0", "10000")
		require.NoError(t, err)
		require.Equal(t, page.MaxLimit, pg.Limit())
	})

	t.Run("bad values rejected", func(t *testing.T) {
		for _, vals := range [][2]string{
			{"abc", "10"},
			{"0", "abc"},
			{"-1", "10"},
			{"0", "0"},
			{"0", "-5"},
		} {
			_, err := page.Parse(vals[0], vals[1])
			require.Error(t, err, "offset=%q limit=%q", vals[0], vals[1])
		}
	})
}
