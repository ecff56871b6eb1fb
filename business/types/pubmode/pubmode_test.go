package pubmode_test

import (
	"encoding/json"
	"testing"

	"github.com/councl/backend/business/types/pubmode"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	for _, good := range []string{"false", "true", "onlyPublic"} {
		m, err := pubmode.Parse(good)
		require.NoError(t, err, good)
		require.Equal(t, good, m.String())
	}

	for _, bad := range []string{"", "public", "True"} {
		_, err := pubmode.Parse(bad)
		require.Error(t, err, bad)
	}
}

func Test_MarshalRoundTrip(t *testing.T) {
	t.Run("zero mode marshals as false", func(t *testing.T) {
		var m pubmode.Mode
		data, err := json.Marshal(m)
		require.NoError(t, err)
		require.Equal(t, `"false"`, string(data))
	})

	t.Run("empty value unmarshals as false", func(t *testing.T) {
		var m pubmode.Mode
		require.NoError(t, json.Unmarshal([]byte(`""`), &m))
		require.True(t, m.Equal(pubmode.False))
	})

	t.Run("set modes round trip", func(t *testing.T) {
		for _, mode := range []pubmode.Mode{pubmode.False, pubmode.True, pubmode.OnlyPublic} {
			data, err := json.Marshal(mode)
			require.NoError(t, err)

			var got pubmode.Mode
			require.NoError(t, json.Unmarshal(data, &got))
			require.True(t, got.Equal(mode))
		}
	})
}
