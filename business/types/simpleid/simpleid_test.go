package simpleid_test

import (
	"testing"

	"github.com/councl/backend/business/types/simpleid"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	for _, good := range []string{"contact-form", "Survey_2026", "a"} {
		id, err := simpleid.Parse(good)
		require.NoError(t, err, good)
		require.Equal(t, good, id.String())
	}

	for _, bad := range []string{"", "has space", "slash/id", "dot.id", "naïve"} {
		_, err := simpleid.Parse(bad)
		require.Error(t, err, bad)
	}
}
