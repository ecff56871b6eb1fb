package valuetype_test

import (
	"testing"

	"github.com/councl/backend/business/types/valuetype"
	"github.com/stretchr/testify/require"
)

func Test_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		vt    valuetype.ValueType
		value any
		ok    bool
	}{
		{"string accepts string", valuetype.String, "hello", true},
		{"string rejects number", valuetype.String, 42.0, false},
		{"number accepts json float", valuetype.Number, 42.0, true},
		{"number rejects string", valuetype.Number, "42", false},
		{"boolean accepts bool", valuetype.Boolean, true, true},
		{"boolean rejects string", valuetype.Boolean, "true", false},
		{"date accepts rfc3339", valuetype.Date, "2026-08-31T10:00:00Z", true},
		{"date rejects bare date", valuetype.Date, "2026-08-31", false},
		{"date rejects non string", valuetype.Date, 1234.0, false},
		{"unknown accepts anything", valuetype.Unknown, map[string]any{"a": 1}, true},
		{"none accepts anything", valuetype.None, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.ok, tt.vt.Accepts(tt.value))
		})
	}
}

func Test_Parse(t *testing.T) {
	vt, err := valuetype.Parse("number")
	require.NoError(t, err)
	require.True(t, vt.Equal(valuetype.Number))

	_, err = valuetype.Parse("decimal")
	require.Error(t, err)
}
