package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePath_RejectsInvalidExpression(t *testing.T) {
	_, err := CompilePath(".foo[")
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompilePath("..[") })
}

func TestPath_Lookup(t *testing.T) {
	record := map[string]any{
		"flight":     map[string]any{"iata": "DL8696"},
		"aircraft":   nil,
		"num_blades": float64(0),
		"name":       "Delta",
	}

	tests := []struct {
		expr   string
		want   any
		wantOK bool
	}{
		{".flight.iata", "DL8696", true},
		{".num_blades", float64(0), true},
		{".aircraft.model", nil, false}, // null parent
		{".missing", nil, false},
		{".name.first", nil, false}, // indexing a string is an error
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := CompilePath(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.String())

			got, ok := p.Lookup(record)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
