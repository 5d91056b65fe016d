package vidnav

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	result := map[string]any{"result": map[string]any{"content": []any{}}}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"string", "ok", map[string]any{"data": "ok"}},
		{"number", float64(3), map[string]any{"data": float64(3)}},
		{"bool", true, map[string]any{"data": true}},
		{"null", nil, map[string]any{"data": nil}},
		{"object", result, result},
		{"array", []any{"a"}, []any{"a"}},
		{"nil map pointer", (*map[string]any)(nil), map[string]any{"data": (*map[string]any)(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, OutputRecord{JSON: tt.want}, Normalize(tt.in))
		})
	}
}

func TestOutputRecordJSON(t *testing.T) {
	data, err := json.Marshal(Normalize("ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"json":{"data":"ok"}}`, string(data))
}
