package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"plain date", `"2024-01-05"`, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false},
		{"padded", `" 2024-01-05 "`, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 keeps written date", `"2024-01-05T23:30:00+09:00"`, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 utc", `"2024-02-29T08:00:00Z"`, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"trailing junk", `"2024-01-05-junk-xyz"`, time.Time{}, true},
		{"broken timestamp", `"2024-01-05T99:99:99nonsense"`, time.Time{}, true},
		{"impossible day", `"2024-02-30"`, time.Time{}, true},
		{"words", `"tomorrow"`, time.Time{}, true},
		{"number", `20240105`, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Date{Time: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-09"`, string(b))
}
