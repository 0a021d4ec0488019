package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		bad   bool
	}{
		{
			name:  "gregorian",
			input: "2024-03-20",
			want:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "jalali latin digits",
			input: "1403/01/01",
			want:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "jalali persian digits",
			input: "۱۴۰۳/۰۱/۰۱",
			want:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "garbage",
			input: "next tuesday",
			bad:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.bad {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
