package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"sql datetime", "2023-05-10 08:30:00", "2023-05-10T08:30:00Z", true},
		{"rfc3339", "2023-05-10T08:30:00Z", "2023-05-10T08:30:00Z", true},
		{"rfc3339 with offset", "2023-05-10T10:30:00+02:00", "2023-05-10T08:30:00Z", true},
		{"iso without zone", "2023-05-10T08:30:00", "2023-05-10T08:30:00Z", true},
		{"date only", "2023-05-10", "2023-05-10T00:00:00Z", true},
		{"slash date", "2023/05/10", "2023-05-10T00:00:00Z", true},
		{"year month", "2023-05", "2023-05-01T00:00:00Z", true},
		{"whitespace trimmed", "  2023-05-10  ", "2023-05-10T00:00:00Z", true},
		{"empty", "", "", false},
		{"garbage", "next tuesday", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.want, ToISO(got))
			}
		})
	}
}

func TestMonthBucket(t *testing.T) {
	require.Equal(t, "2023-05", MonthBucket("2023-05-10T08:30:00Z"))
	require.Equal(t, "2021-12", MonthBucket("2021-12-31"))
	require.Equal(t, time.Now().UTC().Format("2006-01"), MonthBucket("not a date"))
}
