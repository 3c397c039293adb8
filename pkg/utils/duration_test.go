package utils

import (
	"testing"
	"time"
)

func TestFormatMinSec(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "zero",
			d:    0,
			want: "0m 0s",
		},
		{
			name: "seconds only",
			d:    42 * time.Second,
			want: "0m 42s",
		},
		{
			name: "minutes and seconds",
			d:    5*time.Minute + 1*time.Second,
			want: "5m 1s",
		},
		{
			name: "sub-second truncated",
			d:    1500 * time.Millisecond,
			want: "0m 1s",
		},
		{
			name: "negative clamped",
			d:    -3 * time.Second,
			want: "0m 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMinSec(tt.d); got != tt.want {
				t.Errorf("FormatMinSec(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
