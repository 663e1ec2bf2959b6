package youtube

import (
	"math"
	"testing"
)

func TestParseSubscriberCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.5M subscribers", 1500000},
		{"1.2K", 1200},
		{"12,345 subscribers", 12345},
		{"3B", 3000000000},
		{"987", 987},
		{"no subscribers", 0},
		{"", 0},
		{"99999999999999999999", math.MaxInt64},
		{"9999999999999B", math.MaxInt64},
	}
	for _, tt := range tests {
		if got := ParseSubscriberCount(tt.in); got != tt.want {
			t.Errorf("ParseSubscriberCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
