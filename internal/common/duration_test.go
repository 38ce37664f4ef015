package common

import (
	"testing"
	"time"
)

func TestDurationUnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"45s", 45 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"0s", 0, false},
		{"soon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalText([]byte(tt.input))
		if tt.wantErr {
			if err == nil {
				t.Errorf("UnmarshalText(%q) accepted an invalid duration", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", tt.input, err)
			continue
		}
		if d.Std() != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.input, d.Std(), tt.want)
		}
	}
}
