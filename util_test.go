package panelflow

import "testing"

func TestClampInt(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{50, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0.5, 0, 1, 0, 100); got != 50 {
		t.Errorf("Lerp midpoint = %v, want 50", got)
	}
	if got := Lerp(-1, 0, 1, 0, 100); got != 0 {
		t.Errorf("Lerp below range should clamp, got %v", got)
	}
	if got := Lerp(5, 0, 1, 0, 100); got != 100 {
		t.Errorf("Lerp above range should clamp, got %v", got)
	}
}
