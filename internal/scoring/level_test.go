package scoring

import "testing"

func TestLevelOf(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{999, 4},
		{1000, 5},
		{-50, 1},
	}

	for _, tt := range tests {
		if got := LevelOf(tt.xp); got != tt.want {
			t.Errorf("LevelOf(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

// LevelOf must never decrease as XP grows.
func TestLevelOfMonotonic(t *testing.T) {
	prev := LevelOf(0)
	for xp := 1; xp <= 5000; xp++ {
		level := LevelOf(xp)
		if level < prev {
			t.Fatalf("LevelOf(%d) = %d dropped below LevelOf(%d) = %d", xp, level, xp-1, prev)
		}
		prev = level
	}
}

// The cumulative threshold for level L is 50*L*(L-1); LevelOf must agree
// with it exactly at the boundaries.
func TestLevelThresholdConsistency(t *testing.T) {
	for level := 2; level <= 20; level++ {
		threshold := LevelThreshold(level)
		if got := LevelOf(threshold); got != level {
			t.Errorf("LevelOf(%d) = %d, want %d", threshold, got, level)
		}
		if got := LevelOf(threshold - 1); got != level-1 {
			t.Errorf("LevelOf(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}
