package score

import "testing"

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name    string
		winRate float64
		score   int
		wins    int
		want    Rank
	}{
		{"legend boundary", 0.8, 15, 20, RankLegend},
		{"just below legend rate", 0.79, 15, 20, RankDiamond},
		{"just below legend score", 0.8, 14, 20, RankDiamond},
		{"diamond boundary", 0.7, 10, 7, RankDiamond},
		{"platinum boundary", 0.6, 6, 6, RankPlatinum},
		{"gold boundary", 0.5, 3, 5, RankGold},
		{"silver boundary", 0.4, 0, 4, RankSilver},
		{"silver blocked by negative score", 0.4, -1, 4, RankBronze},
		{"bronze on any win", 0.1, -5, 1, RankBronze},
		{"rookie with losses only", 0, -3, 0, RankRookie},
		{"rookie with no games", 0, 0, 0, RankRookie},
	}
	for _, tc := range cases {
		if got := Classify(tc.winRate, tc.score, tc.wins); got != tc.want {
			t.Fatalf("%s: Classify(%v, %d, %d) = %q, want %q",
				tc.name, tc.winRate, tc.score, tc.wins, got, tc.want)
		}
	}
}

func TestClassifyHighRateLowScore(t *testing.T) {
	// A perfect win rate with a low score must not skip tiers.
	if got := Classify(1.0, 2, 2); got != RankSilver {
		t.Fatalf("expected Silver, got %q", got)
	}
}
