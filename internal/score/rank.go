package score

// Rank is a cosmetic tier derived from a stats snapshot, recomputed on read
// and never stored.
type Rank string

const (
	RankLegend   Rank = "Legend"
	RankDiamond  Rank = "Diamond"
	RankPlatinum Rank = "Platinum"
	RankGold     Rank = "Gold"
	RankSilver   Rank = "Silver"
	RankBronze   Rank = "Bronze"
	RankRookie   Rank = "Rookie"
)

// Classify maps a snapshot to its tier; the cascade is ordered and the first
// matching row wins.
func Classify(winRate float64, score, wins int) Rank {
	switch {
	case winRate >= 0.8 && score >= 15:
		return RankLegend
	case winRate >= 0.7 && score >= 10:
		return RankDiamond
	case winRate >= 0.6 && score >= 6:
		return RankPlatinum
	case winRate >= 0.5 && score >= 3:
		return RankGold
	case winRate >= 0.4 && score >= 0:
		return RankSilver
	case wins >= 1:
		return RankBronze
	default:
		return RankRookie
	}
}
