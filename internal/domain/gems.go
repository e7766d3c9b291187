package domain

// Gem reward constants
const (
	BaseTradeGems      = 1
	StreakBonusMin     = 3
	MilestoneTenGems   = 10
	MilestoneFiveGems  = 5
	milestoneTenEvery  = 10
	milestoneFiveEvery = 5
)

// GemsForTrade returns the reward for a completed trade.
// streak and totalTrades must already include the trade being rewarded.
func GemsForTrade(streak, totalTrades int) int {
	gems := BaseTradeGems
	if streak >= StreakBonusMin {
		gems += streak
	}
	switch {
	case totalTrades%milestoneTenEvery == 0:
		gems += MilestoneTenGems
	case totalTrades%milestoneFiveEvery == 0:
		gems += MilestoneFiveGems
	}
	return gems
}
