package bot

import (
	"testing"

	botinternal "lexio/internal/bot/internal"
	"lexio/internal/domain"
)

func TestSelectStrategyTable(t *testing.T) {
	tests := []struct {
		name string
		sit  botinternal.Situation
		want Strategy
	}{
		{"endgame winning", botinternal.Situation{Phase: botinternal.PhaseEnd, Winning: true}, StrategyAggressiveFinish},
		{"endgame trailing", botinternal.Situation{Phase: botinternal.PhaseEnd}, StrategyDesperateCatchUp},
		{"midgame winning", botinternal.Situation{Phase: botinternal.PhaseMid, Winning: true}, StrategyMaintainLead},
		{"midgame behind", botinternal.Situation{Phase: botinternal.PhaseMid, Behind: true}, StrategyCatchUp},
		{"midgame middle", botinternal.Situation{Phase: botinternal.PhaseMid}, StrategyBalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectStrategy(tt.sit, nil); got != tt.want {
				t.Errorf("SelectStrategy = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEarlyGameStrategyByComposition(t *testing.T) {
	early := botinternal.Situation{Phase: botinternal.PhaseEarly}

	twos := []domain.Card{
		{Suit: domain.SuitCloud, Rank: 2},
		{Suit: domain.SuitStar, Rank: 2},
		{Suit: domain.SuitMoon, Rank: 5},
		{Suit: domain.SuitSun, Rank: 7},
		{Suit: domain.SuitCloud, Rank: 9},
		{Suit: domain.SuitStar, Rank: 10},
		{Suit: domain.SuitMoon, Rank: 11},
		{Suit: domain.SuitSun, Rank: 12},
	}
	if got := SelectStrategy(early, twos); got != StrategyPowerPlay {
		t.Errorf("two 2s: %s, want %s", got, StrategyPowerPlay)
	}

	flushy := []domain.Card{
		{Suit: domain.SuitMoon, Rank: 3},
		{Suit: domain.SuitMoon, Rank: 5},
		{Suit: domain.SuitMoon, Rank: 7},
		{Suit: domain.SuitMoon, Rank: 9},
		{Suit: domain.SuitMoon, Rank: 11},
		{Suit: domain.SuitCloud, Rank: 4},
		{Suit: domain.SuitStar, Rank: 6},
		{Suit: domain.SuitSun, Rank: 8},
	}
	if got := SelectStrategy(early, flushy); got != StrategyComboSetup {
		t.Errorf("five of one suit: %s, want %s", got, StrategyComboSetup)
	}

	paired := []domain.Card{
		{Suit: domain.SuitCloud, Rank: 4},
		{Suit: domain.SuitStar, Rank: 4},
		{Suit: domain.SuitMoon, Rank: 8},
		{Suit: domain.SuitSun, Rank: 8},
		{Suit: domain.SuitCloud, Rank: 6},
		{Suit: domain.SuitStar, Rank: 9},
		{Suit: domain.SuitMoon, Rank: 11},
		{Suit: domain.SuitSun, Rank: 13},
	}
	if got := SelectStrategy(early, paired); got != StrategyComboSetup {
		t.Errorf("two pairs: %s, want %s", got, StrategyComboSetup)
	}

	plain := []domain.Card{
		{Suit: domain.SuitCloud, Rank: 4},
		{Suit: domain.SuitStar, Rank: 5},
		{Suit: domain.SuitMoon, Rank: 6},
		{Suit: domain.SuitSun, Rank: 7},
		{Suit: domain.SuitCloud, Rank: 9},
		{Suit: domain.SuitStar, Rank: 10},
		{Suit: domain.SuitMoon, Rank: 12},
		{Suit: domain.SuitSun, Rank: 13},
	}
	if got := SelectStrategy(early, plain); got != StrategyConservative {
		t.Errorf("plain hand: %s, want %s", got, StrategyConservative)
	}
}

func TestProfileForUnknownFallsBackToBalanced(t *testing.T) {
	if got := profileFor(Strategy("nonsense")); got.PassChance != strategyProfiles[StrategyBalanced].PassChance {
		t.Errorf("unknown strategy should use the balanced profile")
	}
}
