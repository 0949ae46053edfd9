package bot

import (
	botinternal "lexio/internal/bot/internal"
	"lexio/internal/domain"
)

// Strategy names a phase-and-standing play style.
type Strategy string

const (
	StrategyAggressiveFinish Strategy = "aggressive_finish"
	StrategyDesperateCatchUp Strategy = "desperate_catch_up"
	StrategyMaintainLead     Strategy = "maintain_lead"
	StrategyCatchUp          Strategy = "catch_up"
	StrategyBalanced         Strategy = "balanced"
	StrategyPowerPlay        Strategy = "power_play"
	StrategyComboSetup       Strategy = "combo_setup"
	StrategyConservative     Strategy = "conservative"
)

// SelectStrategy applies the fixed decision table: endgame and midgame
// pick by standing, earlygame by hand composition.
func SelectStrategy(sit botinternal.Situation, hand []domain.Card) Strategy {
	switch sit.Phase {
	case botinternal.PhaseEnd:
		if sit.Winning {
			return StrategyAggressiveFinish
		}
		return StrategyDesperateCatchUp
	case botinternal.PhaseMid:
		if sit.Winning {
			return StrategyMaintainLead
		}
		if sit.Behind {
			return StrategyCatchUp
		}
		return StrategyBalanced
	default:
		return earlyGameStrategy(hand)
	}
}

// earlyGameStrategy inspects the hand's composition: holding several 2s
// invites power plays, flush material or multiple pairs rewards setup,
// anything else plays it safe.
func earlyGameStrategy(hand []domain.Card) Strategy {
	twos := 0
	suitCounts := make(map[domain.Suit]int, 4)
	rankCounts := make(map[domain.Rank]int)
	for _, c := range hand {
		if c.Rank == 2 {
			twos++
		}
		suitCounts[c.Suit]++
		rankCounts[c.Rank]++
	}

	if twos >= 2 {
		return StrategyPowerPlay
	}

	pairs := 0
	for _, n := range rankCounts {
		if n >= 2 {
			pairs++
		}
	}
	for _, n := range suitCounts {
		if n >= 5 {
			return StrategyComboSetup
		}
	}
	if pairs >= 2 {
		return StrategyComboSetup
	}
	return StrategyConservative
}
