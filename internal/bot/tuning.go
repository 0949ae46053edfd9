package bot

import botinternal "lexio/internal/bot/internal"

// strategyProfile tunes how a strategy behaves once selected.
// PassChance is the probability of a voluntary pass when legal responses
// exist; RandomPick is the probability of playing a random candidate
// instead of the weakest one; Opening lists the preferred lead families
// in search order.
type strategyProfile struct {
	PassChance float64
	RandomPick float64
	Opening    []botinternal.Family
}

var strategyProfiles = map[Strategy]strategyProfile{
	StrategyAggressiveFinish: {
		PassChance: 0,
		RandomPick: 0,
		Opening:    []botinternal.Family{botinternal.FamilyFlush, botinternal.FamilyTriple, botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyDesperateCatchUp: {
		PassChance: 0,
		RandomPick: 0.30,
		Opening:    []botinternal.Family{botinternal.FamilyFlush, botinternal.FamilyTriple, botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyMaintainLead: {
		PassChance: 0.15,
		RandomPick: 0,
		Opening:    []botinternal.Family{botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyCatchUp: {
		PassChance: 0,
		RandomPick: 0.10,
		Opening:    []botinternal.Family{botinternal.FamilyTriple, botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyBalanced: {
		PassChance: 0.10,
		RandomPick: 0.10,
		Opening:    []botinternal.Family{botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyPowerPlay: {
		PassChance: 0.05,
		RandomPick: 0.15,
		Opening:    []botinternal.Family{botinternal.FamilyTriple, botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyComboSetup: {
		PassChance: 0.20,
		RandomPick: 0,
		Opening:    []botinternal.Family{botinternal.FamilyFlush, botinternal.FamilyPair, botinternal.FamilySingle},
	},
	StrategyConservative: {
		PassChance: 0.25,
		RandomPick: 0,
		Opening:    []botinternal.Family{botinternal.FamilySingle},
	},
}

func profileFor(s Strategy) strategyProfile {
	if p, ok := strategyProfiles[s]; ok {
		return p
	}
	return strategyProfiles[StrategyBalanced]
}
