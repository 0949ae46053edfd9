package bot

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	botinternal "lexio/internal/bot/internal"
	"lexio/internal/domain"
)

// StandardBrain is the default Lexio policy: phase- and standing-aware
// strategy selection over the shared move generator.
type StandardBrain struct {
	rng *rand.Rand
}

// NewStandardBrain constructs the policy with the provided rng or a
// time-seeded default. A seeded rng makes decisions reproducible.
func NewStandardBrain(rng *rand.Rand) *StandardBrain {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StandardBrain{rng: rng}
}

// CalculateMove produces a legal move or a pass for the given seat.
func (b *StandardBrain) CalculateMove(g *domain.Game, seat int) (Move, error) {
	if seat < 0 || seat >= len(g.Players) {
		return Move{}, fmt.Errorf("no player at seat %d", seat)
	}
	player := g.Players[seat]
	if len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	sit := botinternal.Assess(g, seat)
	strategy := SelectStrategy(sit, player.Hand)
	profile := profileFor(strategy)

	if g.Pile == nil {
		cand := botinternal.OpeningMove(player.Hand, profile.Opening, g.MaxRank)
		return Move{Cards: cand.Cards}, nil
	}

	candidates := botinternal.BeatingMoves(player.Hand, g.Pile.Hand, g.MaxRank)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	// Voluntary pass is a legitimate decision, not an error path.
	if profile.PassChance > 0 && b.rng.Float64() < profile.PassChance {
		return Move{Pass: true}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return domain.CompareHands(candidates[i].Hand, candidates[j].Hand) < 0
	})

	pick := 0
	if profile.RandomPick > 0 && b.rng.Float64() < profile.RandomPick {
		pick = b.rng.Intn(len(candidates))
	}
	return Move{Cards: candidates[pick].Cards}, nil
}
