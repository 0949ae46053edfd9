// Command botmatch runs an all-AI exhibition game in the terminal. Useful
// for eyeballing the policy and for tuning the strategy profiles.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/pterm/pterm"

	"lexio/internal/app"
	"lexio/internal/bot"
	"lexio/internal/domain"
)

func main() {
	seats := flag.Int("seats", 4, "number of AI seats (3-5)")
	rounds := flag.Int("rounds", 1, "rounds to play")
	seed := flag.Int64("seed", 0, "rng seed, 0 for random")
	flag.Parse()

	if *seats < 3 || *seats > 5 {
		pterm.Error.Println("seats must be between 3 and 5")
		os.Exit(1)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}
	svc := app.NewService(rng)

	game := domain.NewGame()
	for i := 0; i < *seats; i++ {
		identity := bot.IdentityAt(i)
		game.Players = append(game.Players, &domain.Player{
			ID:     identity.ID,
			Name:   identity.DisplayName,
			IsAI:   true,
			Active: true,
		})
	}

	pterm.DefaultHeader.Printfln("Lexio exhibition: %d AI seats, %d round(s)", *seats, *rounds)

	for round := 0; round < *rounds; round++ {
		if _, err := svc.StartRound(game); err != nil {
			pterm.Error.Printfln("start round: %v", err)
			os.Exit(1)
		}
		if _, err := svc.RunAIChain(game); err != nil {
			pterm.Error.Printfln("round aborted: %v", err)
			os.Exit(1)
		}

		pterm.DefaultSection.Printfln("Round %d", game.Round)
		for _, line := range game.Log {
			pterm.Println(line)
		}
		game.Log = nil
		printScores(game)
	}
}

func printScores(game *domain.Game) {
	rows := pterm.TableData{{"Seat", "Player", "Score"}}
	for i, p := range game.Players {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			p.Name,
			fmt.Sprintf("%d", p.Score),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Printfln("render scores: %v", err)
	}
}
