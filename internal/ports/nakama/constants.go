package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameLexio is the authoritative match handler name registered with Nakama.
	MatchNameLexio = "lexio_match"

	// MaxSeats is the table capacity; Lexio plays with 3 to 5 seats.
	MaxSeats = 5
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound int64 = 1
	OpPlayCards  int64 = 2
	OpPassTurn   int64 = 3

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpRoundStarted int64 = 103
	OpHandDealt    int64 = 104 // send privately
	OpCardsPlayed  int64 = 105
	OpTurnPassed   int64 = 106
	OpPileCleared  int64 = 107
	OpRoundEnded   int64 = 108
	OpMatchState   int64 = 109
	OpGameError    int64 = 110
)
