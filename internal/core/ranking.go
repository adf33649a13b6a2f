package core

import "sort"

// Standing is one row of the final result: a player with their rank and the
// difference between their final balance and the session's initial amount.
type Standing struct {
	Rank   int    `json:"rank"`
	Player Player `json:"player"`
	Delta  int64  `json:"delta"`
}

// Standings ranks the session's players by balance, highest first. Players
// with equal balances share a rank; the original seat order breaks display
// ties. The input session is not modified.
func Standings(s *Session) []Standing {
	players := append([]Player(nil), s.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Balance > players[j].Balance
	})

	out := make([]Standing, len(players))
	for i, p := range players {
		rank := i + 1
		if i > 0 && p.Balance == players[i-1].Balance {
			rank = out[i-1].Rank
		}
		out[i] = Standing{
			Rank:   rank,
			Player: p,
			Delta:  p.Balance - s.InitialAmount,
		}
	}
	return out
}
