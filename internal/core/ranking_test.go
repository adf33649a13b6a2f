package core

import "testing"

func TestStandings(t *testing.T) {
	s := &Session{
		InitialAmount: 5000,
		Players: []Player{
			{ID: "p1", Name: "Alice", Balance: 4000},
			{ID: "p2", Name: "Bob", Balance: 7000},
			{ID: "p3", Name: "Carol", Balance: 4000},
		},
	}

	got := Standings(s)
	if len(got) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(got))
	}
	if got[0].Player.ID != "p2" || got[0].Rank != 1 || got[0].Delta != 2000 {
		t.Fatalf("unexpected winner row: %+v", got[0])
	}
	// Alice and Carol tie; seat order breaks display order, rank is shared.
	if got[1].Player.ID != "p1" || got[2].Player.ID != "p3" {
		t.Fatalf("unexpected tie order: %+v %+v", got[1], got[2])
	}
	if got[1].Rank != 2 || got[2].Rank != 2 {
		t.Fatalf("expected shared rank 2, got %d and %d", got[1].Rank, got[2].Rank)
	}
	if got[1].Delta != -1000 {
		t.Fatalf("unexpected delta %d", got[1].Delta)
	}

	// Input order untouched.
	if s.Players[0].ID != "p1" {
		t.Fatalf("Standings mutated the session")
	}
}
