package arena

import "fmt"

// Tally aggregates episode outcomes by original player identity
type Tally struct {
	FirstPlayerWins  int `json:"first_player_wins"`
	SecondPlayerWins int `json:"second_player_wins"`
	Draws            int `json:"draws"`
	// Faults counts faulted episodes, each of them is also present in one of the buckets above
	Faults int `json:"faults"`
}

// Total returns the number of tallied episodes
func (t Tally) Total() int {
	return t.FirstPlayerWins + t.SecondPlayerWins + t.Draws
}

// Record tallies one outcome. swapped is true when player two sat on seat +1,
// in which case a seat -1 win belongs to player one.
func (t *Tally) Record(outcome Outcome, swapped bool) {
	if swapped {
		outcome = -outcome
	}

	switch outcome {
	case FirstSeatWon:
		t.FirstPlayerWins++
	case SecondSeatWon:
		t.SecondPlayerWins++
	default:
		t.Draws++
	}
}

// String returns the string representation of a Tally
func (t Tally) String() string {
	return fmt.Sprintf("(%d, %d, %d)", t.FirstPlayerWins, t.SecondPlayerWins, t.Draws)
}
