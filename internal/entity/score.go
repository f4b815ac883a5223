package entity

// Score tallies finished sessions by result.
type Score struct {
	Wins   int64 `json:"wins"`
	Losses int64 `json:"losses"`
	Draws  int64 `json:"draws"`
}

func (that *Score) Add(result Result, n int64) {
	switch result {
	case Win:
		that.Wins += n
	case Lose:
		that.Losses += n
	case Draw:
		that.Draws += n
	}
}
