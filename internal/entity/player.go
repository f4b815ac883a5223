package entity

// Player tells whose turn is active.
type Player string

const (
	Human    Player = "human"
	Computer Player = "computer"
)

func (that Player) String() string {
	return string(that)
}
