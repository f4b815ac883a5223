package apperror

import "errors"

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")

	ErrMalformedMove  = errors.New("malformed move")
	ErrMoveOutOfRange = errors.New("move is out of range")
	ErrInputClosed    = errors.New("input closed")
)
