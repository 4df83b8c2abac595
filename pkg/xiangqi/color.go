package xiangqi

// Side represents the playing side: Red (moves first) or Black.
type Side uint8

const (
	Red Side = iota
	Black
)

const (
	ZeroSide Side = 0
	NumSides Side = 2
)

func (s Side) Opponent() Side {
	if s == Red {
		return Black
	}
	return Red
}

func (s Side) String() string {
	switch s {
	case Red:
		return "w"
	case Black:
		return "b"
	default:
		return "?"
	}
}
