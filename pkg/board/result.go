package board

// Outcome represents the top-level result of a game, if decided.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// Win returns the Outcome in which the given color has won.
func Win(c Color) Outcome {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Loss returns the Outcome in which the given color has lost.
func Loss(c Color) Outcome {
	return Win(c.Opponent())
}

func (o Outcome) String() string {
	switch o {
	case Undecided:
		return "*"
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "?"
	}
}

// Reason qualifies why a game reached its Outcome.
type Reason uint8

const (
	None Reason = iota
	Checkmate
	Stalemate
	Repetition3
	Repetition5
	NoProgress
	InsufficientMaterial
)

func (r Reason) String() string {
	switch r {
	case None:
		return "in progress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Repetition3:
		return "threefold repetition"
	case Repetition5:
		return "fivefold repetition"
	case NoProgress:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "?"
	}
}

// Result represents the result of a game, if any, along with the reason it was adjudicated.
type Result struct {
	Outcome Outcome
	Reason  Reason
}

func (r Result) String() string {
	if r.Outcome == Undecided {
		return r.Outcome.String()
	}
	return r.Outcome.String() + " (" + r.Reason.String() + ")"
}
