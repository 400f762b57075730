package game

// Side identifies one edge of the board. North and South paddles slide
// along the x axis, East and West paddles along the y axis.
type Side int

const (
	North Side = iota
	South
	East
	West
)

const NumSides = 4

// SideNone marks the absence of a side, e.g. a ball nobody has touched yet.
const SideNone Side = -1

var Sides = [NumSides]Side{North, South, East, West}

func (s Side) String() string {
	switch s {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "none"
	}
}

// SideByName parses the wire/REST name of a side.
func SideByName(name string) (Side, bool) {
	switch name {
	case "north":
		return North, true
	case "south":
		return South, true
	case "east":
		return East, true
	case "west":
		return West, true
	default:
		return SideNone, false
	}
}

// Opposite returns the edge across the board.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return SideNone
	}
}

// Horizontal reports whether the side's paddle slides along the x axis.
func (s Side) Horizontal() bool {
	return s == North || s == South
}
