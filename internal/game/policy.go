package game

// ScorePolicy decides who is credited when the ball exits across goal's
// boundary. lastTouch is the side that last hit the ball, or SideNone.
type ScorePolicy interface {
	Score(scores *[NumSides]uint16, goal Side, occupied [NumSides]bool, lastTouch Side)
}

// FreeForAll credits every other occupied side with a point.
type FreeForAll struct{}

func (FreeForAll) Score(scores *[NumSides]uint16, goal Side, occupied [NumSides]bool, _ Side) {
	for _, s := range Sides {
		if s != goal && occupied[s] {
			scores[s]++
		}
	}
}

// Teams credits the side directly across the board from the conceding
// goal, for paired play where each side duels its opposite.
type Teams struct{}

func (Teams) Score(scores *[NumSides]uint16, goal Side, occupied [NumSides]bool, _ Side) {
	partner := goal.Opposite()
	if occupied[partner] {
		scores[partner]++
	}
}

// LastTouch credits only the player who last touched the ball, and only
// when the goal was not their own edge. A ball nobody touched scores for
// no one.
type LastTouch struct{}

func (LastTouch) Score(scores *[NumSides]uint16, goal Side, occupied [NumSides]bool, lastTouch Side) {
	if lastTouch == SideNone || lastTouch == goal {
		return
	}
	if occupied[lastTouch] {
		scores[lastTouch]++
	}
}

// PolicyByName maps a config value to a policy, defaulting to free-for-all.
func PolicyByName(name string) ScorePolicy {
	switch name {
	case "teams":
		return Teams{}
	case "lasttouch":
		return LastTouch{}
	default:
		return FreeForAll{}
	}
}
