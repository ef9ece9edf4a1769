package quiz

import "time"

const (
	// FlatPoints is the fixed award for a correct answer under flat scoring.
	FlatPoints = 10
	// MinTimedPoints is the floor award for a correct timed answer.
	MinTimedPoints = 1
)

// ScoringPolicy maps a submission outcome to points. Implementations
// must be pure: no clocks, no room state.
type ScoringPolicy interface {
	Award(correct bool, remaining, roundDuration time.Duration) int
}

// FlatScoring awards a fixed number of points for a correct answer.
type FlatScoring struct {
	Points int
}

func (p FlatScoring) Award(correct bool, _, _ time.Duration) int {
	if !correct {
		return 0
	}
	if p.Points > 0 {
		return p.Points
	}
	return FlatPoints
}

// TimeDecayScoring awards the whole seconds left on the round clock,
// clamped to [Min, roundDuration]. Submissions processed after the
// deadline never reach the policy; they are handled as zero-point
// non-answers by the room.
type TimeDecayScoring struct {
	Min int
}

func (p TimeDecayScoring) Award(correct bool, remaining, roundDuration time.Duration) int {
	if !correct {
		return 0
	}
	if remaining < 0 {
		remaining = 0
	}
	if roundDuration > 0 && remaining > roundDuration {
		remaining = roundDuration
	}
	points := int(remaining / time.Second)
	floor := p.Min
	if floor <= 0 {
		floor = MinTimedPoints
	}
	if points < floor {
		points = floor
	}
	return points
}
