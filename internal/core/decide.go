package core

import "fmt"

// Decision is the per-agent, per-tick control signal.
type Decision uint8

const (
	NoJump Decision = iota // Let gravity act
	Jump                   // Flap
)

// String returns a human-readable name for the decision.
func (d Decision) String() string {
	switch d {
	case NoJump:
		return "NoJump"
	case Jump:
		return "Jump"
	default:
		return fmt.Sprintf("Decision(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the two defined decisions.
func (d Decision) Valid() bool {
	return d == NoJump || d == Jump
}

// ObservationSize is the number of inputs a decision function receives.
const ObservationSize = 3

// Observation is the per-agent input vector handed to a decision function.
//
// The layout is fixed because trained networks depend on it:
//
//	[0] agent centre height:  y + height/2
//	[1] distance to upper pipe: next.upperY - y            (signed)
//	[2] distance to lower pipe: (y + height) - next.lowerY (signed)
//
// "next" is the nearest obstacle whose trailing edge is still ahead of the
// agent. Screen space is used throughout, so smaller y is higher up.
type Observation [ObservationSize]float64

// Slice returns the observation as a freshly allocated slice.
func (o Observation) Slice() []float64 {
	out := make([]float64, ObservationSize)
	copy(out, o[:])
	return out
}

// Decider turns an observation into a control decision.
// Implementations must be deterministic for reproducible sessions.
type Decider interface {
	Decide(obs Observation) Decision
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(obs Observation) Decision

// Decide calls f(obs).
func (f DeciderFunc) Decide(obs Observation) Decision {
	return f(obs)
}
