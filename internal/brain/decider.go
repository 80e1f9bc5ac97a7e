package brain

import "github.com/vovakirdan/flappy-neat/internal/core"

// DefaultThreshold is the output level above which an agent jumps.
const DefaultThreshold = 0.5

// ThresholdDecider jumps when the network's first output exceeds Threshold.
type ThresholdDecider struct {
	Net       Network
	Threshold float64
}

// NewDecider wraps net with the given threshold.
func NewDecider(net Network, threshold float64) *ThresholdDecider {
	return &ThresholdDecider{Net: net, Threshold: threshold}
}

// Decide implements core.Decider.
func (d *ThresholdDecider) Decide(obs core.Observation) core.Decision {
	out := d.Net.Activate(obs[:])
	if len(out) > 0 && out[0] > d.Threshold {
		return core.Jump
	}
	return core.NoJump
}
