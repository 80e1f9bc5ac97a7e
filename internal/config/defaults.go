package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Width:  288,
			Height: 512,
		},
		Bird: BirdConfig{
			JumpVelocity:     10.5,
			Gravity:          1,
			TerminalVelocity: 12,
			TiltUp:           20,
			TiltStep:         10,
			TiltDelay:        15,
			MinTilt:          -90,
			MaxTilt:          30,
			FlapRate:         5,
			Color:            "yellow",
		},
		Pipe: PipeConfig{
			Gap:         135,
			Velocity:    5,
			Interval:    215,
			Count:       2,
			MinGapRatio: 0.3,
			MaxGapRatio: 0.7,
			Color:       "green",
		},
		Base: BaseConfig{
			Velocity: 5,
		},
		Fitness: FitnessConfig{
			SurviveBonus:     0.1,
			PassBonus:        5,
			BaseCrashPenalty: 10,
			SkyCrashPenalty:  10,
			PipeCrashPenalty: 1,
		},
		Session: SessionConfig{
			TickRate: 30,
			ScoreCap: 1000,
		},
		Training: TrainingConfig{
			Population:     50,
			Generations:    20,
			Hidden:         6,
			Elite:          2,
			TournamentSize: 3,
			MutationRate:   0.2,
			MutationSigma:  0.5,
			WeightLimit:    30,
			Threshold:      0.5,
			Workers:        1,
		},
		Assets: AssetsConfig{
			BirdWidth:  34,
			BirdHeight: 24,
			PipeWidth:  52,
			PipeHeight: 320,
			BaseWidth:  336,
			BaseHeight: 112,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
