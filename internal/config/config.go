// Package config provides YAML-based configuration loading and validation
// for the simulation, the training harness and the terminal front end.
package config

// FlappyConfig is the flat, immutable session configuration. Every entity
// receives the values it needs at construction; nothing reads it globally.
type FlappyConfig struct {
	World    WorldConfig    `yaml:"world"`
	Bird     BirdConfig     `yaml:"bird"`
	Pipe     PipeConfig     `yaml:"pipe"`
	Base     BaseConfig     `yaml:"base"`
	Fitness  FitnessConfig  `yaml:"fitness"`
	Session  SessionConfig  `yaml:"session"`
	Training TrainingConfig `yaml:"training"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// WorldConfig defines the logical playfield in pixels.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BirdConfig defines agent physics and animation.
type BirdConfig struct {
	JumpVelocity     float64 `yaml:"jump_velocity"`     // Velocity set by a jump (positive = up)
	Gravity          float64 `yaml:"gravity"`           // Velocity lost per idle tick
	TerminalVelocity float64 `yaml:"terminal_velocity"` // Upper clamp applied before integration
	TiltUp           float64 `yaml:"tilt_up"`           // Tilt after a jump, degrees
	TiltStep         float64 `yaml:"tilt_step"`         // Tilt lost per tick once the delay expires
	TiltDelay        int     `yaml:"tilt_delay"`        // Idle ticks before tilting down
	MinTilt          float64 `yaml:"min_tilt"`          // Nose dive floor
	MaxTilt          float64 `yaml:"max_tilt"`
	FlapRate         int     `yaml:"flap_rate"` // Ticks per animation frame
	Color            string  `yaml:"color"`
}

// PipeConfig defines obstacle geometry and motion.
type PipeConfig struct {
	Gap         int     `yaml:"gap"`      // Vertical opening between halves
	Velocity    float64 `yaml:"velocity"` // Pixels moved left per tick
	Interval    int     `yaml:"interval"` // Horizontal spacing; 0 derives it from the world width
	Count       int     `yaml:"count"`    // Size of the obstacle pool
	FirstX      float64 `yaml:"first_x"`  // Spawn x of the first obstacle; 0 means twice the width
	MinGapRatio float64 `yaml:"min_gap_ratio"`
	MaxGapRatio float64 `yaml:"max_gap_ratio"`
	Color       string  `yaml:"color"`
}

// BaseConfig defines the scrolling ground.
type BaseConfig struct {
	Velocity float64 `yaml:"velocity"`
}

// FitnessConfig defines the reward signal emitted in harness modes.
type FitnessConfig struct {
	SurviveBonus     float64 `yaml:"survive_bonus"`
	PassBonus        float64 `yaml:"pass_bonus"`
	BaseCrashPenalty float64 `yaml:"base_crash_penalty"`
	SkyCrashPenalty  float64 `yaml:"sky_crash_penalty"`
	PipeCrashPenalty float64 `yaml:"pipe_crash_penalty"`
	SurviveInTest    bool    `yaml:"survive_in_test"` // Also award the survive bonus in test mode
}

// SessionConfig defines session lifecycle and pacing.
type SessionConfig struct {
	TickRate int   `yaml:"tick_rate"` // Paced ticks per second when rendering
	ScoreCap int   `yaml:"score_cap"` // 0 disables the cap
	Seed     int64 `yaml:"seed"`      // 0 means pick one at startup
}

// TrainingConfig defines the evolutionary harness.
type TrainingConfig struct {
	Population     int     `yaml:"population"`
	Generations    int     `yaml:"generations"`
	Hidden         int     `yaml:"hidden"` // Hidden layer width of each network
	Elite          int     `yaml:"elite"`  // Genomes copied unchanged into the next generation
	TournamentSize int     `yaml:"tournament_size"`
	MutationRate   float64 `yaml:"mutation_rate"`
	MutationSigma  float64 `yaml:"mutation_sigma"`
	WeightLimit    float64 `yaml:"weight_limit"`
	Threshold      float64 `yaml:"threshold"` // Output above this means jump
	Workers        int     `yaml:"workers"`   // Parallel decision workers per tick
	TelemetryDir   string  `yaml:"telemetry_dir"`
}

// AssetsConfig defines sprite dimensions, or a directory of PNG sprites.
type AssetsConfig struct {
	SpriteDir  string `yaml:"sprite_dir"`
	BirdWidth  int    `yaml:"bird_width"`
	BirdHeight int    `yaml:"bird_height"`
	PipeWidth  int    `yaml:"pipe_width"`
	PipeHeight int    `yaml:"pipe_height"`
	BaseWidth  int    `yaml:"base_width"`
	BaseHeight int    `yaml:"base_height"`
}

// Preset represents a named difficulty adjustment applied before a session.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// PipeInterval returns the configured spacing, or the smallest interval at
// which Count obstacles cover the visible width plus one pipe width.
func (c FlappyConfig) PipeInterval() int {
	if c.Pipe.Interval > 0 {
		return c.Pipe.Interval
	}
	count := max(c.Pipe.Count, 1)
	span := c.World.Width + c.Assets.PipeWidth
	return (span + count - 1) / count
}

// PipeFirstX returns the spawn x of the first obstacle.
func (c FlappyConfig) PipeFirstX() float64 {
	if c.Pipe.FirstX > 0 {
		return c.Pipe.FirstX
	}
	return float64(2 * c.World.Width)
}

// GroundY returns the top edge of the ground strips.
func (c FlappyConfig) GroundY() int {
	return c.World.Height - c.Assets.BaseHeight
}
