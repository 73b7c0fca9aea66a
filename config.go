package dragon

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config tunes the interaction engine. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	// SnapRadius is the distance, in world units, within which a drag
	// commits to the nearest target state.
	SnapRadius float64 `mapstructure:"snap_radius" yaml:"snap_radius"`
	// ChainDrags enables snapping mid-gesture and continuing from the new
	// state. Without it, targets are only resolved on release.
	ChainDrags bool `mapstructure:"chain_drags" yaml:"chain_drags"`
	// RelativePointerMotion is reserved and currently has no effect.
	RelativePointerMotion bool `mapstructure:"relative_pointer_motion" yaml:"relative_pointer_motion"`
	// AnimationDuration is the release animation length in seconds.
	AnimationDuration float64 `mapstructure:"animation_duration" yaml:"animation_duration"`

	DetachCaptureRadius float64 `mapstructure:"detach_capture_radius" yaml:"detach_capture_radius"`
	SpringFrequency     float64 `mapstructure:"spring_frequency" yaml:"spring_frequency"`
	SpringDamping       float64 `mapstructure:"spring_damping" yaml:"spring_damping"`
	SolverIterations    int     `mapstructure:"solver_iterations" yaml:"solver_iterations"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		SnapRadius:          10,
		ChainDrags:          true,
		AnimationDuration:   0.4,
		DetachCaptureRadius: 50,
		SpringFrequency:     12,
		SpringDamping:       0.8,
		SolverIterations:    100,
	}
}

// ConfigFromMap overlays loosely typed settings (from YAML, flags or an
// ECS component) on DefaultConfig. Unknown keys are an error.
func ConfigFromMap(m map[string]any) (Config, error) {
	cfg := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Config{}, fmt.Errorf("dragon: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.SnapRadius < 0:
		return fmt.Errorf("dragon: config: snap_radius must be >= 0, got %g", c.SnapRadius)
	case c.AnimationDuration < 0:
		return fmt.Errorf("dragon: config: animation_duration must be >= 0, got %g", c.AnimationDuration)
	case c.DetachCaptureRadius < 0:
		return fmt.Errorf("dragon: config: detach_capture_radius must be >= 0, got %g", c.DetachCaptureRadius)
	case c.SpringFrequency <= 0:
		return fmt.Errorf("dragon: config: spring_frequency must be > 0, got %g", c.SpringFrequency)
	case c.SpringDamping < 0:
		return fmt.Errorf("dragon: config: spring_damping must be >= 0, got %g", c.SpringDamping)
	case c.SolverIterations < 1:
		return fmt.Errorf("dragon: config: solver_iterations must be >= 1, got %d", c.SolverIterations)
	}
	return nil
}
