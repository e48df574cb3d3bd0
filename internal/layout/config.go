package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Config holds the tuning parameters of the simulation. They are UX
// defaults, not correctness invariants; every field can be overridden
// from the [layout] section of the config file.
type Config struct {
	LinkDistance   float64 `toml:"link_distance" validate:"gt=0"`
	LinkStrength   float64 `toml:"link_strength" validate:"gte=0"` // 0 selects 1/min(degree)
	LinkIterations int     `toml:"link_iterations" validate:"gte=1"`

	ChargeStrength float64 `toml:"charge_strength"`
	CenterStrength float64 `toml:"center_strength" validate:"gte=0,lte=1"`

	NodeRadius        float64 `toml:"node_radius" validate:"gt=0"`
	CollidePadding    float64 `toml:"collide_padding" validate:"gte=0"`
	CollideIterations int     `toml:"collide_iterations" validate:"gte=1"`
	CollideStrength   float64 `toml:"collide_strength" validate:"gt=0,lte=1"`

	Alpha           float64 `toml:"alpha" validate:"gt=0,lte=1"`
	AlphaMin        float64 `toml:"alpha_min" validate:"gt=0,lt=1"`
	AlphaDecay      float64 `toml:"alpha_decay" validate:"gt=0,lt=1"`
	VelocityDecay   float64 `toml:"velocity_decay" validate:"gte=0,lte=1"`
	DragAlphaTarget float64 `toml:"drag_alpha_target" validate:"gte=0,lte=1"`

	MinDistance   float64 `toml:"min_distance" validate:"gt=0"`
	InitialRadius float64 `toml:"initial_radius" validate:"gt=0"`
	Seed          int64   `toml:"seed"`
}

// DefaultConfig returns the parameters of the original mind map.
func DefaultConfig() Config {
	return Config{
		LinkDistance:   100,
		LinkIterations: 1,

		ChargeStrength: -300,
		CenterStrength: 1,

		NodeRadius:        30,
		CollidePadding:    10,
		CollideIterations: 4,
		CollideStrength:   1,

		Alpha:           1,
		AlphaMin:        0.001,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		VelocityDecay:   0.4,
		DragAlphaTarget: 0.3,

		MinDistance:   1,
		InitialRadius: 10,
		Seed:          1,
	}
}

// CollideDistance is the minimum center distance enforced between nodes.
func (c Config) CollideDistance() float64 {
	return 2 * (c.NodeRadius + c.CollidePadding)
}

// Validate checks every field and reports all violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s", e.Field(), e.Tag(), e.Param()))
	}
	return fmt.Errorf("invalid layout config:\n  %s", strings.Join(msgs, "\n  "))
}
