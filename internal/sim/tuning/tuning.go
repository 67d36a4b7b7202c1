package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`

	// Batches larger than this write their output to the command log.
	BatchLogThreshold int `yaml:"batch_log_threshold"`
	// Pending target requests expire after this many ticks (0 = never).
	TargetTimeoutTicks int `yaml:"target_timeout_ticks"`
	SpatialCellSize    int `yaml:"spatial_cell_size"`
	OutboxSize         int `yaml:"outbox_size"`

	Picker Picker `yaml:"picker"`

	DefaultAccessLevel string `yaml:"default_access_level"`
	// Operators maps a HELLO token to an access level name.
	Operators map[string]string `yaml:"operators"`
}

type Picker struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         5,
		BatchLogThreshold:  20,
		TargetTimeoutTicks: 0,
		SpatialCellSize:    16,
		OutboxSize:         256,
		Picker:             Picker{Columns: 2, Rows: 5},
		DefaultAccessLevel: "PLAYER",
	}
}

// Load reads path over Defaults; keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be > 0")
	}
	if t.BatchLogThreshold < 0 {
		return fmt.Errorf("batch_log_threshold must be >= 0")
	}
	if t.TargetTimeoutTicks < 0 {
		return fmt.Errorf("target_timeout_ticks must be >= 0")
	}
	if t.Picker.Columns <= 0 || t.Picker.Rows <= 0 {
		return fmt.Errorf("picker columns/rows must be > 0")
	}
	return nil
}
