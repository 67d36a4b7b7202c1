// Package scenario loads the foundations and placed items a world starts with.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

// MaxExtent caps the width and depth of a foundation's footprint and bounds.
const MaxExtent = 256

type Scenario struct {
	Foundations []FoundationSpec `yaml:"foundations"`
	Items       []ItemSpec       `yaml:"items"`
}

type FoundationSpec struct {
	ID     string `yaml:"id"`
	Origin [3]int `yaml:"origin"`
	// Footprint defaults to Bounds when omitted.
	Footprint    *RectSpec `yaml:"footprint,omitempty"`
	Bounds       RectSpec  `yaml:"bounds"`
	SignTypeID   int       `yaml:"sign_type_id"`
	Customizable *bool     `yaml:"customizable,omitempty"`
}

type RectSpec struct {
	Min [2]int `yaml:"min"`
	Max [2]int `yaml:"max"`
}

func (r RectSpec) Rect() modelpkg.Rect {
	return modelpkg.Rect{
		Min: modelpkg.Point2{X: r.Min[0], Y: r.Min[1]},
		Max: modelpkg.Point2{X: r.Max[0], Y: r.Max[1]},
	}
}

type ItemSpec struct {
	ID     string `yaml:"id,omitempty"`
	TypeID int    `yaml:"type_id"`
	Hue    int    `yaml:"hue,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
	Pos    [3]int `yaml:"pos"`
	Parent string `yaml:"parent,omitempty"`
}

func Load(path string) (Scenario, error) {
	var s Scenario
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("scenario.yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("scenario.yaml: %w", err)
	}
	return s, nil
}

func (s Scenario) Validate() error {
	seen := map[string]bool{}
	for i, f := range s.Foundations {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			return fmt.Errorf("foundations[%d]: missing id", i)
		}
		if seen[id] {
			return fmt.Errorf("foundations[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		if err := checkRect(f.Bounds); err != nil {
			return fmt.Errorf("foundation %s: bounds: %w", id, err)
		}
		if f.Footprint != nil {
			if err := checkRect(*f.Footprint); err != nil {
				return fmt.Errorf("foundation %s: footprint: %w", id, err)
			}
		}
	}
	items := map[string]bool{}
	for i, it := range s.Items {
		if _, ok := modelpkg.ParseItemKind(it.Kind); !ok {
			return fmt.Errorf("items[%d]: unknown kind %q", i, it.Kind)
		}
		if it.ID != "" {
			if items[it.ID] {
				return fmt.Errorf("items[%d]: duplicate id %q", i, it.ID)
			}
			items[it.ID] = true
		}
	}
	return nil
}

func checkRect(r RectSpec) error {
	rect := r.Rect()
	if rect.Empty() {
		return errors.New("empty")
	}
	w, d := rect.Max.X-rect.Min.X+1, rect.Max.Y-rect.Min.Y+1
	if w > MaxExtent || d > MaxExtent {
		return fmt.Errorf("%dx%d exceeds %d", w, d, MaxExtent)
	}
	return nil
}

// Foundation builds the model for f. Customizable foundations start with empty
// live and pending layouts sharing the same bounds.
func (f FoundationSpec) Foundation() *modelpkg.Foundation {
	bounds := f.Bounds.Rect()
	footprint := bounds
	if f.Footprint != nil {
		footprint = f.Footprint.Rect()
	}
	out := &modelpkg.Foundation{
		ID:         strings.TrimSpace(f.ID),
		Origin:     modelpkg.Vec3i{X: f.Origin[0], Y: f.Origin[1], Z: f.Origin[2]},
		Footprint:  footprint,
		SignTypeID: f.SignTypeID,
		Current:    modelpkg.NewDesignState(bounds),
	}
	if f.Customizable == nil || *f.Customizable {
		out.Design = modelpkg.NewDesignState(bounds)
	}
	return out
}

// Item builds the model for it. The id is left empty when unset so the world
// can assign one.
func (it ItemSpec) Item() *modelpkg.Item {
	kind, _ := modelpkg.ParseItemKind(it.Kind)
	return &modelpkg.Item{
		ID:     strings.TrimSpace(it.ID),
		TypeID: it.TypeID,
		Hue:    it.Hue,
		Kind:   kind,
		Pos:    modelpkg.Vec3i{X: it.Pos[0], Y: it.Pos[1], Z: it.Pos[2]},
		Parent: it.Parent,
	}
}
