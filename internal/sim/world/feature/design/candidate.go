package design

import (
	"fmt"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

// Candidate is one entry of a pre-selected list. Item is nil when Ref did not
// resolve to an item in the world.
type Candidate struct {
	Ref  string
	Item *modelpkg.Item
}

func (c *Candidate) describe(text string) string {
	if c.Ref == "" {
		return text
	}
	return fmt.Sprintf("%s: %s", c.Ref, text)
}
