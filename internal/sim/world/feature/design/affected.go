package design

import modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"

// FoundationSet is an insertion-ordered set keyed by foundation identity.
type FoundationSet struct {
	seen  map[*modelpkg.Foundation]struct{}
	order []*modelpkg.Foundation
}

// Add reports whether f was newly added.
func (s *FoundationSet) Add(f *modelpkg.Foundation) bool {
	if f == nil {
		return false
	}
	if s.seen == nil {
		s.seen = map[*modelpkg.Foundation]struct{}{}
	}
	if _, ok := s.seen[f]; ok {
		return false
	}
	s.seen[f] = struct{}{}
	s.order = append(s.order, f)
	return true
}

func (s FoundationSet) Len() int { return len(s.order) }

func (s FoundationSet) Items() []*modelpkg.Foundation {
	out := make([]*modelpkg.Foundation, len(s.order))
	copy(out, s.order)
	return out
}

// refresh sends one update per member.
func (s *FoundationSet) refresh(h Host) {
	for _, f := range s.order {
		h.UpdateFoundation(f)
	}
}
