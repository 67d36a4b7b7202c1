package model

// ComponentEntry is one placement in a component list, relative to the foundation origin.
type ComponentEntry struct {
	TypeID int
	X      int
	Y      int
	Z      int
}

// ComponentList is an ordered list of placements plus the fixed rectangle they
// may be inserted into. Bounds are not derived from the entries.
type ComponentList struct {
	Bounds  Rect
	entries []ComponentEntry
}

func NewComponentList(bounds Rect) *ComponentList {
	return &ComponentList{Bounds: bounds}
}

func (l *ComponentList) InBounds(x, y int) bool {
	return l.Bounds.Contains(x, y)
}

func (l *ComponentList) Add(typeID, x, y, z int) {
	l.entries = append(l.entries, ComponentEntry{TypeID: typeID, X: x, Y: y, Z: z})
}

func (l *ComponentList) Len() int { return len(l.entries) }

func (l *ComponentList) Entries() []ComponentEntry {
	out := make([]ComponentEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// DesignState wraps a component list. Revision increases on every mutation so
// downstream senders know the layout must be resent.
type DesignState struct {
	Components *ComponentList
	Revision   uint64
}

func NewDesignState(bounds Rect) *DesignState {
	return &DesignState{Components: NewComponentList(bounds)}
}

func (s *DesignState) MarkRevised() { s.Revision++ }

// Foundation is a house instance. Customizable foundations carry both a live
// layout (Current) and an editable pending layout (Design).
type Foundation struct {
	ID     string
	Origin Vec3i

	// Footprint is the area the house occupies, relative to Origin. It is what
	// the location index resolves against; it may be larger than the
	// insertion envelope of Current.
	Footprint Rect

	SignTypeID int

	Current *DesignState
	Design  *DesignState
}

func (f *Foundation) Customizable() bool {
	return f != nil && f.Current != nil && f.Design != nil
}

func (f *Foundation) Contains(pos Vec3i) bool {
	if f == nil {
		return false
	}
	return f.Footprint.Contains(pos.X-f.Origin.X, pos.Y-f.Origin.Y)
}

// WorldFootprint is Footprint translated to world coordinates.
func (f *Foundation) WorldFootprint() Rect {
	return f.Footprint.Offset(f.Origin.X, f.Origin.Y)
}
