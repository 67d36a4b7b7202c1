// Package designinsert moves placed items into the layout of a customizable house.
package designinsert

import modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"

type Result int

const (
	Valid Result = iota
	InvalidItem
	NotInHouse
	OutsideHouseBounds
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "VALID"
	case InvalidItem:
		return "INVALID_ITEM"
	case NotInHouse:
		return "NOT_IN_HOUSE"
	case OutsideHouseBounds:
		return "OUTSIDE_HOUSE_BOUNDS"
	default:
		return "UNKNOWN"
	}
}

// World is what an insert needs from its host.
type World interface {
	// FoundationAt returns the house whose footprint contains pos, or nil.
	FoundationAt(pos modelpkg.Vec3i) *modelpkg.Foundation
	DeleteItem(it *modelpkg.Item)
}

// Process inserts it into the house it stands in. The foundation is returned
// only for Valid; every other result leaves the world untouched.
//
// Only the live layout is bounds-checked. The pending design receives the
// same placement unconditionally.
func Process(w World, it *modelpkg.Item, staticsOnly bool) (Result, *modelpkg.Foundation) {
	if !Eligible(it, staticsOnly) {
		return InvalidItem, nil
	}
	if it.Deleted || !it.OnGround() {
		return NotInHouse, nil
	}

	f := w.FoundationAt(it.Pos)
	if f == nil || !f.Customizable() {
		return NotInHouse, nil
	}

	rel := it.Pos.Sub(f.Origin)
	if !f.Current.Components.InBounds(rel.X, rel.Y) {
		return OutsideHouseBounds, nil
	}

	insertInto(f.Current, it.TypeID, rel)
	insertInto(f.Design, it.TypeID, rel)
	w.DeleteItem(it)
	return Valid, f
}

// Eligible reports whether the item kind may be inserted at all. A deleted
// item is still eligible; it simply is not in any house.
func Eligible(it *modelpkg.Item, staticsOnly bool) bool {
	if it == nil {
		return false
	}
	switch it.Kind {
	case modelpkg.ItemKindMulti, modelpkg.ItemKindSign:
		return false
	}
	if staticsOnly && it.Kind != modelpkg.ItemKindStatic {
		return false
	}
	return true
}

func insertInto(s *modelpkg.DesignState, typeID int, rel modelpkg.Vec3i) {
	s.Components.Add(typeID, rel.X, rel.Y, rel.Z)
	s.MarkRevised()
}
