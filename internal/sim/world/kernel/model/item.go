package model

import "strings"

type ItemKind int

const (
	ItemKindDefault ItemKind = iota
	// ItemKindStatic is a decorative object with no behavior of its own.
	ItemKindStatic
	// ItemKindMulti is a multi-component structure (a house, a boat).
	ItemKindMulti
	// ItemKindSign is the sign identifying a house.
	ItemKindSign
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindStatic:
		return "STATIC"
	case ItemKindMulti:
		return "MULTI"
	case ItemKindSign:
		return "SIGN"
	default:
		return "DEFAULT"
	}
}

func ParseItemKind(s string) (ItemKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DEFAULT", "ITEM":
		return ItemKindDefault, true
	case "STATIC":
		return ItemKindStatic, true
	case "MULTI":
		return ItemKindMulti, true
	case "SIGN", "HOUSE_SIGN":
		return ItemKindSign, true
	default:
		return ItemKindDefault, false
	}
}

// Item is an object placed in the world.
type Item struct {
	ID     string
	TypeID int
	Hue    int
	Kind   ItemKind
	Pos    Vec3i

	// Parent is the holding container or owner; empty when the item lies in the world.
	Parent string

	Deleted bool
}

func (it *Item) OnGround() bool { return it != nil && it.Parent == "" }
