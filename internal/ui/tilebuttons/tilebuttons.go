// Package tilebuttons lays out a list of item-tile buttons across fixed-size
// pages and maps a reply id back to the chosen button.
package tilebuttons

const (
	// ReplyBase is the reply id of the first button; button i replies ReplyBase+i.
	ReplyBase = 100
	// CancelReply is the reply id of the cancel control.
	CancelReply = 0

	TileWidth  = 250
	TileHeight = 64

	// NoTooltip marks a button without a localized tooltip.
	NoTooltip = -1

	labelCancel = "CANCEL"
	labelNext   = "Next"
	labelBack   = "Back"
)

// Button is one selectable entry.
type Button struct {
	ItemID  int
	Hue     int
	Label   string
	Tooltip int
}

func NewButton(itemID, hue int, label string) Button {
	return Button{ItemID: itemID, Hue: hue, Label: label, Tooltip: NoTooltip}
}

// Grid is the number of tiles per row and rows per page.
type Grid struct {
	Columns int
	Rows    int
}

var DefaultGrid = Grid{Columns: 2, Rows: 5}

func (g Grid) normalized() Grid {
	if g.Columns <= 0 {
		g.Columns = DefaultGrid.Columns
	}
	if g.Rows <= 0 {
		g.Rows = DefaultGrid.Rows
	}
	return g
}

func (g Grid) Capacity() int {
	g = g.normalized()
	return g.Columns * g.Rows
}

// PageCount is ceil(n/capacity).
func PageCount(n int, g Grid) int {
	if n <= 0 {
		return 0
	}
	c := g.Capacity()
	return (n + c - 1) / c
}

// PageOf returns the page index of button i.
func PageOf(i int, g Grid) int { return i / g.Capacity() }

// Position returns the pixel offset of button i on its page.
func Position(i int, g Grid) (x, y int) {
	g = g.normalized()
	pos := i % g.Capacity()
	return pos%g.Columns*TileWidth + 14, pos/g.Columns*TileHeight + 44
}
