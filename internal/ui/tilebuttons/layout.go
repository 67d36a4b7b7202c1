package tilebuttons

type Text struct {
	X     int
	Y     int
	Width int
	Text  string
}

type Tile struct {
	X       int
	Y       int
	ReplyID int
	Button  Button
	Label   Text
}

// NavButton switches the client to another page without a server round trip.
type NavButton struct {
	X      int
	Y      int
	ToPage int
	Label  Text
}

// ReplyButton closes the picker with ReplyID.
type ReplyButton struct {
	X       int
	Y       int
	ReplyID int
	Label   Text
}

type Page struct {
	Index int
	Tiles []Tile
	Back  *NavButton
	Next  *NavButton
}

// Layout is a fully positioned picker. The frame (background, header, cancel)
// is shared by every page.
type Layout struct {
	Header  string
	Width   int
	Height  int
	Title   Text
	Cancel  ReplyButton
	Pages   []Page
	Buttons int
}

// Render places buttons page by page in row-major order.
func Render(header string, buttons []Button, g Grid) Layout {
	g = g.normalized()
	x := g.Columns * TileWidth
	y := g.Rows * TileHeight

	l := Layout{
		Header:  header,
		Width:   x + 20,
		Height:  y + 84,
		Title:   Text{X: 14, Y: 12, Width: x, Text: header},
		Cancel:  ReplyButton{X: 10, Y: y + 54, ReplyID: CancelReply, Label: Text{X: 45, Y: y + 56, Width: x - 50, Text: labelCancel}},
		Buttons: len(buttons),
	}

	capacity := g.Capacity()
	pages := PageCount(len(buttons), g)
	l.Pages = make([]Page, pages)
	for p := range l.Pages {
		page := Page{Index: p}
		if p > 0 {
			page.Back = &NavButton{X: x - 200, Y: y + 54, ToPage: p - 1, Label: Text{X: x - 160, Y: y + 56, Width: 60, Text: labelBack}}
		}
		if p < pages-1 {
			page.Next = &NavButton{X: x - 100, Y: y + 54, ToPage: p + 1, Label: Text{X: x - 60, Y: y + 56, Width: 60, Text: labelNext}}
		}
		l.Pages[p] = page
	}

	for i, b := range buttons {
		tx, ty := Position(i, g)
		p := i / capacity
		l.Pages[p].Tiles = append(l.Pages[p].Tiles, Tile{
			X:       tx,
			Y:       ty,
			ReplyID: ReplyBase + i,
			Button:  b,
			Label:   Text{X: tx + 84, Y: ty, Width: TileWidth, Text: b.Label},
		})
	}
	return l
}
