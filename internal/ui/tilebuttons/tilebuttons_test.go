package tilebuttons

import (
	"fmt"
	"testing"
)

func buttons(n int) []Button {
	out := make([]Button, n)
	for i := range out {
		out[i] = NewButton(0x1000+i, 0, fmt.Sprintf("entry %d", i))
	}
	return out
}

func TestPageCount(t *testing.T) {
	g := DefaultGrid
	cases := []struct{ n, want int }{
		{0, 0}, {1, 1}, {10, 1}, {11, 2}, {20, 2}, {21, 3},
	}
	for _, c := range cases {
		if got := PageCount(c.n, g); got != c.want {
			t.Fatalf("PageCount(%d)=%d want %d", c.n, got, c.want)
		}
		if got := len(Render("h", buttons(c.n), g).Pages); got != c.want {
			t.Fatalf("Render(%d) pages=%d want %d", c.n, got, c.want)
		}
	}
}

func TestRender_Navigation(t *testing.T) {
	l := Render("Pick", buttons(25), DefaultGrid)
	if len(l.Pages) != 3 {
		t.Fatalf("pages=%d", len(l.Pages))
	}
	for i, p := range l.Pages {
		if (p.Back != nil) != (i > 0) {
			t.Fatalf("page %d: back=%v", i, p.Back)
		}
		if (p.Next != nil) != (i < len(l.Pages)-1) {
			t.Fatalf("page %d: next=%v", i, p.Next)
		}
		if p.Back != nil && p.Back.ToPage != i-1 {
			t.Fatalf("page %d: back to %d", i, p.Back.ToPage)
		}
		if p.Next != nil && p.Next.ToPage != i+1 {
			t.Fatalf("page %d: next to %d", i, p.Next.ToPage)
		}
	}
	if n := len(l.Pages[2].Tiles); n != 5 {
		t.Fatalf("last page tiles=%d want 5", n)
	}
}

func TestRender_TilePositions(t *testing.T) {
	l := Render("Pick", buttons(12), DefaultGrid)
	if l.Width != 520 || l.Height != 404 {
		t.Fatalf("frame=%dx%d", l.Width, l.Height)
	}
	want := []struct{ x, y int }{
		{14, 44}, {264, 44}, {14, 108}, {264, 108}, {14, 172},
	}
	for i, w := range want {
		tile := l.Pages[0].Tiles[i]
		if tile.X != w.x || tile.Y != w.y {
			t.Fatalf("tile %d at (%d,%d) want (%d,%d)", i, tile.X, tile.Y, w.x, w.y)
		}
		if tile.ReplyID != ReplyBase+i {
			t.Fatalf("tile %d reply=%d", i, tile.ReplyID)
		}
		if tile.Label.X != tile.X+84 {
			t.Fatalf("tile %d label x=%d", i, tile.Label.X)
		}
	}
	// Second page restarts at the first cell.
	second := l.Pages[1].Tiles[0]
	if second.X != 14 || second.Y != 44 || second.ReplyID != ReplyBase+10 {
		t.Fatalf("second page first tile=%+v", second)
	}
	if l.Cancel.X != 10 || l.Cancel.Y != 374 {
		t.Fatalf("cancel at (%d,%d)", l.Cancel.X, l.Cancel.Y)
	}
}

func TestRender_CustomGrid(t *testing.T) {
	g := Grid{Columns: 3, Rows: 1}
	l := Render("Pick", buttons(7), g)
	if len(l.Pages) != 3 || PageOf(6, g) != 2 {
		t.Fatalf("pages=%d", len(l.Pages))
	}
	if x, y := Position(5, g); x != 514 || y != 44 {
		t.Fatalf("Position(5)=(%d,%d)", x, y)
	}
}

func TestPicker_Respond(t *testing.T) {
	bs := buttons(3)
	var selected []int
	cancels := 0
	p := &Picker{
		Header:   "Pick",
		Buttons:  bs,
		OnSelect: func(i int, b Button) { selected = append(selected, i) },
		OnCancel: func() { cancels++ },
	}

	for _, id := range []int{100, 102, CancelReply, 99, 103, -5} {
		p.Respond(id)
	}
	if len(selected) != 2 || selected[0] != 0 || selected[1] != 2 {
		t.Fatalf("selected=%v", selected)
	}
	if cancels != 4 {
		t.Fatalf("cancels=%d want 4", cancels)
	}

	r := Resolve(bs, 101)
	if r.Outcome != OutcomeSelect || r.Button != bs[1] {
		t.Fatalf("Resolve(101)=%+v", r)
	}
}
