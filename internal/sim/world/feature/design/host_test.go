package design

import (
	"fmt"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/sim/world/logic/designinsert"
)

type logLine struct {
	Kind LogKind
	Text string
}

type fakeHost struct {
	foundations []*modelpkg.Foundation
	items       map[string]*modelpkg.Item

	messages       []string
	logs           []logLine
	confirms       []string
	targetRequests int
	updates        map[string]int
	recorded       []designinsert.Result
}

func newFakeHost(fs ...*modelpkg.Foundation) *fakeHost {
	return &fakeHost{foundations: fs, items: map[string]*modelpkg.Item{}, updates: map[string]int{}}
}

func (h *fakeHost) FoundationAt(pos modelpkg.Vec3i) *modelpkg.Foundation {
	for _, f := range h.foundations {
		if f.Contains(pos) {
			return f
		}
	}
	return nil
}

func (h *fakeHost) DeleteItem(it *modelpkg.Item) {
	it.Deleted = true
	delete(h.items, it.ID)
}

func (h *fakeHost) UpdateFoundation(f *modelpkg.Foundation) { h.updates[f.ID]++ }

func (h *fakeHost) RecordInsert(_ modelpkg.Item, res designinsert.Result, _ *modelpkg.Foundation) {
	h.recorded = append(h.recorded, res)
}

func (h *fakeHost) SendMessage(text string)    { h.messages = append(h.messages, text) }
func (h *fakeHost) RequestTarget()             { h.targetRequests++ }
func (h *fakeHost) RequestConfirm(text string) { h.confirms = append(h.confirms, text) }
func (h *fakeHost) WriteLog(kind LogKind, text string) {
	h.logs = append(h.logs, logLine{Kind: kind, Text: text})
}

func (h *fakeHost) countMessages(text string) int {
	n := 0
	for _, m := range h.messages {
		if m == text {
			n++
		}
	}
	return n
}

func house(id string, x, y int) *modelpkg.Foundation {
	bounds := modelpkg.Rect{Min: modelpkg.Point2{X: -10, Y: -10}, Max: modelpkg.Point2{X: 10, Y: 10}}
	return &modelpkg.Foundation{
		ID:        id,
		Origin:    modelpkg.Vec3i{X: x, Y: y},
		Footprint: modelpkg.Rect{Min: modelpkg.Point2{X: -64, Y: -64}, Max: modelpkg.Point2{X: 64, Y: 64}},
		Current:   modelpkg.NewDesignState(bounds),
		Design:    modelpkg.NewDesignState(bounds),
	}
}

var itemSeq int

func (h *fakeHost) static(f *modelpkg.Foundation, dx, dy int) *modelpkg.Item {
	itemSeq++
	it := &modelpkg.Item{
		ID:     fmt.Sprintf("I%06d", itemSeq),
		TypeID: 0x1E5E,
		Kind:   modelpkg.ItemKindStatic,
		Pos:    f.Origin.Add(modelpkg.Vec3i{X: dx, Y: dy}),
	}
	h.items[it.ID] = it
	return it
}
