package world

import (
	"fmt"
	"sort"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

// AddFoundation registers or replaces a house. Call before Run or from the loop.
func (w *World) AddFoundation(f *Foundation) error {
	if f == nil || f.ID == "" {
		return fmt.Errorf("foundation id required")
	}
	w.foundations.Upsert(f)
	return nil
}

func (w *World) Foundation(id string) *Foundation { return w.foundations.Get(id) }

// Foundations returns all houses ordered by id.
func (w *World) Foundations() []*Foundation { return w.foundations.All() }

// FoundationAt returns the house whose footprint covers pos.
func (w *World) FoundationAt(pos Vec3i) *Foundation { return w.foundations.At(pos) }

// AddItem registers an item, assigning an id when it has none.
func (w *World) AddItem(it *Item) (string, error) {
	if it == nil {
		return "", fmt.Errorf("nil item")
	}
	if it.ID == "" {
		it.ID = w.newItemID()
	}
	if _, ok := w.items[it.ID]; ok {
		return "", fmt.Errorf("duplicate item id %q", it.ID)
	}
	w.items[it.ID] = it
	return it.ID, nil
}

func (w *World) Item(id string) *Item { return w.items[id] }

func (w *World) ItemCount() int { return len(w.items) }

// DeleteItem removes it from the world. The caller must not use it afterwards.
func (w *World) DeleteItem(it *Item) {
	if it == nil {
		return
	}
	it.Deleted = true
	delete(w.items, it.ID)
}

// ItemsInArea returns ground items whose X/Y lie inside r, ordered by id.
func (w *World) ItemsInArea(r modelpkg.Rect) []*Item {
	var out []*Item
	for _, it := range w.items {
		if !it.OnGround() {
			continue
		}
		if r.Contains(it.Pos.X, it.Pos.Y) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) newItemID() string {
	for {
		w.nextItemNum++
		id := fmt.Sprintf("I%06d", w.nextItemNum)
		if _, ok := w.items[id]; !ok {
			return id
		}
	}
}
