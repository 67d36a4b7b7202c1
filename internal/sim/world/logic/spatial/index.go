package spatial

import (
	"sort"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

const DefaultCellSize = 16

type cellKey struct {
	X int
	Y int
}

// FoundationIndex buckets foundation footprints into square cells so a
// position lookup only tests the foundations overlapping its cell.
type FoundationIndex struct {
	cellSize int
	cells    map[cellKey][]string
	byID     map[string]*modelpkg.Foundation
	cellsOf  map[string][]cellKey
}

func NewFoundationIndex(cellSize int) *FoundationIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &FoundationIndex{
		cellSize: cellSize,
		cells:    map[cellKey][]string{},
		byID:     map[string]*modelpkg.Foundation{},
		cellsOf:  map[string][]cellKey{},
	}
}

func (idx *FoundationIndex) Len() int { return len(idx.byID) }

func (idx *FoundationIndex) Get(id string) *modelpkg.Foundation { return idx.byID[id] }

// Upsert (re)indexes f under its current footprint.
func (idx *FoundationIndex) Upsert(f *modelpkg.Foundation) {
	if f == nil || f.ID == "" {
		return
	}
	if old, ok := idx.cellsOf[f.ID]; ok {
		idx.removeFromCells(f.ID, old)
	}
	r := f.WorldFootprint()
	var keys []cellKey
	if !r.Empty() {
		minX, minY := idx.cellOf(r.Min.X), idx.cellOf(r.Min.Y)
		maxX, maxY := idx.cellOf(r.Max.X), idx.cellOf(r.Max.Y)
		for cx := minX; cx <= maxX; cx++ {
			for cy := minY; cy <= maxY; cy++ {
				k := cellKey{X: cx, Y: cy}
				idx.cells[k] = append(idx.cells[k], f.ID)
				keys = append(keys, k)
			}
		}
	}
	idx.byID[f.ID] = f
	idx.cellsOf[f.ID] = keys
}

func (idx *FoundationIndex) Remove(id string) {
	keys, ok := idx.cellsOf[id]
	if !ok {
		return
	}
	idx.removeFromCells(id, keys)
	delete(idx.cellsOf, id)
	delete(idx.byID, id)
}

// At returns the foundation whose footprint contains pos. Overlaps resolve to
// the smallest id so lookups are deterministic.
func (idx *FoundationIndex) At(pos modelpkg.Vec3i) *modelpkg.Foundation {
	bucket := idx.cells[cellKey{X: idx.cellOf(pos.X), Y: idx.cellOf(pos.Y)}]
	var best *modelpkg.Foundation
	for _, id := range bucket {
		f := idx.byID[id]
		if f == nil || !f.Contains(pos) {
			continue
		}
		if best == nil || f.ID < best.ID {
			best = f
		}
	}
	return best
}

// All returns every indexed foundation ordered by id.
func (idx *FoundationIndex) All() []*modelpkg.Foundation {
	out := make([]*modelpkg.Foundation, 0, len(idx.byID))
	for _, f := range idx.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (idx *FoundationIndex) removeFromCells(id string, keys []cellKey) {
	for _, k := range keys {
		bucket := idx.cells[k]
		for i, v := range bucket {
			if v == id {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(bucket) == 0 {
			delete(idx.cells, k)
		} else {
			idx.cells[k] = bucket
		}
	}
}

// cellOf floors toward negative infinity so negative coordinates bucket correctly.
func (idx *FoundationIndex) cellOf(v int) int {
	if v >= 0 {
		return v / idx.cellSize
	}
	return -((-v + idx.cellSize - 1) / idx.cellSize)
}
