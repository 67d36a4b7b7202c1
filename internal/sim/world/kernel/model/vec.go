package model

// Vec3i is a world position. X/Y are planar, Z is height.
type Vec3i struct {
	X int
	Y int
	Z int
}

func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

type Point2 struct {
	X int
	Y int
}

// Rect is an inclusive planar rectangle.
type Rect struct {
	Min Point2
	Max Point2
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.Min.X && y >= r.Min.Y && x <= r.Max.X && y <= r.Max.Y
}

func (r Rect) Offset(x, y int) Rect {
	return Rect{
		Min: Point2{X: r.Min.X + x, Y: r.Min.Y + y},
		Max: Point2{X: r.Max.X + x, Y: r.Max.Y + y},
	}
}

func (r Rect) Empty() bool {
	return r.Max.X < r.Min.X || r.Max.Y < r.Min.Y
}
