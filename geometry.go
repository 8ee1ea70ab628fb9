package sprotty

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p exactly and t=1 returns q exactly; intermediate values
// interpolate. The endpoints are returned as-is rather than computed, so
// an interpolation that runs to completion lands on its target without
// floating-point drift.
func (p Point) Lerp(q Point, t float64) Point {
	if t <= 0 {
		return p
	}
	if t >= 1 {
		return q
	}
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Lerp performs linear interpolation between two scalars with the same
// endpoint guarantees as [Point.Lerp].
func Lerp(a, b, t float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

// Size represents the dimensions of an element.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds combines a position with a size. The position is the top-left
// corner in the coordinate system of the element's parent.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EmptyBounds is the union identity: the union of EmptyBounds with any
// bounds b is b.
var EmptyBounds = Bounds{X: 0, Y: 0, Width: -1, Height: -1}

// NewBounds creates bounds from a position and a size.
func NewBounds(pos Point, size Size) Bounds {
	return Bounds{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Empty reports whether the bounds have a negative extent, i.e. contain
// no points at all. A zero-area bounds at a position is not empty.
func (b Bounds) Empty() bool {
	return b.Width < 0 || b.Height < 0
}

// Position returns the top-left corner.
func (b Bounds) Position() Point {
	return Point{X: b.X, Y: b.Y}
}

// Size returns the dimensions.
func (b Bounds) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Center returns the center point of the bounds.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Translate returns the bounds shifted by the given vector.
func (b Bounds) Translate(p Point) Bounds {
	return Bounds{X: b.X + p.X, Y: b.Y + p.Y, Width: b.Width, Height: b.Height}
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	if b.Empty() {
		return other
	}
	if other.Empty() {
		return b
	}
	minX := math.Min(b.X, other.X)
	minY := math.Min(b.Y, other.Y)
	maxX := math.Max(b.X+b.Width, other.X+other.Width)
	maxY := math.Max(b.Y+b.Height, other.Y+other.Height)
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
