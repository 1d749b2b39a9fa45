package vec

import "math"

// Vec2: 2D координаты в мировых единицах (float).
// Value type, передаётся по значению.
type Vec2 struct {
	X, Y float64
}

// Zero is the origin.
var Zero = Vec2{}

// New creates Vec2 from components.
func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add складывает два вектора.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр.
func (v Vec2) Mul(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// Length возвращает длину вектора.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized возвращает единичный вектор. Нулевой вектор остаётся нулевым.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length == 0 {
		return Zero
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceTo вычисляет расстояние до другой точки.
func (v Vec2) DistanceTo(other Vec2) float64 {
	return math.Sqrt(v.DistanceSquared(other))
}

// DistanceSquared возвращает квадрат расстояния (без sqrt для hot path).
func (v Vec2) DistanceSquared(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// Rotate returns v rotated counter-clockwise by degrees.
func (v Vec2) Rotate(degrees float64) Vec2 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Lerp interpolates between a and b; t is clamped to [0, 1].
func Lerp(a, b Vec2, t float64) Vec2 {
	t = max(0, min(t, 1))
	return Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// RandomInsideCircle returns a uniformly distributed point inside a disc of
// the given radius centred at the origin. rnd must return values in [0, 1).
func RandomInsideCircle(rnd func() float64, radius float64) Vec2 {
	r := radius * math.Sqrt(rnd())
	theta := 2 * math.Pi * rnd()
	return Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}
