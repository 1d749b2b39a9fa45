package world

import (
	"math"

	"github.com/udisondev/babeltower/internal/vec"
)

// DefaultCellSize is the edge length of one grid cell in world units.
const DefaultCellSize = 4.0

// cellKey addresses one grid cell.
type cellKey struct {
	x, y int32
}

// cellOf converts a world position to its cell.
func cellOf(p vec.Vec2, cellSize float64) cellKey {
	return cellKey{
		x: int32(math.Floor(p.X / cellSize)),
		y: int32(math.Floor(p.Y / cellSize)),
	}
}

// cellsInRadius returns the cell range covering the square around center.
func cellsInRadius(center vec.Vec2, radius, cellSize float64) (lo, hi cellKey) {
	lo = cellOf(vec.New(center.X-radius, center.Y-radius), cellSize)
	hi = cellOf(vec.New(center.X+radius, center.Y+radius), cellSize)
	return lo, hi
}

// cellSpan returns the number of cells in the inclusive range lo..hi.
func cellSpan(lo, hi cellKey) int64 {
	return (int64(hi.x) - int64(lo.x) + 1) * (int64(hi.y) - int64(lo.y) + 1)
}

func (k cellKey) within(lo, hi cellKey) bool {
	return k.x >= lo.x && k.x <= hi.x && k.y >= lo.y && k.y <= hi.y
}
