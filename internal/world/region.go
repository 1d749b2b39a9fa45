package world

import (
	"github.com/udisondev/babeltower/internal/model"
)

// Region is one grid cell holding the characters whose position falls inside it.
// Guarded by the owning World's lock.
type Region struct {
	key     cellKey
	objects map[uint32]*model.Character
}

func newRegion(key cellKey) *Region {
	return &Region{key: key, objects: make(map[uint32]*model.Character)}
}

func (r *Region) add(c *model.Character) {
	r.objects[c.ObjectID()] = c
}

func (r *Region) remove(objectID uint32) {
	delete(r.objects, objectID)
}

func (r *Region) empty() bool {
	return len(r.objects) == 0
}
