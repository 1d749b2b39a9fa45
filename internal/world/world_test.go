package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

func newMonster(id uint32, x, y float64) *model.Monster {
	return model.NewMonster(id, "m", model.TierNormal, 1, vec.New(x, y), nil)
}

func ids(cs []*model.Character) []uint32 {
	out := make([]uint32, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ObjectID())
	}
	return out
}

func TestWorld_QueryRadiusSorted(t *testing.T) {
	w := New(2)
	for _, m := range []*model.Monster{
		newMonster(5, 3, 0),
		newMonster(2, 1, 0),
		newMonster(4, 0, 1), // same distance as 2, higher ID
		newMonster(9, 10, 10),
	} {
		w.Add(m.Character)
	}

	got := w.QueryRadius(vec.Zero, 3, nil)

	assert.Equal(t, []uint32{2, 4, 5}, ids(got))
}

func TestWorld_QueryRadiusFilter(t *testing.T) {
	w := New(0)
	p := model.NewPlayer(1, "p", model.ClassMage, vec.Zero, nil)
	w.Add(p.Character)
	w.Add(newMonster(2, 1, 1).Character)

	got := w.QueryRadius(vec.Zero, 5, func(c *model.Character) bool {
		return c.Faction() == model.FactionMonster
	})

	assert.Equal(t, []uint32{2}, ids(got))
	assert.Nil(t, w.QueryRadius(vec.Zero, -1, nil))
}

func TestWorld_QueryRadiusWideBox(t *testing.T) {
	w := New(4)
	assert.Empty(t, w.QueryRadius(vec.Zero, 4000, nil))

	for _, m := range []*model.Monster{
		newMonster(3, 100, 0),
		newMonster(1, -50, 20),
		newMonster(2, 3999, 0),
		newMonster(7, 5000, 0),
	} {
		w.Add(m.Character)
	}

	// 2001x2001 cells against 4 occupied ones
	assert.Equal(t, []uint32{1, 3, 2}, ids(w.QueryRadius(vec.Zero, 4000, nil)))
	// narrow box takes the per-cell path
	assert.Equal(t, []uint32{3}, ids(w.QueryRadius(vec.New(100, 0), 1, nil)))
}

func TestCellSpan(t *testing.T) {
	assert.EqualValues(t, 1, cellSpan(cellKey{0, 0}, cellKey{0, 0}))
	assert.EqualValues(t, 6, cellSpan(cellKey{-1, 0}, cellKey{1, 1}))
	assert.True(t, cellKey{1, 1}.within(cellKey{0, 0}, cellKey{1, 1}))
	assert.False(t, cellKey{2, 1}.within(cellKey{0, 0}, cellKey{1, 1}))
}

func TestWorld_TracksMovementAcrossCells(t *testing.T) {
	w := New(1)
	m := newMonster(1, 0.5, 0.5)
	w.Add(m.Character)

	m.SetPosition(vec.New(20.5, -7.5))

	assert.Empty(t, w.QueryRadius(vec.Zero, 2, nil))
	assert.Equal(t, []uint32{1}, ids(w.QueryRadius(vec.New(20, -7), 1, nil)))

	m.Move(vec.New(-1, 0))
	m.Integrate(2) // chase speed 3 → 6 units
	assert.Equal(t, []uint32{1}, ids(w.QueryRadius(vec.New(14.5, -7.5), 0.1, nil)))
}

func TestWorld_Remove(t *testing.T) {
	w := New(0)
	m := newMonster(1, 0, 0)
	w.Add(m.Character)
	w.Add(m.Character) // duplicate add ignored
	require.Equal(t, 1, w.Len())

	removed := w.Remove(1)

	assert.Same(t, m.Character, removed)
	assert.True(t, m.IsRemoved())
	assert.False(t, m.IsTargetable())
	assert.Nil(t, w.Entity(1))
	assert.Empty(t, w.QueryRadius(vec.Zero, 10, nil))
	assert.Nil(t, w.Remove(1))

	// moving a removed character must not re-insert it
	m.SetPosition(vec.New(1, 1))
	assert.Zero(t, w.Len())
}

func TestWorld_PlayersAndMonsters(t *testing.T) {
	w := New(0)
	w.Add(newMonster(3, 0, 0).Character)
	w.Add(model.NewPlayer(1, "p", model.ClassRogue, vec.Zero, nil).Character)
	w.Add(newMonster(2, 0, 0).Character)

	require.Len(t, w.Players(), 1)
	monsters := w.Monsters()
	require.Len(t, monsters, 2)
	assert.Equal(t, uint32(3), monsters[0].ObjectID(), "insertion order")
	assert.Len(t, w.Characters(), 3)
}

func TestWorld_Nearest(t *testing.T) {
	w := New(0)
	w.Add(newMonster(1, 4, 0).Character)
	w.Add(newMonster(2, 2, 0).Character)

	n := w.Nearest(vec.Zero, 5, nil)
	require.NotNil(t, n)
	assert.Equal(t, uint32(2), n.ObjectID())
	assert.Nil(t, w.Nearest(vec.Zero, 1, nil))
}

func TestObjectIDGenerator(t *testing.T) {
	gen := NewObjectIDGenerator()

	p := gen.NextPlayerID()
	m := gen.NextMonsterID()

	assert.Equal(t, PlayerIDBase+1, p)
	assert.Equal(t, MonsterIDBase+1, m)
	assert.True(t, IsPlayerID(p))
	assert.False(t, IsPlayerID(m))
	assert.NotEqual(t, p, gen.NextPlayerID())
}
