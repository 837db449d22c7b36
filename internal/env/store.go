package env

import (
	"slices"

	"github.com/vovakirdan/fruitdrop/internal/core"
)

// FruitID identifies a fruit within one episode. IDs start at 1 and are
// never reused before the store is reset.
type FruitID uint64

// Fruit is a circular body.
type Fruit struct {
	ID     FruitID
	Type   int
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
}

// Top returns the y coordinate of the fruit's upper edge.
func (f Fruit) Top() float64 {
	return f.Pos.Y - f.Radius
}

// FruitStore owns the live fruits of an episode.
// Fruits are kept in ascending ID order, which is also the iteration order
// every pass uses, so pair selection never depends on insertion history.
type FruitStore struct {
	fruits []Fruit
	nextID FruitID
}

// NewFruitStore creates an empty store.
func NewFruitStore() *FruitStore {
	return &FruitStore{nextID: 1}
}

// Reset removes all fruits and restarts ID allocation at 1.
func (s *FruitStore) Reset() {
	s.fruits = s.fruits[:0]
	s.nextID = 1
}

// Len returns the number of live fruits.
func (s *FruitStore) Len() int {
	return len(s.fruits)
}

// Spawn inserts a fruit at rest and returns its ID.
func (s *FruitStore) Spawn(fruitType int, pos core.Vec2, radius float64) FruitID {
	return s.Insert(fruitType, pos, core.Vec2{}, radius)
}

// Insert adds a fruit with the given velocity and returns its ID.
func (s *FruitStore) Insert(fruitType int, pos, vel core.Vec2, radius float64) FruitID {
	id := s.nextID
	s.nextID++
	// New IDs are the largest, so appending keeps the slice sorted.
	s.fruits = append(s.fruits, Fruit{
		ID:     id,
		Type:   fruitType,
		Pos:    pos,
		Vel:    vel,
		Radius: radius,
	})
	return id
}

func (s *FruitStore) index(id FruitID) (int, bool) {
	return slices.BinarySearchFunc(s.fruits, id, func(f Fruit, id FruitID) int {
		switch {
		case f.ID < id:
			return -1
		case f.ID > id:
			return 1
		default:
			return 0
		}
	})
}

// Get returns a pointer to the fruit with the given ID.
// The pointer is invalidated by the next Insert or Remove.
func (s *FruitStore) Get(id FruitID) (*Fruit, bool) {
	i, ok := s.index(id)
	if !ok {
		return nil, false
	}
	return &s.fruits[i], true
}

// Remove deletes a fruit. It reports whether the ID was live.
func (s *FruitStore) Remove(id FruitID) bool {
	i, ok := s.index(id)
	if !ok {
		return false
	}
	s.fruits = slices.Delete(s.fruits, i, i+1)
	return true
}

// All returns the live fruits in ascending ID order.
// The slice aliases store memory; callers may mutate elements in place
// but must not retain it across Insert or Remove.
func (s *FruitStore) All() []Fruit {
	return s.fruits
}

// Clone returns a copy of the live fruits.
func (s *FruitStore) Clone() []Fruit {
	return slices.Clone(s.fruits)
}

// NextID returns the ID the next inserted fruit will receive.
func (s *FruitStore) NextID() FruitID {
	return s.nextID
}

// MaxType returns the largest live type, or -1 when the store is empty.
func (s *FruitStore) MaxType() int {
	m := -1
	for _, f := range s.fruits {
		if f.Type > m {
			m = f.Type
		}
	}
	return m
}

func (s *FruitStore) restore(fruits []Fruit, nextID FruitID) {
	s.fruits = slices.Clone(fruits)
	s.nextID = nextID
}
