package env

import (
	"math"

	"github.com/vovakirdan/fruitdrop/internal/config"
)

// contactTolerance widens the overlap test so pairs the resolver has just
// separated to exact contact still count as touching.
const contactTolerance = 1e-6

// MergeEngine collapses touching pairs of equal type into the next type.
type MergeEngine struct {
	MaxType int
	radius  func(int) float64
}

// MergeResult reports what one merge pass did.
type MergeResult struct {
	Merges int
	Points int
}

// NewMergeEngine builds a merge engine for the configured type table.
func NewMergeEngine(cfg config.Config) MergeEngine {
	return MergeEngine{
		MaxType: cfg.Limits.MaxType,
		radius:  cfg.Radius,
	}
}

// Pass merges up to maxMerges pairs, deepest overlap first.
// A merge can enable another one, so candidates are searched again after
// every merge.
func (m MergeEngine) Pass(store *FruitStore, maxMerges int) MergeResult {
	var res MergeResult
	for res.Merges < maxMerges {
		a, b, ok := m.findPair(store.All())
		if !ok {
			break
		}
		res.Points += m.merge(store, a, b)
		res.Merges++
	}
	return res
}

// findPair returns the mergeable pair with the largest overlap. A pair is
// mergeable once its overlap exceeds -contactTolerance, slightly looser than
// distance < r_a+r_b, so pairs resting at exact contact still merge. Pairs are
// scanned in ascending (idA, idB) order and only a strictly larger overlap
// replaces the best, so ties go to the lowest ID pair.
func (m MergeEngine) findPair(fruits []Fruit) (FruitID, FruitID, bool) {
	var (
		bestA, bestB FruitID
		best         = math.Inf(-1)
		found        bool
	)

	for i := 0; i < len(fruits); i++ {
		a := &fruits[i]
		if a.Type >= m.MaxType {
			continue
		}
		for j := i + 1; j < len(fruits); j++ {
			b := &fruits[j]
			if b.Type != a.Type {
				continue
			}
			overlap := a.Radius + b.Radius - b.Pos.Sub(a.Pos).Len()
			if overlap <= -contactTolerance {
				continue
			}
			if overlap > best {
				best = overlap
				bestA, bestB = a.ID, b.ID
				found = true
			}
		}
	}
	return bestA, bestB, found
}

// merge replaces a and b with one fruit of the next type at their average
// position and velocity. It returns the points earned.
func (m MergeEngine) merge(store *FruitStore, idA, idB FruitID) int {
	a, _ := store.Get(idA)
	fa := *a
	b, _ := store.Get(idB)
	fb := *b

	store.Remove(idA)
	store.Remove(idB)

	newType := fa.Type + 1
	store.Insert(newType, fa.Pos.Mid(fb.Pos), fa.Vel.Mid(fb.Vel), m.radius(newType))
	return config.ScoreForMerge(newType)
}
