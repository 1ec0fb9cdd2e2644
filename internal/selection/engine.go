package selection

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
)

// Randomizer is the random source the engine draws from
type Randomizer interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe for concurrent requests
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// NewRandomizer returns a concurrency-safe source seeded with seed
func NewRandomizer(seed int64) Randomizer {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// Engine picks one item out of a candidate set
type Engine struct {
	random Randomizer
}

// NewEngine creates an engine. A nil source falls back to a clock-seeded one.
func NewEngine(random Randomizer) *Engine {
	if random == nil {
		random = NewRandomizer(time.Now().UnixNano())
	}
	return &Engine{random: random}
}

// rankKey orders candidates: lower tier first, then higher score first
type rankKey struct {
	tier  int
	score float64
}

func (k rankKey) before(o rankKey) bool {
	if k.tier != o.tier {
		return k.tier < o.tier
	}
	return k.score > o.score
}

func keyOf(item models.Item, weightFavorites bool) rankKey {
	tier := 0
	if weightFavorites && !item.Favorite() {
		tier = 1
	}
	return rankKey{tier: tier, score: item.RankScore()}
}

// SelectRandom drops excluded candidates, keeps the best-ranked group and
// returns a uniform draw from it. Nil means nothing survived.
func (e *Engine) SelectRandom(candidates []models.Item, excluded map[string]struct{}, weightFavorites bool) models.Item {
	var (
		best  rankKey
		group []models.Item
	)

	for _, item := range candidates {
		if _, skip := excluded[item.ItemID()]; skip {
			continue
		}

		key := keyOf(item, weightFavorites)
		switch {
		case len(group) == 0 || key.before(best):
			best = key
			group = append(group[:0], item)
		case key == best:
			group = append(group, item)
		}
	}

	if len(group) == 0 {
		return nil
	}
	return group[e.random.Intn(len(group))]
}

// Coin returns true with probability one half
func (e *Engine) Coin() bool {
	return e.random.Intn(2) == 0
}
