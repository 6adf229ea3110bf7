// Package companion manages the pool of people a user can tag on a meal
// and the gesture detection used when tapping pool entries.
package companion

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/sakif/ganfan/internal/kv"
)

// DefaultPool is the pool of a fresh installation.
var DefaultPool = []string{"独美", "恋人", "朋友", "家人", "聚餐"}

// Pool is the installation-wide companion pool. Names are unique, trimmed
// and non-empty. The mutex serialises read-modify-write cycles within this
// process; the stored value itself is last-write-wins.
type Pool struct {
	mu    sync.Mutex
	store *kv.Store
}

func NewPool(store *kv.Store) *Pool {
	return &Pool{store: store}
}

// List returns the current pool, DefaultPool if nothing is stored yet.
func (p *Pool) List(ctx context.Context) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(ctx)
}

// Add appends name after trimming it. Blank names and names already present
// leave the pool untouched.
func (p *Pool) Add(ctx context.Context, name string) []string {
	name = strings.TrimSpace(name)

	p.mu.Lock()
	defer p.mu.Unlock()

	pool := p.load(ctx)
	if name == "" || slices.Contains(pool, name) {
		return pool
	}

	pool = append(pool, name)
	kv.Save(ctx, p.store, kv.KeyCompanionPool, pool)
	return pool
}

// Remove drops name from the pool. Removing an unknown name still rewrites
// the stored pool.
func (p *Pool) Remove(ctx context.Context, name string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool := slices.DeleteFunc(p.load(ctx), func(c string) bool { return c == name })
	kv.Save(ctx, p.store, kv.KeyCompanionPool, pool)
	return pool
}

func (p *Pool) load(ctx context.Context) []string {
	return kv.Load(ctx, p.store, kv.KeyCompanionPool, slices.Clone(DefaultPool))
}
