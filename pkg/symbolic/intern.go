package symbolic

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Interner deduplicates structurally equal constant values, bounded by an
// LRU over hash buckets. Interning returns a canonical copy so aggregates
// built from repeated sub-values share payload pointers; it never extends
// any value's lifetime beyond its backing arena.
type Interner struct {
	cache *lru.Cache[uint64, []Value]
}

// NewInterner returns an interner retaining at most size hash buckets.
func NewInterner(size int) (*Interner, error) {
	cache, err := lru.New[uint64, []Value](size)
	if err != nil {
		return nil, err
	}
	return &Interner{cache: cache}, nil
}

// Intern returns the canonical value structurally equal to v, admitting v as
// canonical on first sight. Non-constant values pass through unchanged;
// sentinels carry nothing worth sharing.
func (in *Interner) Intern(v Value) Value {
	if !v.IsConstant() {
		return v
	}
	h := v.Hash()
	bucket, _ := in.cache.Get(h)
	for _, c := range bucket {
		if c.Equal(v) {
			return c
		}
	}
	in.cache.Add(h, append(bucket, v))
	return v
}

// Len returns the number of live hash buckets.
func (in *Interner) Len() int {
	return in.cache.Len()
}
