// Package arena provides the bump-region allocator that owns every heap
// payload referenced by symbolic values. Allocations are never freed
// individually; the whole region is released when the owning evaluation
// scope ends. An Arena is exclusively owned by one evaluation scope and is
// not safe for concurrent use.
package arena

import "unsafe"

// Arena is one allocation region. Release zeroes everything the arena handed
// out, so a value read through a released arena yields poisoned (zero) data
// instead of silently stale payloads.
type Arena struct {
	released bool
	allocs   int
	bytes    int64
	poison   []func()
}

// New returns an empty live arena.
func New() *Arena {
	return &Arena{}
}

// Live reports whether the arena can still serve allocations.
func (a *Arena) Live() bool {
	return a != nil && !a.released
}

// Stats returns the number of allocations and an approximate byte count.
func (a *Arena) Stats() (allocs int, bytes int64) {
	return a.allocs, a.bytes
}

// Release poisons all outstanding allocations and marks the arena dead.
// Further allocation attempts panic. Release is idempotent.
func (a *Arena) Release() {
	if a.released {
		return
	}
	a.released = true
	for _, p := range a.poison {
		p()
	}
	a.poison = nil
}

func (a *Arena) checkLive() {
	if a == nil {
		panic("arena: allocation from nil arena")
	}
	if a.released {
		panic("arena: allocation from released arena")
	}
}

func (a *Arena) record(bytes int64, poison func()) {
	a.allocs++
	a.bytes += bytes
	a.poison = append(a.poison, poison)
}

// Alloc places one zero T in the arena.
func Alloc[T any](a *Arena) *T {
	a.checkLive()
	p := new(T)
	a.record(int64(unsafe.Sizeof(*p)), func() { var zero T; *p = zero })
	return p
}

// AllocSlice places a slice of n zero Ts in the arena.
func AllocSlice[T any](a *Arena, n int) []T {
	a.checkLive()
	s := make([]T, n)
	var elem T
	a.record(int64(n)*int64(unsafe.Sizeof(elem)), func() {
		var zero T
		for i := range s {
			s[i] = zero
		}
	})
	return s
}
