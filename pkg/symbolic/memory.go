package symbolic

import (
	"fmt"

	"carbide/constexpr-go/pkg/arena"
)

// Memory is the address-indexed store the evaluator uses to interpret load
// and store instructions symbolically. Each logical memory object is named
// by an object id unique within one Memory; an access path refines the id to
// a sub-location inside nested aggregates, index-by-index, left to right in
// AggregateValue order.
//
// Memory is single-threaded, like the arena it allocates rebuilt aggregates
// from.
type Memory struct {
	arena   *arena.Arena
	next    uint32
	objects map[uint32]Value
}

// NewMemory returns an empty store allocating into a.
func NewMemory(a *arena.Arena) *Memory {
	return &Memory{arena: a, objects: make(map[uint32]Value)}
}

// NewObject allocates a fresh memory object holding init and returns its
// direct address. Pass MakeUninitMemory for a location never written.
func (m *Memory) NewObject(init Value) Value {
	id := m.next
	m.next++
	m.objects[id] = init
	return MakeAddress(id)
}

// Load resolves an address to the value at its sub-location. Loading from a
// never-written slot yields the UninitMemory sentinel; traversing a path
// through a non-aggregate is a contract violation.
func (m *Memory) Load(addr Value) Value {
	id, path := addr.AddressValue()
	cur, ok := m.objects[id]
	if !ok {
		panic(fmt.Sprintf("symbolic: load from unknown memory object %d", id))
	}
	for _, idx := range path {
		if cur.Kind() == KindUninitMemory {
			return MakeUninitMemory()
		}
		if cur.Kind() != KindAggregate {
			panic(fmt.Sprintf("symbolic: load path traverses non-aggregate %s", cur.Kind()))
		}
		elems := cur.AggregateValue()
		if int(idx) >= len(elems) {
			panic(fmt.Sprintf("symbolic: load path index %d out of range %d", idx, len(elems)))
		}
		cur = elems[idx]
	}
	return cur
}

// Store replaces the value at the address's sub-location, immutably
// rebuilding each enclosing aggregate in the Memory's arena.
func (m *Memory) Store(addr Value, v Value) {
	id, path := addr.AddressValue()
	cur, ok := m.objects[id]
	if !ok {
		panic(fmt.Sprintf("symbolic: store to unknown memory object %d", id))
	}
	m.objects[id] = m.storeAt(cur, path, v)
}

func (m *Memory) storeAt(cur Value, path []uint32, v Value) Value {
	if len(path) == 0 {
		return v
	}
	if cur.Kind() != KindAggregate {
		panic(fmt.Sprintf("symbolic: store path traverses non-aggregate %s", cur.Kind()))
	}
	elems := cur.AggregateValue()
	idx := path[0]
	if int(idx) >= len(elems) {
		panic(fmt.Sprintf("symbolic: store path index %d out of range %d", idx, len(elems)))
	}
	rebuilt := make([]Value, len(elems))
	copy(rebuilt, elems)
	rebuilt[idx] = m.storeAt(elems[idx], path[1:], v)
	return MakeAggregate(rebuilt, m.arena)
}
