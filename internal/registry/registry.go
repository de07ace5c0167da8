package registry

import (
	"sync"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
)

// Entry is a saved roster and the ID it was assigned
type Entry struct {
	ID int `json:"id"`
	optimizer.CompletedRoster
}

// Registry stores the rosters of one run. IDs start at 1 and increase with
// every Save across all templates. Entries are never removed.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string][]int
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		byName: make(map[string][]int),
	}
}

// Save stores the roster and indexes it under every player name it contains
func (r *Registry) Save(roster optimizer.CompletedRoster) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := len(r.entries) + 1
	r.entries = append(r.entries, Entry{ID: id, CompletedRoster: roster})

	for _, name := range roster.Names() {
		ids := r.byName[name]
		if n := len(ids); n > 0 && ids[n-1] == id {
			continue
		}
		r.byName[name] = append(ids, id)
	}
	return id
}

// Get returns the entry with the given ID
func (r *Registry) Get(id int) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > len(r.entries) {
		return Entry{}, false
	}
	return r.entries[id-1], true
}

// Len returns the number of saved rosters
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All returns every entry in ID order
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// IDsFor returns the IDs of the rosters containing the named player, ascending
func (r *Registry) IDsFor(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byName[name]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// ContainingAll returns the rosters that include every named player, in ID
// order. A name that appears in no roster makes the result empty; no names at
// all returns every roster.
func (r *Registry) ContainingAll(names ...string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(names) == 0 {
		out := make([]Entry, len(r.entries))
		copy(out, r.entries)
		return out
	}

	var ids []int
	for i, name := range names {
		list, ok := r.byName[name]
		if !ok {
			return []Entry{}
		}
		if i == 0 {
			ids = append([]int(nil), list...)
			continue
		}
		ids = intersect(ids, list)
		if len(ids) == 0 {
			return []Entry{}
		}
	}

	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = r.entries[id-1]
	}
	return out
}

// intersect merges two ascending ID lists
func intersect(a, b []int) []int {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
