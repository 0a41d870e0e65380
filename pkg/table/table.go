// Package table implements the open-addressing hash table used throughout
// the VM for globals, a class's method table, an instance's fields, and the
// interpreter's string-intern set (§4.2).
//
// It is a from-scratch implementation rather than a wrapper around a
// generic map, because the intern table specifically needs find-before-
// insert identity semantics (FindString below) that a plain Go map cannot
// expose, and because the spec ties the table's load-factor and tombstone
// bookkeeping to its probe sequence in a way a black-box map would hide.
package table

import "github.com/kristofer/lumen/pkg/object"

const maxLoad = 0.75

type entry struct {
	key   *object.String // nil means empty; tombstone is key==nil && present
	value interface{}
	present bool
}

// Table is an open-addressing hash table keyed by interned *object.String,
// using linear probing and tombstone deletion.
type Table struct {
	count   int // live entries + tombstones, for load-factor purposes
	entries []entry
}

// New returns an empty table.
func New() *Table { return &Table{} }

// Get looks up key, reporting whether it was found.
func (t *Table) Get(key *object.String) (interface{}, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	e := t.find(key)
	if e.key == nil {
		return nil, false
	}
	return e.value, true
}

// Set inserts or overwrites key's value, returning true if this created a
// new entry (as opposed to overwriting an existing one).
func (t *Table) Set(key *object.String, value interface{}) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow()
	}
	e := t.find(key)
	isNew := e.key == nil
	if isNew && !e.present {
		t.count++
	}
	e.key = key
	e.value = value
	e.present = true
	return isNew
}

// Delete removes key, leaving a tombstone behind so later probes that
// passed through this slot still find entries placed after it.
func (t *Table) Delete(key *object.String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = nil
	// e.present stays true: this slot is now a tombstone, not empty.
	return true
}

// Len returns the number of live (non-tombstone) entries.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.key != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every live entry, in table order.
func (t *Table) Each(fn func(key *object.String, value interface{})) {
	for _, e := range t.entries {
		if e.key != nil {
			fn(e.key, e.value)
		}
	}
}

// FindString looks up a raw byte sequence (not yet an interned *String) by
// its precomputed hash, returning the existing interned String if one
// matches by content. This is the operation the intern step in package gc
// relies on to decide "have we already interned this string" without first
// allocating a candidate object (§4.2).
func (t *Table) FindString(chars string, hash uint32) *object.String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if !e.present {
				return nil // empty slot, not a tombstone: string isn't interned
			}
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) & mask
	}
}

// find returns the entry key should occupy: either its existing entry, the
// first tombstone seen along the probe sequence (so repeated insert/delete
// reuses slots), or the first empty slot.
func (t *Table) find(key *object.String) *entry {
	mask := uint32(len(t.entries) - 1)
	idx := key.Hash & mask
	var tombstone *entry
	for {
		e := &t.entries[idx]
		switch {
		case e.key == nil && !e.present:
			if tombstone != nil {
				return tombstone
			}
			return e
		case e.key == nil && e.present:
			if tombstone == nil {
				tombstone = e
			}
		case e.key == key:
			return e
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	old := t.entries
	t.entries = make([]entry, newCap)
	t.count = 0
	for _, e := range old {
		if e.key == nil {
			continue
		}
		dst := t.find(e.key)
		dst.key = e.key
		dst.value = e.value
		dst.present = true
		t.count++
	}
}
