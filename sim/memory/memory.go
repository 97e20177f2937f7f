// Package memory provides in-episode memory aids for the agent: a string
// key-value store and a bounded scratchpad. Both are episode-scoped and
// never touch simulation state; they exist so agents with short contexts
// can persist notes across tool calls.
package memory

import (
	"fmt"
	"sort"
	"strings"
)

// KVStore is a flat string-to-string store with a key cap. Writes beyond
// the cap are refused so a runaway agent cannot grow memory unboundedly.
type KVStore struct {
	maxKeys int
	data    map[string]string
}

// NewKVStore creates a store holding at most maxKeys entries.
func NewKVStore(maxKeys int) *KVStore {
	if maxKeys <= 0 {
		maxKeys = 256
	}
	return &KVStore{maxKeys: maxKeys, data: make(map[string]string)}
}

// Put stores value under key. Overwrites never count against the cap.
func (s *KVStore) Put(key, value string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "Error: key must not be empty."
	}
	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxKeys {
		return fmt.Sprintf("Error: store is full (%d keys). Delete a key first.", s.maxKeys)
	}
	s.data[key] = value
	return fmt.Sprintf("Stored %q.", key)
}

// Get returns the value for key.
func (s *KVStore) Get(key string) string {
	v, ok := s.data[strings.TrimSpace(key)]
	if !ok {
		return fmt.Sprintf("No value stored under %q.", key)
	}
	return v
}

// Delete removes key.
func (s *KVStore) Delete(key string) string {
	key = strings.TrimSpace(key)
	if _, ok := s.data[key]; !ok {
		return fmt.Sprintf("No value stored under %q.", key)
	}
	delete(s.data, key)
	return fmt.Sprintf("Deleted %q.", key)
}

// List returns all keys, sorted.
func (s *KVStore) List() string {
	if len(s.data) == 0 {
		return "Store is empty."
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("Keys (%d): %s", len(keys), strings.Join(keys, ", "))
}

// Scratchpad is an append-only note list with a bounded length; old notes
// fall off the front once the bound is reached.
type Scratchpad struct {
	maxNotes int
	notes    []string
}

// NewScratchpad creates a scratchpad keeping at most maxNotes entries.
func NewScratchpad(maxNotes int) *Scratchpad {
	if maxNotes <= 0 {
		maxNotes = 100
	}
	return &Scratchpad{maxNotes: maxNotes}
}

// Write appends a note, evicting the oldest if at capacity.
func (p *Scratchpad) Write(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Error: note must not be empty."
	}
	p.notes = append(p.notes, text)
	if len(p.notes) > p.maxNotes {
		p.notes = p.notes[len(p.notes)-p.maxNotes:]
	}
	return fmt.Sprintf("Noted (%d notes).", len(p.notes))
}

// Read returns the last k notes, newest last. k <= 0 means all.
func (p *Scratchpad) Read(lastK int) string {
	if len(p.notes) == 0 {
		return "Scratchpad is empty."
	}
	notes := p.notes
	if lastK > 0 && lastK < len(notes) {
		notes = notes[len(notes)-lastK:]
	}
	var b strings.Builder
	for i, n := range notes {
		fmt.Fprintf(&b, "%d. %s\n", len(p.notes)-len(notes)+i+1, n)
	}
	return strings.TrimRight(b.String(), "\n")
}
