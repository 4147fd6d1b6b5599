// Package draft guarda borradores efímeros por usuario (transacciones, disposiciones,
// pedidos) hasta que se envían o se descartan. No hay persistencia: se pierden al reiniciar.
package draft

import (
	"sync"
	"time"
)

// Entry borrador de un material.
type Entry[T any] struct {
	MaterialID int64     `json:"material_id"`
	Value      T         `json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store contenedor inyectable de borradores de un tipo, indexado por dueño y material.
// Las escrituras se serializan con un mutex (un escritor a la vez).
type Store[T any] struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	owners map[string]*ownerDrafts[T]
}

type ownerDrafts[T any] struct {
	keys    []int64
	entries map[int64]*Entry[T]
}

// NewStore crea un store. ttl <= 0 desactiva la expiración.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:    ttl,
		now:    time.Now,
		owners: make(map[string]*ownerDrafts[T]),
	}
}

// Put crea o reemplaza el borrador del material; conserva la posición original.
func (s *Store[T]) Put(owner string, materialID int64, value T) Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.owners[owner]
	if !ok {
		od = &ownerDrafts[T]{entries: make(map[int64]*Entry[T])}
		s.owners[owner] = od
	}
	e, ok := od.entries[materialID]
	if !ok {
		e = &Entry[T]{MaterialID: materialID}
		od.entries[materialID] = e
		od.keys = append(od.keys, materialID)
	}
	e.Value = value
	e.UpdatedAt = s.now()
	return *e
}

// Get devuelve el borrador del material.
func (s *Store[T]) Get(owner string, materialID int64) (Entry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.owners[owner]
	if !ok {
		return Entry[T]{}, false
	}
	e, ok := od.entries[materialID]
	if !ok {
		return Entry[T]{}, false
	}
	return *e, true
}

// List borradores del dueño en orden de creación.
func (s *Store[T]) List(owner string) []Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.owners[owner]
	if !ok {
		return []Entry[T]{}
	}
	out := make([]Entry[T], 0, len(od.keys))
	for _, k := range od.keys {
		out = append(out, *od.entries[k])
	}
	return out
}

// Remove elimina el borrador de un material.
func (s *Store[T]) Remove(owner string, materialID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.owners[owner]
	if !ok {
		return false
	}
	if _, ok := od.entries[materialID]; !ok {
		return false
	}
	delete(od.entries, materialID)
	for i, k := range od.keys {
		if k == materialID {
			od.keys = append(od.keys[:i], od.keys[i+1:]...)
			break
		}
	}
	if len(od.keys) == 0 {
		delete(s.owners, owner)
	}
	return true
}

// Clear elimina todos los borradores del dueño ("borrar todo"). Devuelve cuántos eran.
func (s *Store[T]) Clear(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.owners[owner]
	if !ok {
		return 0
	}
	delete(s.owners, owner)
	return len(od.keys)
}

// Sweep elimina los borradores sin cambios durante más de ttl (pantallas abandonadas).
func (s *Store[T]) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for owner, od := range s.owners {
		kept := od.keys[:0]
		for _, k := range od.keys {
			if od.entries[k].UpdatedAt.Before(cutoff) {
				delete(od.entries, k)
				removed++
				continue
			}
			kept = append(kept, k)
		}
		od.keys = kept
		if len(od.keys) == 0 {
			delete(s.owners, owner)
		}
	}
	return removed
}
