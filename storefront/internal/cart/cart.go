// Package cart is the storefront's in-progress order.
//
// A Store never fails from the caller's point of view. Persistence to local
// storage is best-effort and happens off the caller's goroutine: a failed
// write is logged and the in-memory state stays authoritative for the
// current session. Call Close before exiting so the last snapshot lands.
package cart

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"foodzone/storefront/internal/storage"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu      sync.Mutex
	lines   []Line
	storage storage.Local
	writer  *snapshotWriter
}

// New returns an empty cart. A nil storage disables persistence.
func New(st storage.Local) *Store {
	s := &Store{storage: st}
	if st != nil {
		s.writer = newSnapshotWriter(st)
	}
	return s
}

// Flush waits for every change made so far to be written.
func (s *Store) Flush() {
	if s.writer != nil {
		s.writer.flush()
	}
}

// Close flushes and stops the background writer. Later changes are written
// synchronously.
func (s *Store) Close() {
	if s.writer != nil {
		s.writer.close()
	}
}

// Load replaces the in-memory cart with the persisted snapshot. A missing or
// unreadable snapshot leaves the cart empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if s.storage == nil {
		return
	}

	raw, err := s.storage.Get(storage.CartKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[storefront] cart: failed to read snapshot: %v", err)
		}
		return
	}

	var saved []Line
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		log.Printf("[storefront] cart: discarding corrupt snapshot: %v", err)
		return
	}

	// Snapshots may come from an older build or a hand-edited file.
	for _, l := range saved {
		p := Product{ID: l.ID, Name: l.Name, Image: l.Image, Price: l.Price}
		s.addLocked(p, l.Quantity, l.OwnerEmail)
	}
}

func (s *Store) AddItem(p Product, quantity int, ownerEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addLocked(p, quantity, ownerEmail)
	s.persistLocked()
}

func (s *Store) addLocked(p Product, quantity int, ownerEmail string) {
	if quantity < 1 {
		quantity = 1
	}
	id := NewLineID(p.ID, ownerEmail)
	if i := s.indexLocked(id); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}

	price := p.Price
	if price.IsNegative() {
		price = decimal.Zero
	}
	s.lines = append(s.lines, Line{
		ID:         p.ID,
		OwnerEmail: ownerEmail,
		Name:       p.Name,
		Image:      p.Image,
		Price:      price,
		Quantity:   quantity,
	})
}

// UpdateQuantity sets a line's quantity, clamped to at least 1. Removal is
// RemoveItem's job.
func (s *Store) UpdateQuantity(id LineID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	s.lines[i].Quantity = quantity
	s.persistLocked()
}

func (s *Store) RemoveItem(id LineID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLocked()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persistLocked()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.lines)
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Snapshot returns the lines and their total as of one instant.
func (s *Store) Snapshot() ([]Line, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...), totalOf(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Count is the number of items across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) indexLocked(id LineID) int {
	for i, l := range s.lines {
		if l.Key() == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() {
	if s.writer == nil {
		return
	}
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		log.Printf("[storefront] cart: failed to encode snapshot: %v", err)
		return
	}
	s.writer.queue(string(data))
}

func totalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
