// Package store holds the in-memory application state: the confirmed tier
// loaded from the last full fetch and a pending overlay of writes the
// gateway has acknowledged but a fresh fetch has not yet returned. Readers
// always see both tiers merged; a reconciliation pass replaces the
// confirmed tier wholesale and drops the overlay.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/craftline/stockdesk/internal/domain/models"
)

type pendingMovement struct {
	id     string
	record models.MovementRecord
}

type pendingItem struct {
	id   string
	item models.CatalogItem
}

type pendingDamaged struct {
	id     string
	record models.DamagedRecord
}

// Store is safe for concurrent use by HTTP handlers and the scheduler.
type Store struct {
	mu sync.RWMutex

	confirmedMovements []models.MovementRecord
	confirmedItems     []models.CatalogItem
	confirmedDamaged   []models.DamagedRecord
	loadedAt           time.Time

	pendingMovements []pendingMovement
	pendingItems     []pendingItem
	pendingDamaged   []pendingDamaged
	pendingUpdates   map[string]models.CatalogItem

	observers []func()
}

// New returns an empty store; nothing is loaded until the first
// ReplaceConfirmed.
func New() *Store {
	return &Store{pendingUpdates: make(map[string]models.CatalogItem)}
}

// Subscribe registers a callback fired after every state change. Callbacks
// run outside the store lock and must not block for long.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Loaded reports whether at least one full fetch has landed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// LoadedAt returns the time of the last full fetch.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// ReplaceConfirmed installs a freshly fetched dataset as the confirmed tier
// and clears the pending overlay: rows the backend accepted are in the
// fresh data, rows it lost are gone locally too.
func (s *Store) ReplaceConfirmed(movements []models.MovementRecord, items []models.CatalogItem, damaged []models.DamagedRecord) {
	s.mu.Lock()
	s.confirmedMovements = append([]models.MovementRecord(nil), movements...)
	s.confirmedItems = append([]models.CatalogItem(nil), items...)
	s.confirmedDamaged = append([]models.DamagedRecord(nil), damaged...)
	s.loadedAt = time.Now()
	s.pendingMovements = nil
	s.pendingItems = nil
	s.pendingDamaged = nil
	s.pendingUpdates = make(map[string]models.CatalogItem)
	s.mu.Unlock()

	s.notify()
}

// Movements returns the merged ledger: confirmed rows in fetch order, then
// pending rows in acknowledgment order.
func (s *Store) Movements() []models.MovementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MovementRecord, 0, len(s.confirmedMovements)+len(s.pendingMovements))
	out = append(out, s.confirmedMovements...)
	for _, p := range s.pendingMovements {
		out = append(out, p.record)
	}
	return out
}

// CatalogItems returns the merged catalog with pending edits applied on top
// of confirmed rows and pending additions at the end.
func (s *Store) CatalogItems() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CatalogItem, 0, len(s.confirmedItems)+len(s.pendingItems))
	for _, item := range s.confirmedItems {
		if updated, ok := s.pendingUpdates[item.ItemCode]; ok {
			out = append(out, updated)
			continue
		}
		out = append(out, item)
	}
	for _, p := range s.pendingItems {
		if updated, ok := s.pendingUpdates[p.item.ItemCode]; ok {
			out = append(out, updated)
			continue
		}
		out = append(out, p.item)
	}
	return out
}

// Damaged returns the merged damaged-goods log.
func (s *Store) Damaged() []models.DamagedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DamagedRecord, 0, len(s.confirmedDamaged)+len(s.pendingDamaged))
	out = append(out, s.confirmedDamaged...)
	for _, p := range s.pendingDamaged {
		out = append(out, p.record)
	}
	return out
}

// KnownCodes returns the set of item codes currently visible, pending
// additions included, for collision checks during code generation.
func (s *Store) KnownCodes() map[string]struct{} {
	items := s.CatalogItems()
	codes := make(map[string]struct{}, len(items))
	for _, item := range items {
		codes[item.ItemCode] = struct{}{}
	}
	return codes
}

// AddPendingMovements records acknowledged writes in the overlay and
// returns their overlay ids.
func (s *Store) AddPendingMovements(records []models.MovementRecord) []string {
	ids := make([]string, 0, len(records))

	s.mu.Lock()
	for _, rec := range records {
		id := uuid.NewString()
		s.pendingMovements = append(s.pendingMovements, pendingMovement{id: id, record: rec})
		ids = append(ids, id)
	}
	s.mu.Unlock()

	s.notify()
	return ids
}

// AddPendingItems records acknowledged catalog additions.
func (s *Store) AddPendingItems(items []models.CatalogItem) []string {
	ids := make([]string, 0, len(items))

	s.mu.Lock()
	for _, item := range items {
		id := uuid.NewString()
		s.pendingItems = append(s.pendingItems, pendingItem{id: id, item: item})
		ids = append(ids, id)
	}
	s.mu.Unlock()

	s.notify()
	return ids
}

// SetPendingItemUpdate overlays an acknowledged full-record edit.
func (s *Store) SetPendingItemUpdate(item models.CatalogItem) {
	s.mu.Lock()
	s.pendingUpdates[item.ItemCode] = item
	s.mu.Unlock()

	s.notify()
}

// AddPendingDamaged records acknowledged damaged-goods writes.
func (s *Store) AddPendingDamaged(records []models.DamagedRecord) []string {
	ids := make([]string, 0, len(records))

	s.mu.Lock()
	for _, rec := range records {
		id := uuid.NewString()
		s.pendingDamaged = append(s.pendingDamaged, pendingDamaged{id: id, record: rec})
		ids = append(ids, id)
	}
	s.mu.Unlock()

	s.notify()
	return ids
}

// PendingCounts reports overlay sizes, mostly for logging and health output.
func (s *Store) PendingCounts() (movements, items, damaged int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pendingMovements), len(s.pendingItems) + len(s.pendingUpdates), len(s.pendingDamaged)
}

func (s *Store) notify() {
	s.mu.RLock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}
