// Package store layers the reactive read/write contract over the property
// repository: all writes go through a small fixed worker pool, and reads are
// live handles that re-emit their current result after every mutation.
package store

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"realtydesk/internal/domain"
	"realtydesk/internal/repos"
)

// writeWorkers is the size of the write pool; at most this many writes run
// concurrently, ordering among queued writes is not guaranteed.
const writeWorkers = 4

type Store struct {
	repo *repos.PropertyRepo

	jobs chan func()
	wg   sync.WaitGroup

	mu    sync.Mutex
	lists map[uuid.UUID]*ListHandle
	rows  map[uuid.UUID]*RowHandle

	closeMu sync.RWMutex
	closed  bool
}

func New(repo *repos.PropertyRepo) *Store {
	s := &Store{
		repo:  repo,
		jobs:  make(chan func(), 64),
		lists: make(map[uuid.UUID]*ListHandle),
		rows:  make(map[uuid.UUID]*RowHandle),
	}
	for i := 0; i < writeWorkers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for job := range s.jobs {
				job()
			}
		}()
	}
	return s
}

// Close stops the write pool and tears down every live handle. Pending
// confirmation channels resolve before Close returns.
func (s *Store) Close() {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return
	}
	s.closed = true
	s.closeMu.Unlock()

	close(s.jobs)
	s.wg.Wait()

	s.mu.Lock()
	lists, rows := s.lists, s.rows
	s.lists, s.rows = map[uuid.UUID]*ListHandle{}, map[uuid.UUID]*RowHandle{}
	s.mu.Unlock()
	for _, h := range lists {
		h.close()
	}
	for _, h := range rows {
		h.close()
	}
}

// enqueue schedules a write. When the store is already closed the job is
// dropped and false reported so the caller's confirmation still resolves.
func (s *Store) enqueue(job func() bool, done chan bool) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		done <- false
		return
	}
	s.jobs <- func() {
		ok := job()
		done <- ok
		if ok {
			s.notify()
		}
	}
}

// Insert persists a new aggregate off the caller's goroutine. The returned
// channel resolves exactly once: true iff the store assigned a valid identity.
func (s *Store) Insert(p domain.Property) <-chan bool {
	done := make(chan bool, 1)
	s.enqueue(func() bool {
		id, err := s.repo.Insert(p)
		if err != nil {
			log.Printf("[store] insert failed: %v", err)
			return false
		}
		return id > 0
	}, done)
	return done
}

// Update replaces the full row for p.ID; last write wins.
func (s *Store) Update(p domain.Property) <-chan bool {
	done := make(chan bool, 1)
	s.enqueue(func() bool {
		if err := s.repo.Update(p); err != nil {
			log.Printf("[store] update failed: %v", err)
			return false
		}
		return true
	}, done)
	return done
}

func (s *Store) DeleteByID(id int64) <-chan bool {
	done := make(chan bool, 1)
	s.enqueue(func() bool {
		n, err := s.repo.DeleteByID(id)
		if err != nil {
			log.Printf("[store] delete failed: %v", err)
			return false
		}
		return n > 0
	}, done)
	return done
}

// DeleteAll clears the collection; administrative/test reset only.
func (s *Store) DeleteAll() <-chan bool {
	done := make(chan bool, 1)
	s.enqueue(func() bool {
		if err := s.repo.DeleteAll(); err != nil {
			log.Printf("[store] delete all failed: %v", err)
			return false
		}
		return true
	}, done)
	return done
}

// All returns a live handle over the full collection, in id order.
func (s *Store) All() *ListHandle {
	return s.subscribeList(s.repo.All)
}

// Query returns a live handle over the bounded query for c. The handle keeps
// re-running the same bounds against the latest data on every mutation.
func (s *Store) Query(c domain.SearchCriteria) *ListHandle {
	return s.subscribeList(func() ([]domain.Property, error) { return s.repo.Search(c) })
}

// ByID returns a live handle for one row; it emits nil while no row matches.
func (s *Store) ByID(id int64) *RowHandle {
	h := &RowHandle{
		id:    uuid.New(),
		query: func() (*domain.Property, error) { return s.repo.GetByID(id) },
		ch:    make(chan *domain.Property, 1),
		store: s,
	}
	s.closeMu.RLock()
	if !s.closed {
		s.mu.Lock()
		s.rows[h.id] = h
		s.mu.Unlock()
	}
	s.closeMu.RUnlock()
	h.refresh()
	return h
}

func (s *Store) subscribeList(query func() ([]domain.Property, error)) *ListHandle {
	h := &ListHandle{
		id:    uuid.New(),
		query: query,
		ch:    make(chan []domain.Property, 1),
		store: s,
	}
	s.closeMu.RLock()
	if !s.closed {
		s.mu.Lock()
		s.lists[h.id] = h
		s.mu.Unlock()
	}
	s.closeMu.RUnlock()
	h.refresh()
	return h
}

// notify re-runs every registered handle's query against the latest data.
func (s *Store) notify() {
	s.mu.Lock()
	lists := make([]*ListHandle, 0, len(s.lists))
	for _, h := range s.lists {
		lists = append(lists, h)
	}
	rows := make([]*RowHandle, 0, len(s.rows))
	for _, h := range s.rows {
		rows = append(rows, h)
	}
	s.mu.Unlock()

	for _, h := range lists {
		h.refresh()
	}
	for _, h := range rows {
		h.refresh()
	}
}

// ListHandle is a live subscription delivering the complete current result
// sequence. The channel holds only the latest emission; a slow consumer sees
// the newest state, never a backlog.
type ListHandle struct {
	id    uuid.UUID
	query func() ([]domain.Property, error)
	store *Store

	mu     sync.Mutex
	ch     chan []domain.Property
	closed bool
}

func (h *ListHandle) C() <-chan []domain.Property { return h.ch }

// Cancel unsubscribes the handle; its channel is closed.
func (h *ListHandle) Cancel() {
	h.store.mu.Lock()
	delete(h.store.lists, h.id)
	h.store.mu.Unlock()
	h.close()
}

func (h *ListHandle) refresh() {
	out, err := h.query()
	if err != nil {
		log.Printf("[store] live query failed: %v", err)
		return
	}
	if out == nil {
		out = []domain.Property{}
	}
	h.push(out)
}

func (h *ListHandle) push(v []domain.Property) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for {
		select {
		case h.ch <- v:
			return
		default:
			// drop the stale pending value
			select {
			case <-h.ch:
			default:
			}
		}
	}
}

func (h *ListHandle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.ch)
	}
}

// RowHandle is the single-row counterpart of ListHandle.
type RowHandle struct {
	id    uuid.UUID
	query func() (*domain.Property, error)
	store *Store

	mu     sync.Mutex
	ch     chan *domain.Property
	closed bool
}

func (h *RowHandle) C() <-chan *domain.Property { return h.ch }

func (h *RowHandle) Cancel() {
	h.store.mu.Lock()
	delete(h.store.rows, h.id)
	h.store.mu.Unlock()
	h.close()
}

func (h *RowHandle) refresh() {
	p, err := h.query()
	if err != nil {
		log.Printf("[store] live query failed: %v", err)
		return
	}
	h.push(p)
}

func (h *RowHandle) push(v *domain.Property) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for {
		select {
		case h.ch <- v:
			return
		default:
			select {
			case <-h.ch:
			default:
			}
		}
	}
}

func (h *RowHandle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.ch)
	}
}
