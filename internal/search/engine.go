// Package search owns the "what should currently be displayed" feed: the
// active criteria, the bounded store query derived from it, and the in-memory
// photo-count refinement the store query cannot express.
package search

import (
	"sync"

	"realtydesk/internal/domain"
	"realtydesk/internal/store"
)

type Engine struct {
	store *store.Store

	mu       sync.Mutex
	criteria *domain.SearchCriteria // nil means no filter, show everything
	sub      *store.ListHandle
	gen      uint64
	closed   bool

	outMu     sync.Mutex
	out       chan []domain.Property
	outClosed bool
}

func NewEngine(st *store.Store) *Engine {
	e := &Engine{store: st, out: make(chan []domain.Property, 1)}
	e.derive(nil)
	return e
}

// Results is the output feed. It re-emits whenever the criteria change or the
// underlying data backing the active query changes. Like the store handles it
// holds only the latest emission.
func (e *Engine) Results() <-chan []domain.Property { return e.out }

// SetCriteria replaces the active criteria and re-derives the feed. The
// previous store subscription is torn down so no duplicate delivery occurs.
func (e *Engine) SetCriteria(c domain.SearchCriteria) {
	e.derive(&c)
}

// ResetCriteria drops the filter; the feed forwards the full collection again.
func (e *Engine) ResetCriteria() {
	e.derive(nil)
}

// Criteria returns the active criteria, or nil when unfiltered.
func (e *Engine) Criteria() *domain.SearchCriteria {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.criteria == nil {
		return nil
	}
	c := *e.criteria
	return &c
}

func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.sub != nil {
		e.sub.Cancel()
		e.sub = nil
	}
	e.mu.Unlock()

	e.outMu.Lock()
	e.outClosed = true
	close(e.out)
	e.outMu.Unlock()
}

// derive swaps the store subscription backing the feed. Each derivation gets a
// generation number; emissions from a torn-down subscription are discarded so
// a stale result can never overtake the active query's.
func (e *Engine) derive(c *domain.SearchCriteria) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.sub != nil {
		e.sub.Cancel()
	}
	e.criteria = c
	e.gen++
	gen := e.gen

	var sub *store.ListHandle
	minPhotos := 0
	if c == nil {
		sub = e.store.All()
	} else {
		sub = e.store.Query(*c)
		minPhotos = c.MinPhotos
	}
	e.sub = sub

	go func() {
		for batch := range sub.C() {
			e.push(gen, Refine(batch, minPhotos))
		}
	}()
}

func (e *Engine) push(gen uint64, v []domain.Property) {
	e.mu.Lock()
	stale := gen != e.gen
	e.mu.Unlock()
	if stale {
		return
	}

	e.outMu.Lock()
	defer e.outMu.Unlock()
	if e.outClosed {
		return
	}
	for {
		select {
		case e.out <- v:
			return
		default:
			select {
			case <-e.out:
			default:
			}
		}
	}
}

// Refine applies the post-query pass: drop properties with fewer than
// minPhotos photos. Photo count lives inside a serialized collection, so the
// bounded query cannot filter on it. minPhotos <= 0 disables the pass.
func Refine(in []domain.Property, minPhotos int) []domain.Property {
	if minPhotos <= 0 {
		return in
	}
	out := make([]domain.Property, 0, len(in))
	for _, p := range in {
		if len(p.Photos) >= minPhotos {
			out = append(out, p)
		}
	}
	return out
}
