package search_test

import (
	"testing"
	"time"

	"realtydesk/internal/domain"
	"realtydesk/internal/repos"
	"realtydesk/internal/search"
	"realtydesk/internal/store"
)

func memstore(t *testing.T) *store.Store {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	repo := repos.NewPropertyRepo(db)
	if err := repo.DeleteAll(); err != nil {
		t.Fatal(err)
	}
	st := store.New(repo)
	t.Cleanup(st.Close)
	return st
}

func listing(typ string, price, surface float64, rooms, photos int, city string) domain.Property {
	p := domain.Property{
		Type: typ, Price: price, Surface: surface, Rooms: rooms,
		Address:    domain.Address{City: city, State: "NY", Country: "USA"},
		MarketDate: time.Now(),
	}
	for i := 0; i < photos; i++ {
		p.Photos = append(p.Photos, domain.Photo{URI: "media/p.jpg", Description: "room"})
	}
	return p
}

func insert(t *testing.T, st *store.Store, props ...domain.Property) {
	t.Helper()
	for _, p := range props {
		select {
		case ok := <-st.Insert(p):
			if !ok {
				t.Fatal("insert failed")
			}
		case <-time.After(3 * time.Second):
			t.Fatal("insert did not confirm")
		}
	}
}

// await reads the results feed until pred holds or the deadline passes.
func await(t *testing.T, e *search.Engine, pred func([]domain.Property) bool) []domain.Property {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case batch, ok := <-e.Results():
			if !ok {
				t.Fatal("results feed closed before expected emission")
			}
			if pred(batch) {
				return batch
			}
		case <-deadline:
			t.Fatal("timed out waiting for results emission")
		}
	}
}

func TestUnconstrainedShowsEverything(t *testing.T) {
	st := memstore(t)
	insert(t, st,
		listing("Studio", 150000, 50, 2, 0, "New York"),
		listing("House", 950000, 180, 6, 2, "San Francisco"),
	)

	e := search.NewEngine(st)
	defer e.Close()
	await(t, e, func(b []domain.Property) bool { return len(b) == 2 })

	// all-zero criteria is the same as no criteria at all
	e.SetCriteria(domain.SearchCriteria{})
	await(t, e, func(b []domain.Property) bool { return len(b) == 2 })
}

func TestBoundedQueryScenario(t *testing.T) {
	st := memstore(t)
	insert(t, st,
		listing("Studio", 150000, 50, 2, 0, "New York"),
		listing("Penthouse", 950000, 180, 6, 0, "San Francisco"),
	)

	e := search.NewEngine(st)
	defer e.Close()

	e.SetCriteria(domain.SearchCriteria{
		MinPrice: 200000, MaxPrice: 1000000,
		MinSurface: 100, MaxSurface: 300,
		MinRooms: 3,
	})
	got := await(t, e, func(b []domain.Property) bool { return len(b) == 1 })
	if got[0].Address.City != "San Francisco" {
		t.Fatalf("want the San Francisco property, got %+v", got[0])
	}
}

func TestPhotoRefinementIsExact(t *testing.T) {
	st := memstore(t)
	insert(t, st,
		listing("A", 300000, 100, 3, 0, "New York"),
		listing("B", 300000, 100, 3, 2, "New York"),
		listing("C", 300000, 100, 3, 4, "New York"),
	)

	e := search.NewEngine(st)
	defer e.Close()

	e.SetCriteria(domain.SearchCriteria{MinPhotos: 2})
	got := await(t, e, func(b []domain.Property) bool { return len(b) == 2 })
	for _, p := range got {
		if len(p.Photos) < 2 {
			t.Fatalf("property with %d photos must not pass minPhotos=2", len(p.Photos))
		}
	}
}

func TestBoundMonotonicity(t *testing.T) {
	st := memstore(t)
	insert(t, st,
		listing("A", 150000, 60, 2, 1, "New York"),
		listing("B", 400000, 120, 4, 2, "New York"),
		listing("C", 800000, 200, 6, 3, "San Francisco"),
	)

	e := search.NewEngine(st)
	defer e.Close()

	e.SetCriteria(domain.SearchCriteria{MinPrice: 100000})
	loose := await(t, e, func(b []domain.Property) bool { return len(b) == 3 })

	e.SetCriteria(domain.SearchCriteria{MinPrice: 300000, MinRooms: 4, MinPhotos: 2})
	strict := await(t, e, func(b []domain.Property) bool { return len(b) == 2 })

	ids := map[int64]bool{}
	for _, p := range loose {
		ids[p.ID] = true
	}
	for _, p := range strict {
		if !ids[p.ID] {
			t.Fatalf("stricter criteria produced a row absent from the looser result: %d", p.ID)
		}
	}
}

func TestInvertedRangeYieldsEmpty(t *testing.T) {
	st := memstore(t)
	insert(t, st, listing("A", 500000, 100, 4, 0, "Chicago"))

	e := search.NewEngine(st)
	defer e.Close()
	await(t, e, func(b []domain.Property) bool { return len(b) == 1 })

	e.SetCriteria(domain.SearchCriteria{MinPrice: 600000, MaxPrice: 100000})
	await(t, e, func(b []domain.Property) bool { return len(b) == 0 })
}

func TestRecomputesWhenDataChanges(t *testing.T) {
	st := memstore(t)

	e := search.NewEngine(st)
	defer e.Close()
	e.SetCriteria(domain.SearchCriteria{MinPrice: 200000})
	await(t, e, func(b []domain.Property) bool { return len(b) == 0 })

	// an insert elsewhere shows up through the active filter
	insert(t, st, listing("House", 500000, 120, 4, 0, "Chicago"))
	got := await(t, e, func(b []domain.Property) bool { return len(b) == 1 })

	// an edit that moves the row below the bound drops it from the feed
	edited := got[0]
	edited.Price = 150000
	select {
	case ok := <-st.Update(edited):
		if !ok {
			t.Fatal("update failed")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("update did not confirm")
	}
	await(t, e, func(b []domain.Property) bool { return len(b) == 0 })
}

func TestResetRestoresFullFeed(t *testing.T) {
	st := memstore(t)
	insert(t, st,
		listing("A", 150000, 60, 2, 0, "New York"),
		listing("B", 800000, 200, 6, 0, "San Francisco"),
	)

	e := search.NewEngine(st)
	defer e.Close()

	e.SetCriteria(domain.SearchCriteria{MinPrice: 500000})
	await(t, e, func(b []domain.Property) bool { return len(b) == 1 })
	if e.Criteria() == nil {
		t.Fatal("criteria must be reported while active")
	}

	e.ResetCriteria()
	await(t, e, func(b []domain.Property) bool { return len(b) == 2 })
	if e.Criteria() != nil {
		t.Fatal("criteria must be nil after reset")
	}
}

func TestRefine(t *testing.T) {
	in := []domain.Property{
		listing("A", 1, 1, 1, 0, "X"),
		listing("B", 1, 1, 1, 3, "X"),
	}
	if got := search.Refine(in, 0); len(got) != 2 {
		t.Fatalf("minPhotos=0 must be a no-op, got %d", len(got))
	}
	if got := search.Refine(in, 2); len(got) != 1 || got[0].Type != "B" {
		t.Fatalf("refinement wrong: %+v", got)
	}
	if got := search.Refine(nil, 2); len(got) != 0 {
		t.Fatalf("nil input must refine to empty, got %d", len(got))
	}
}
