package services_test

import (
	"testing"
	"time"

	"realtydesk/internal/domain"
	"realtydesk/internal/repos"
	"realtydesk/internal/services"
	"realtydesk/internal/store"
)

func fixture(t *testing.T) (*store.Store, *repos.PropertyRepo) {
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
	return st, repo
}

func seeded(t *testing.T, repo *repos.PropertyRepo) domain.Property {
	t.Helper()
	p := domain.Property{
		Type: "House", Price: 350000, Surface: 150, Rooms: 5, Bathrooms: 2, Bedrooms: 3,
		Description: "Beautiful house with garden",
		Address:     domain.Address{Street: "10th Street", City: "Los Angeles", State: "CA", Zip: "90001", Country: "USA"},
		MarketDate:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		AgentName:   "Alice Smith",
	}
	id, err := repo.Insert(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByID(id)
	if err != nil || got == nil {
		t.Fatalf("seed row not readable: %v", err)
	}
	return *got
}

func confirm(t *testing.T, done <-chan bool) {
	t.Helper()
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("write confirmation resolved false")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("write confirmation did not resolve")
	}
}

func TestNoChangeIssuesNoWrite(t *testing.T) {
	st, repo := fixture(t)
	engine := services.NewUpdateEngine(st)
	original := seeded(t, repo)

	edited := original
	done, changed := engine.Update(original, edited)
	if changed {
		t.Fatal("identical aggregates must report no changes")
	}
	if done != nil {
		t.Fatal("no confirmation channel may exist when nothing was written")
	}
}

func TestSingleFieldChangeWritesFullAggregate(t *testing.T) {
	st, repo := fixture(t)
	engine := services.NewUpdateEngine(st)
	original := seeded(t, repo)

	edited := original
	edited.Price = 400000
	done, changed := engine.Update(original, edited)
	if !changed {
		t.Fatal("one differing field must trigger a write")
	}
	confirm(t, done)

	got, err := repo.GetByID(original.ID)
	if err != nil {
		t.Fatal(err)
	}
	// whole-row write: the untouched fields survive alongside the change
	if got.Price != 400000 || got.Description != original.Description || got.AgentName != original.AgentName {
		t.Fatalf("full aggregate not persisted: %+v", got)
	}
}

func TestSaleTransitionPersists(t *testing.T) {
	st, repo := fixture(t)
	engine := services.NewUpdateEngine(st)
	original := seeded(t, repo)

	sold := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	edited := original
	edited.Price = 400000
	edited.Sold = true
	edited.SoldDate = &sold
	if err := services.ValidateSale(edited); err != nil {
		t.Fatal(err)
	}

	done, changed := engine.Update(original, edited)
	if !changed {
		t.Fatal("sale transition must be a change")
	}
	confirm(t, done)

	got, err := repo.GetByID(original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 400000 || !got.Sold || got.SoldDate == nil || !got.SoldDate.Equal(sold) {
		t.Fatalf("sale transition not reflected: %+v", got)
	}
}

func TestBackToAvailableClearsSoldDate(t *testing.T) {
	st, repo := fixture(t)
	engine := services.NewUpdateEngine(st)

	sold := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	original := seeded(t, repo)
	original.Sold = true
	original.SoldDate = &sold
	if err := repo.Update(original); err != nil {
		t.Fatal(err)
	}

	edited := original
	edited.Sold = false
	// the engine drops the sold date on the way back to available
	done, changed := engine.Update(original, edited)
	if !changed {
		t.Fatal("status flip must be a change")
	}
	confirm(t, done)

	got, err := repo.GetByID(original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sold || got.SoldDate != nil {
		t.Fatalf("sold date must be cleared: %+v", got)
	}
}

func TestCollectionEditIsDetected(t *testing.T) {
	st, repo := fixture(t)
	engine := services.NewUpdateEngine(st)
	original := seeded(t, repo)

	edited := original
	edited.Photos = []domain.Photo{{URI: "media/new.jpg", Description: "Terrace"}}
	done, changed := engine.Update(original, edited)
	if !changed {
		t.Fatal("photo list edit must be a change")
	}
	confirm(t, done)

	// equal-by-value lists are not a change, even as distinct slices
	fresh, err := repo.GetByID(original.ID)
	if err != nil {
		t.Fatal(err)
	}
	copied := *fresh
	copied.Photos = append([]domain.Photo{}, fresh.Photos...)
	if _, changed := engine.Update(*fresh, copied); changed {
		t.Fatal("value-equal photo lists must not count as a change")
	}
}

func TestValidateSale(t *testing.T) {
	p := domain.Property{Sold: true}
	if err := services.ValidateSale(p); err == nil {
		t.Fatal("sold without a date must be rejected")
	}
	now := time.Now()
	p.SoldDate = &now
	if err := services.ValidateSale(p); err != nil {
		t.Fatal(err)
	}
	if err := services.ValidateSale(domain.Property{}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateDefaults(t *testing.T) {
	st, repo := fixture(t)
	svc := services.NewListingService(st)

	confirmInsert := svc.Create(domain.Property{Type: "Loft", Price: 220000, Surface: 80})
	select {
	case ok := <-confirmInsert:
		if !ok {
			t.Fatal("create must confirm")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("create did not confirm")
	}

	all, err := repo.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("want 1 listing, got %d", len(all))
	}
	if all[0].MarketDate.IsZero() {
		t.Fatal("market date must default to now")
	}
	if all[0].Photos == nil || all[0].PointsOfInterest == nil {
		t.Fatal("collections must default to empty")
	}
}
