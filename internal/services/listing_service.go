package services

import (
	"time"

	"realtydesk/internal/domain"
	"realtydesk/internal/store"
)

// ListingService fronts the store for new listings: it applies creation
// defaults and hands back the insert confirmation channel so callers can gate
// side effects (notifications, redirects) on actual persistence.
type ListingService struct {
	Store *store.Store
}

func NewListingService(st *store.Store) *ListingService { return &ListingService{Store: st} }

// Create inserts a new listing. Market date defaults to now; the sold date is
// dropped unless the listing is created already sold.
func (s *ListingService) Create(p domain.Property) <-chan bool {
	p.Normalize()
	if p.MarketDate.IsZero() {
		p.MarketDate = time.Now()
	}
	if !p.Sold {
		p.SoldDate = nil
	}
	return s.Store.Insert(p)
}
