package services

import (
	"errors"

	"realtydesk/internal/domain"
	"realtydesk/internal/store"
)

// ErrSoldDateRequired is raised at the edit boundary when a property is marked
// sold without a sold date. The update engine itself never fabricates one.
var ErrSoldDateRequired = errors.New("sold property requires a sold date")

// UpdateEngine coalesces a user-edited aggregate into at most one store write.
type UpdateEngine struct {
	Store *store.Store
}

func NewUpdateEngine(st *store.Store) *UpdateEngine { return &UpdateEngine{Store: st} }

// Update dirty-checks edited against original field by field. When nothing
// differs it issues no write and returns (nil, false). When any field differs
// it writes the full edited aggregate exactly once and returns the store's
// confirmation channel. A Sold -> Available transition clears the sold date.
func (e *UpdateEngine) Update(original, edited domain.Property) (<-chan bool, bool) {
	if !edited.Sold {
		edited.SoldDate = nil
	}
	if original.Equal(edited) {
		return nil, false
	}
	return e.Store.Update(edited), true
}

// ValidateSale enforces the sale-status precondition before the engine runs:
// Available -> Sold requires the caller to have supplied a sold date.
func ValidateSale(p domain.Property) error {
	if p.Sold && p.SoldDate == nil {
		return ErrSoldDateRequired
	}
	return nil
}
