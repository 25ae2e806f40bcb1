package domain

import "time"

// Address is a value type owned by its Property; it has no identity of its own.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Photo struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

type PointOfInterest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Property is the persisted aggregate: descriptive fields, an embedded Address
// and the owned Photo / PointOfInterest collections. ID is assigned by the
// store on insert and never changes afterwards.
type Property struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Surface     float64 `json:"surface"`
	Rooms       int     `json:"rooms"`
	Bathrooms   int     `json:"bathrooms"`
	Bedrooms    int     `json:"bedrooms"`
	Description string  `json:"description"`

	Address Address `json:"address"`

	Photos           []Photo           `json:"photos"`
	PointsOfInterest []PointOfInterest `json:"pointsOfInterest"`

	Sold       bool       `json:"isSold"`
	MarketDate time.Time  `json:"marketDate"`
	SoldDate   *time.Time `json:"soldDate,omitempty"` // set only while Sold is true
	AgentName  string     `json:"agentName"`
}

// Normalize ensures the owned collections read as empty sequences, never nil.
func (p *Property) Normalize() {
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	if p.PointsOfInterest == nil {
		p.PointsOfInterest = []PointOfInterest{}
	}
}

// Equal reports whether every mutable field matches. The identity is not
// compared; collections are compared element-wise and dates instant-for-instant
// with both-nil counting as equal.
func (p Property) Equal(o Property) bool {
	if p.Type != o.Type || p.Price != o.Price || p.Surface != o.Surface ||
		p.Rooms != o.Rooms || p.Bathrooms != o.Bathrooms || p.Bedrooms != o.Bedrooms ||
		p.Description != o.Description || p.Address != o.Address ||
		p.AgentName != o.AgentName || p.Sold != o.Sold {
		return false
	}
	if !p.MarketDate.Equal(o.MarketDate) {
		return false
	}
	// soldDate only carries meaning while the property is sold
	if p.Sold && !DatesEqual(p.SoldDate, o.SoldDate) {
		return false
	}
	return PhotosEqual(p.Photos, o.Photos) && PointsOfInterestEqual(p.PointsOfInterest, o.PointsOfInterest)
}

// DatesEqual treats two nil dates as equal and mixed nil/non-nil as different.
func DatesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func PhotosEqual(a, b []Photo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func PointsOfInterestEqual(a, b []PointOfInterest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
