package domain

// SearchCriteria is the ephemeral filter description consumed by the search
// engine. A zero numeric bound or an empty location means "unconstrained" on
// that dimension; the engine never validates min against max.
type SearchCriteria struct {
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
	MinSurface float64 `json:"minSurface"`
	MaxSurface float64 `json:"maxSurface"`
	MinRooms   int     `json:"minRooms"`
	MinPhotos  int     `json:"minPhotos"`
	Location   string  `json:"location"`
}

// Unconstrained reports whether every dimension is left open, in which case
// the criteria filters nothing.
func (c SearchCriteria) Unconstrained() bool {
	return c.MinPrice == 0 && c.MaxPrice == 0 &&
		c.MinSurface == 0 && c.MaxSurface == 0 &&
		c.MinRooms == 0 && c.MinPhotos == 0 && c.Location == ""
}
