package repos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"realtydesk/internal/domain"
)

type PropertyRepo struct{ db *sqlx.DB }

func NewPropertyRepo(db *sqlx.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// propertyRow is the flat storage shape: the embedded address as plain columns,
// photo/POI collections as JSON text, dates as epoch milliseconds.
type propertyRow struct {
	ID          int64         `db:"id"`
	Type        string        `db:"type"`
	Price       float64       `db:"price"`
	Surface     float64       `db:"surface"`
	Rooms       int           `db:"rooms"`
	Bathrooms   int           `db:"bathrooms"`
	Bedrooms    int           `db:"bedrooms"`
	Description string        `db:"description"`
	Street      string        `db:"street"`
	City        string        `db:"city"`
	State       string        `db:"state"`
	Zip         string        `db:"zip"`
	Country     string        `db:"country"`
	PhotosJSON  string        `db:"photos_json"`
	PoiJSON     string        `db:"poi_json"`
	IsSold      bool          `db:"is_sold"`
	MarketDate  int64         `db:"market_date"`
	SoldDate    sql.NullInt64 `db:"sold_date"`
	AgentName   string        `db:"agent_name"`
}

func toRow(p domain.Property) (propertyRow, error) {
	p.Normalize()
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return propertyRow{}, err
	}
	pois, err := json.Marshal(p.PointsOfInterest)
	if err != nil {
		return propertyRow{}, err
	}
	r := propertyRow{
		ID: p.ID, Type: p.Type, Price: p.Price, Surface: p.Surface,
		Rooms: p.Rooms, Bathrooms: p.Bathrooms, Bedrooms: p.Bedrooms,
		Description: p.Description,
		Street:      p.Address.Street, City: p.Address.City, State: p.Address.State,
		Zip: p.Address.Zip, Country: p.Address.Country,
		PhotosJSON: string(photos), PoiJSON: string(pois),
		IsSold:     p.Sold,
		MarketDate: p.MarketDate.UnixMilli(),
		AgentName:  p.AgentName,
	}
	if p.SoldDate != nil {
		r.SoldDate = sql.NullInt64{Int64: p.SoldDate.UnixMilli(), Valid: true}
	}
	return r, nil
}

func (r propertyRow) toDomain() (domain.Property, error) {
	p := domain.Property{
		ID: r.ID, Type: r.Type, Price: r.Price, Surface: r.Surface,
		Rooms: r.Rooms, Bathrooms: r.Bathrooms, Bedrooms: r.Bedrooms,
		Description: r.Description,
		Address: domain.Address{
			Street: r.Street, City: r.City, State: r.State, Zip: r.Zip, Country: r.Country,
		},
		Sold:       r.IsSold,
		MarketDate: time.UnixMilli(r.MarketDate),
		AgentName:  r.AgentName,
	}
	if r.SoldDate.Valid {
		t := time.UnixMilli(r.SoldDate.Int64)
		p.SoldDate = &t
	}
	if err := json.Unmarshal([]byte(r.PhotosJSON), &p.Photos); err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(r.PoiJSON), &p.PointsOfInterest); err != nil {
		return p, err
	}
	p.Normalize()
	return p, nil
}

const propertyColumns = `
  id, type, price, surface, rooms, bathrooms, bedrooms, description,
  street, city, state, zip, country, photos_json, poi_json,
  is_sold, market_date, sold_date, agent_name`

// Insert persists a new aggregate and returns the identity the store assigned.
func (r *PropertyRepo) Insert(p domain.Property) (int64, error) {
	row, err := toRow(p)
	if err != nil {
		return 0, err
	}
	res, err := r.db.NamedExec(`
  INSERT INTO property(
    type, price, surface, rooms, bathrooms, bedrooms, description,
    street, city, state, zip, country, photos_json, poi_json,
    is_sold, market_date, sold_date, agent_name
  ) VALUES (
    :type, :price, :surface, :rooms, :bathrooms, :bedrooms, :description,
    :street, :city, :state, :zip, :country, :photos_json, :poi_json,
    :is_sold, :market_date, :sold_date, :agent_name
  )`, row)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces every column of an existing row; last write wins.
func (r *PropertyRepo) Update(p domain.Property) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExec(`
  UPDATE property SET
    type = :type, price = :price, surface = :surface,
    rooms = :rooms, bathrooms = :bathrooms, bedrooms = :bedrooms,
    description = :description,
    street = :street, city = :city, state = :state, zip = :zip, country = :country,
    photos_json = :photos_json, poi_json = :poi_json,
    is_sold = :is_sold, market_date = :market_date, sold_date = :sold_date,
    agent_name = :agent_name
  WHERE id = :id`, row)
	return err
}

func (r *PropertyRepo) All() ([]domain.Property, error) {
	var rows []propertyRow
	err := r.db.Select(&rows, `SELECT`+propertyColumns+` FROM property ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return toDomainList(rows)
}

// GetByID returns (nil, nil) when no row matches: absence is not an error.
func (r *PropertyRepo) GetByID(id int64) (*domain.Property, error) {
	var row propertyRow
	err := r.db.Get(&row, `SELECT`+propertyColumns+` FROM property WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Search runs the single bounded query. Every numeric bound is disabled when 0
// and the location clause when empty; location matches as a case-insensitive
// substring of city or state. Result order is id order.
func (r *PropertyRepo) Search(c domain.SearchCriteria) ([]domain.Property, error) {
	args := map[string]any{
		"min_price":   c.MinPrice,
		"max_price":   c.MaxPrice,
		"min_surface": c.MinSurface,
		"max_surface": c.MaxSurface,
		"min_rooms":   c.MinRooms,
		"location":    c.Location,
	}
	rows, err := r.db.NamedQuery(`
  SELECT`+propertyColumns+` FROM property WHERE
    (:min_price = 0 OR price >= :min_price) AND
    (:max_price = 0 OR price <= :max_price) AND
    (:min_surface = 0 OR surface >= :min_surface) AND
    (:max_surface = 0 OR surface <= :max_surface) AND
    (:min_rooms = 0 OR rooms >= :min_rooms) AND
    (:location = '' OR LOWER(city) LIKE '%' || LOWER(:location) || '%'
                    OR LOWER(state) LIKE '%' || LOWER(:location) || '%')
  ORDER BY id`, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var row propertyRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PropertyRepo) DeleteByID(id int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM property WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll clears the table; administrative/test reset only.
func (r *PropertyRepo) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM property`)
	return err
}

func toDomainList(rows []propertyRow) ([]domain.Property, error) {
	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
