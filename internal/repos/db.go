package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"realtydesk/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer; one pooled connection also keeps :memory:
	// databases from splitting across connections
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo listings if the table is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Properties: one row per aggregate. Photo and point-of-interest collections
-- are serialized into single JSON text columns; dates are epoch milliseconds.
CREATE TABLE IF NOT EXISTS property(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  price REAL NOT NULL CHECK (price >= 0),
  surface REAL NOT NULL CHECK (surface >= 0),
  rooms INTEGER NOT NULL DEFAULT 0 CHECK (rooms >= 0),
  bathrooms INTEGER NOT NULL DEFAULT 0 CHECK (bathrooms >= 0),
  bedrooms INTEGER NOT NULL DEFAULT 0 CHECK (bedrooms >= 0),
  description TEXT NOT NULL DEFAULT '',
  street TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  photos_json TEXT NOT NULL DEFAULT '[]',
  poi_json TEXT NOT NULL DEFAULT '[]',
  is_sold INTEGER NOT NULL DEFAULT 0,
  market_date INTEGER NOT NULL,
  sold_date INTEGER,
  agent_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_property_price   ON property(price);
CREATE INDEX IF NOT EXISTS idx_property_surface ON property(surface);
CREATE INDEX IF NOT EXISTS idx_property_city    ON property(LOWER(city));
CREATE INDEX IF NOT EXISTS idx_property_state   ON property(LOWER(state));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM property`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	repo := NewPropertyRepo(db)
	for _, p := range SeedListings() {
		if _, err := repo.Insert(p); err != nil {
			return err
		}
	}
	return nil
}

// SeedListings returns the demo properties inserted into an empty database.
func SeedListings() []domain.Property {
	now := time.Now()
	return []domain.Property{
		{
			Type: "Condo", Price: 9800000, Surface: 1072,
			Rooms: 8, Bathrooms: 2, Bedrooms: 4,
			Description: "Luxury condo featuring 4 bedrooms, 2 baths, and breathtaking views of Manhattan.",
			Address:     domain.Address{Street: "127 W 57th St", City: "Manhattan", State: "NY", Zip: "10019", Country: "USA"},
			Photos: []domain.Photo{
				{URI: "media/home1/photo1.jpg", Description: "Living Room"},
				{URI: "media/home1/photo2.jpg", Description: "Master Bedroom"},
				{URI: "media/home1/photo3.jpg", Description: "Office Room"},
				{URI: "media/home1/photo4.jpg", Description: "Dining Room"},
			},
			PointsOfInterest: []domain.PointOfInterest{
				{Name: "Central Park", Type: "Park"},
				{Name: "Broadway Theater", Type: "Entertainment"},
			},
			MarketDate: now, AgentName: "John Doe",
		},
		{
			Type: "House", Price: 3750000, Surface: 2450,
			Rooms: 10, Bathrooms: 3, Bedrooms: 5,
			Description: "Spacious family house with a large garden and a two-car garage.",
			Address:     domain.Address{Street: "482 Ocean Ave", City: "San Francisco", State: "CA", Zip: "94112", Country: "USA"},
			Photos: []domain.Photo{
				{URI: "media/home2/photo1.jpg", Description: "Front View"},
				{URI: "media/home2/photo2.jpg", Description: "Garden"},
			},
			PointsOfInterest: []domain.PointOfInterest{
				{Name: "Balboa Park", Type: "Park"},
				{Name: "City College", Type: "School"},
			},
			MarketDate: now, AgentName: "Alice Smith",
		},
		{
			Type: "Studio", Price: 420000, Surface: 480,
			Rooms: 2, Bathrooms: 1, Bedrooms: 1,
			Description: "Bright downtown studio, walking distance to the subway.",
			Address:     domain.Address{Street: "221 Broadway", City: "New York", State: "NY", Zip: "10007", Country: "USA"},
			Photos: []domain.Photo{
				{URI: "media/home3/photo1.jpg", Description: "Main Room"},
			},
			MarketDate: now, AgentName: "Luxury Realty",
		},
	}
}
