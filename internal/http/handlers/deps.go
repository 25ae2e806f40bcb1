package handlers

import (
	"github.com/jmoiron/sqlx"

	"realtydesk/internal/config"
	"realtydesk/internal/geo"
	"realtydesk/internal/repos"
	"realtydesk/internal/search"
	"realtydesk/internal/services"
	"realtydesk/internal/store"
)

type Deps struct {
	Store  *store.Store
	Engine *search.Engine

	PropertyHandler *PropertyHandler
	SearchHandler   *SearchHandler
	PagesHandler    *PagesHandler
	GeoHandler      *GeoHandler
	ToolsHandler    *ToolsHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	repo := repos.NewPropertyRepo(db)
	st := store.New(repo)
	engine := search.NewEngine(st)

	listingSvc := services.NewListingService(st)
	updateEngine := services.NewUpdateEngine(st)

	return &Deps{
		Store:  st,
		Engine: engine,
		PropertyHandler: &PropertyHandler{
			Repo: repo, Listings: listingSvc, Updates: updateEngine, Store: st,
		},
		SearchHandler: &SearchHandler{Repo: repo, Engine: engine},
		PagesHandler:  &PagesHandler{Repo: repo},
		GeoHandler:    &GeoHandler{Geocoder: geo.NewNominatimClient(cfg.NominatimURL), Cfg: cfg},
		ToolsHandler:  &ToolsHandler{},
		AdminHandler:  &AdminHandler{Store: st},
	}
}

// Close tears down the reactive layer; safe to call once at shutdown.
func (d *Deps) Close() {
	d.Engine.Close()
	d.Store.Close()
}
