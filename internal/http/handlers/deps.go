package handlers

import (
	"supplyhub/internal/config"
	"supplyhub/internal/repos"
	"supplyhub/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ListingHandler   *ListingHandler
	RequestHandler   *RequestHandler
	DashboardHandler *DashboardHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	requestRepo := repos.NewRequestRepo(db)

	listingSvc := services.NewListingService(listingRepo)
	requestSvc := services.NewRequestService(listingRepo, requestRepo)

	return &Deps{
		ListingHandler:   &ListingHandler{Listings: listingSvc},
		RequestHandler:   &RequestHandler{Requests: requestSvc},
		DashboardHandler: &DashboardHandler{},
	}
}
