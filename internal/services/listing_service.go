package services

import (
	"database/sql"

	"supplyhub/internal/domain"
	"supplyhub/internal/policy"
	"supplyhub/internal/repos"
	"supplyhub/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingService struct {
	Listings *repos.ListingRepo
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings}
}

// ListingInput carries raw form values; everything is validated here before
// any store mutation.
type ListingInput struct {
	Category        string
	Name            string
	Description     string
	Quantity        string
	Unit            string
	LocationCountry string
	PricingMode     string
	UnitPrice       string
	IsActive        bool
}

// parse validates the input and applies the pricing invariant:
// fixed => unit price present and >= 0; rfq_only => unit price null.
func (in ListingInput) parse() (domain.Listing, error) {
	var l domain.Listing

	cat, ok := validate.Category(in.Category)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "invalid category")
	}
	name, ok := validate.ListingName(in.Name)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "name must be 3-100 characters")
	}
	desc, ok := validate.Description(in.Description)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "description must be at most 1000 characters")
	}
	qty, ok := validate.Quantity(in.Quantity)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "quantity must be an integer >= 0")
	}
	unit, ok := validate.Unit(in.Unit)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "invalid unit")
	}
	country, ok := validate.Country(in.LocationCountry)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "location country is required")
	}
	mode, ok := validate.PricingMode(in.PricingMode)
	if !ok {
		return l, domain.Errf(domain.KindValidation, "invalid pricing mode")
	}

	var price decimal.NullDecimal
	if mode == domain.PricingFixed {
		d, ok := validate.Price(in.UnitPrice)
		if !ok {
			return l, domain.Errf(domain.KindValidation, "unit price is required and must be >= 0 for fixed pricing")
		}
		price = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	l = domain.Listing{
		Category:        cat,
		Name:            name,
		Description:     desc,
		QuantityAvail:   qty,
		Unit:            unit,
		LocationCountry: country,
		PricingMode:     mode,
		UnitPrice:       price,
		IsActive:        in.IsActive,
	}
	return l, nil
}

func (s *ListingService) Create(p policy.Principal, in ListingInput) (domain.Listing, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return domain.Listing{}, err
	}
	l, err := in.parse()
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = uuid.NewString()
	l.SupplierID = p.UserID
	if err := s.Listings.Create(&l); err != nil {
		return domain.Listing{}, err
	}
	return s.Listings.Get(l.ID)
}

func (s *ListingService) Update(p policy.Principal, listingID string, in ListingInput) (domain.Listing, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return domain.Listing{}, err
	}
	existing, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, domain.Errf(domain.KindNotFound, "listing not found")
		}
		return domain.Listing{}, err
	}
	if err := policy.RequireOwner(p, existing.SupplierID); err != nil {
		return domain.Listing{}, err
	}
	l, err := in.parse()
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = existing.ID
	l.SupplierID = existing.SupplierID
	if err := s.Listings.Update(&l); err != nil {
		return domain.Listing{}, err
	}
	return s.Listings.Get(l.ID)
}

func (s *ListingService) Get(id string) (domain.Listing, error) {
	l, err := s.Listings.Get(id)
	if err == sql.ErrNoRows {
		return l, domain.Errf(domain.KindNotFound, "listing not found")
	}
	return l, err
}

// Marketplace lists active listings, optionally narrowed by category.
// Unknown category values fall back to "all".
func (s *ListingService) Marketplace(category string) ([]repos.ListingRow, error) {
	active := true
	f := repos.ListFilter{IsActive: &active}
	if c, ok := validate.Category(category); ok {
		f.Category = c
	}
	return s.Listings.List(f)
}

// Mine returns every listing owned by the supplier, active or not.
func (s *ListingService) Mine(p policy.Principal) ([]domain.Listing, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return nil, err
	}
	return s.Listings.ListBySupplier(p.UserID)
}
