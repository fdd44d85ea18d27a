package handlers

import (
	"supplyhub/internal/domain"
	applog "supplyhub/internal/log"
	"supplyhub/internal/services"
	"supplyhub/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// Home renders the marketplace: active listings, optionally filtered by
// category via ?category=.
func (h *ListingHandler) Home(c *fiber.Ctx) error {
	category := c.Query("category")
	rows, err := h.Listings.Marketplace(category)
	if err != nil {
		applog.Error(c, "marketplace.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	return render(c, "home", fiber.Map{"Listings": rows, "Category": category})
}

// Mine lists the supplier's own listings, active or not.
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	rows, err := h.Listings.Mine(principalFrom(c))
	if err != nil {
		applog.Error(c, "listings.mine.load", err, nil)
		return c.Status(httpStatus(err)).Render("notfound", fiber.Map{"Message": "Could not load your listings"})
	}
	return render(c, "listings_mine", fiber.Map{"Listings": rows})
}

func (h *ListingHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "listing_form", fiber.Map{
		"Action": "/listings", "IsActive": true,
		"Category": "", "Name": "", "Description": "", "Quantity": "",
		"Unit": "", "Country": "", "PricingMode": "", "UnitPrice": "",
	})
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	in := listingInputFrom(c, true)
	l, err := h.Listings.Create(principalFrom(c), in)
	if err != nil {
		applog.Security(c, "listing.create.fail", map[string]any{"error": err.Error()})
		return render(c.Status(httpStatus(err)), "listing_form", formState(in, "/listings", err))
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": l.ID})
	return c.Redirect("/listings/mine")
}

func (h *ListingHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
	}
	l, err := h.Listings.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
	}
	u, _ := c.Locals("user").(*domain.User)
	if u == nil || u.ID != l.SupplierID {
		applog.Security(c, "access.denied.listing", map[string]any{"listing_id": id})
		return c.Status(403).Render("notfound", fiber.Map{"Message": "Access denied"})
	}
	price := ""
	if l.UnitPrice.Valid {
		price = l.UnitPrice.Decimal.String()
	}
	return render(c, "listing_form", fiber.Map{
		"Action": "/listings/" + l.ID, "Editing": true,
		"Category": l.Category, "Name": l.Name, "Description": l.Description,
		"Quantity": l.QuantityAvail, "Unit": l.Unit, "Country": l.LocationCountry,
		"PricingMode": l.PricingMode, "UnitPrice": price, "IsActive": l.IsActive,
	})
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
	}
	in := listingInputFrom(c, c.FormValue("is_active") == "on")
	l, err := h.Listings.Update(principalFrom(c), id, in)
	if err != nil {
		applog.Security(c, "listing.update.fail", map[string]any{"listing_id": id, "error": err.Error()})
		if domain.KindOf(err) == domain.KindValidation {
			return render(c.Status(400), "listing_form", formState(in, "/listings/"+id, err))
		}
		return c.Status(httpStatus(err)).Render("notfound", fiber.Map{"Message": "Listing not found or access denied"})
	}
	applog.Audit(c, "listing.update", map[string]any{"listing_id": l.ID, "active": l.IsActive})
	return c.Redirect("/listings/mine")
}

func listingInputFrom(c *fiber.Ctx, active bool) services.ListingInput {
	return services.ListingInput{
		Category:        c.FormValue("category"),
		Name:            c.FormValue("name"),
		Description:     c.FormValue("description"),
		Quantity:        c.FormValue("quantity_available"),
		Unit:            c.FormValue("unit"),
		LocationCountry: c.FormValue("location_country"),
		PricingMode:     c.FormValue("pricing_mode"),
		UnitPrice:       c.FormValue("unit_price"),
		IsActive:        active,
	}
}

// formState re-populates the listing form after a validation failure.
func formState(in services.ListingInput, action string, err error) fiber.Map {
	return fiber.Map{
		"Action": action, "Err": err.Error(), "Editing": action != "/listings",
		"Category": in.Category, "Name": in.Name, "Description": in.Description,
		"Quantity": in.Quantity, "Unit": in.Unit, "Country": in.LocationCountry,
		"PricingMode": in.PricingMode, "UnitPrice": in.UnitPrice, "IsActive": in.IsActive,
	}
}
