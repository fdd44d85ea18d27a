package domain

import "github.com/shopspring/decimal"

// Listing enums
const (
	CategoryRawMaterial = "raw_material"
	CategoryService     = "service"
	CategoryOther       = "other"

	UnitKg    = "kg"
	UnitTon   = "ton"
	UnitLitre = "litre"
	UnitUnit  = "unit"

	PricingFixed   = "fixed"
	PricingRFQOnly = "rfq_only"
)

// Request lifecycle enums
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"

	PaymentUnpaid     = "unpaid"
	PaymentMarkedPaid = "marked_paid"
)

type Listing struct {
	ID              string              `db:"id"`
	SupplierID      string              `db:"supplier_id"`
	Category        string              `db:"category"`
	Name            string              `db:"name"`
	Description     string              `db:"description"`
	QuantityAvail   int                 `db:"quantity_available"`
	Unit            string              `db:"unit"`
	LocationCountry string              `db:"location_country"`
	PricingMode     string              `db:"pricing_mode"`
	UnitPrice       decimal.NullDecimal `db:"unit_price"` // null unless pricing_mode=fixed
	IsActive        bool                `db:"is_active"`
	CreatedAt       string              `db:"created_at"`
	UpdatedAt       string              `db:"updated_at"`
}

// Request carries a point-in-time pricing snapshot copied from the listing
// at creation; later listing edits never alter an existing request's terms.
type Request struct {
	ID                  string              `db:"id"`
	ListingID           string              `db:"listing_id"`
	BuyerID             string              `db:"buyer_id"`
	SupplierID          string              `db:"supplier_id"`
	RequestedQuantity   int                 `db:"requested_quantity"`
	Message             string              `db:"message"`
	PricingModeSnapshot string              `db:"pricing_mode_snapshot"`
	UnitPriceSnapshot   decimal.NullDecimal `db:"unit_price_snapshot"`
	TotalAmount         decimal.NullDecimal `db:"total_amount"` // unit_price_snapshot * requested_quantity when fixed
	Status              string              `db:"status"`
	PaymentStatus       string              `db:"payment_status"`
	CreatedAt           string              `db:"created_at"`
}
