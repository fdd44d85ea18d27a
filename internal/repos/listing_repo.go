package repos

import (
	"supplyhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// ListingRow joins the supplier display name for the marketplace page.
type ListingRow struct {
	domain.Listing
	SupplierName string `db:"supplier_name"`
}

// ListFilter narrows the marketplace query. Nil fields mean "any".
type ListFilter struct {
	IsActive *bool
	Category string
}

const listingCols = `
  id, supplier_id, category, name, description, quantity_available, unit,
  location_country, pricing_mode, unit_price, is_active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	return l, err
}

func (r *ListingRepo) Create(l *domain.Listing) error {
	_, err := r.db.Exec(`
	  INSERT INTO listings
	    (id, supplier_id, category, name, description, quantity_available, unit,
	     location_country, pricing_mode, unit_price, is_active, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, l.ID, l.SupplierID, l.Category, l.Name, l.Description, l.QuantityAvail,
		l.Unit, l.LocationCountry, l.PricingMode, l.UnitPrice, l.IsActive)
	return err
}

func (r *ListingRepo) Update(l *domain.Listing) error {
	_, err := r.db.Exec(`
	  UPDATE listings SET
	    category=?, name=?, description=?, quantity_available=?, unit=?,
	    location_country=?, pricing_mode=?, unit_price=?, is_active=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, l.Category, l.Name, l.Description, l.QuantityAvail, l.Unit,
		l.LocationCountry, l.PricingMode, l.UnitPrice, l.IsActive, l.ID)
	return err
}

// List returns marketplace listings newest first. Ordering is display-only.
func (r *ListingRepo) List(f ListFilter) ([]ListingRow, error) {
	where := `1=1`
	args := []any{}
	if f.IsActive != nil {
		where += ` AND l.is_active = ?`
		if *f.IsActive {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	if f.Category != "" {
		where += ` AND l.category = ?`
		args = append(args, f.Category)
	}

	var out []ListingRow
	err := r.db.Select(&out, `
	  SELECT l.id, l.supplier_id, l.category, l.name, l.description,
	         l.quantity_available, l.unit, l.location_country, l.pricing_mode,
	         l.unit_price, l.is_active, l.created_at,
	         COALESCE(l.updated_at,'') AS updated_at,
	         u.name AS supplier_name
	  FROM listings l
	  JOIN users u ON u.id = l.supplier_id
	  WHERE `+where+`
	  ORDER BY datetime(l.created_at) DESC, l.id DESC
	`, args...)
	return out, err
}

func (r *ListingRepo) ListBySupplier(supplierID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE supplier_id = ?
	  ORDER BY datetime(created_at) DESC, id DESC
	`, supplierID)
	return out, err
}
