package repos

import (
	"supplyhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RequestRepo struct{ db *sqlx.DB }

func NewRequestRepo(db *sqlx.DB) *RequestRepo { return &RequestRepo{db: db} }

// IncomingRow is what the supplier's request queue renders: the request plus
// listing name/unit and buyer identity.
type IncomingRow struct {
	domain.Request
	ListingName string `db:"listing_name"`
	ListingUnit string `db:"listing_unit"`
	BuyerName   string `db:"buyer_name"`
	BuyerEmail  string `db:"buyer_email"`
}

// OutgoingRow is the buyer's view: the request plus listing name/unit and
// supplier name.
type OutgoingRow struct {
	domain.Request
	ListingName  string `db:"listing_name"`
	ListingUnit  string `db:"listing_unit"`
	SupplierName string `db:"supplier_name"`
}

const requestCols = `
  id, listing_id, buyer_id, supplier_id, requested_quantity, message,
  pricing_mode_snapshot, unit_price_snapshot, total_amount,
  status, payment_status, created_at`

func (r *RequestRepo) Get(id string) (domain.Request, error) {
	var q domain.Request
	err := r.db.Get(&q, `SELECT `+requestCols+` FROM requests WHERE id = ?`, id)
	return q, err
}

func (r *RequestRepo) Create(q *domain.Request) error {
	_, err := r.db.Exec(`
	  INSERT INTO requests
	    (id, listing_id, buyer_id, supplier_id, requested_quantity, message,
	     pricing_mode_snapshot, unit_price_snapshot, total_amount,
	     status, payment_status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, q.ID, q.ListingID, q.BuyerID, q.SupplierID, q.RequestedQuantity, q.Message,
		q.PricingModeSnapshot, q.UnitPriceSnapshot, q.TotalAmount,
		q.Status, q.PaymentStatus)
	return err
}

func (r *RequestRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE requests SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *RequestRepo) UpdatePayment(id, paymentStatus string) error {
	_, err := r.db.Exec(`UPDATE requests SET payment_status = ? WHERE id = ?`, paymentStatus, id)
	return err
}

// ListBySupplier returns the supplier's incoming requests, newest first.
func (r *RequestRepo) ListBySupplier(supplierID string) ([]IncomingRow, error) {
	var out []IncomingRow
	err := r.db.Select(&out, `
	  SELECT q.id, q.listing_id, q.buyer_id, q.supplier_id, q.requested_quantity,
	         q.message, q.pricing_mode_snapshot, q.unit_price_snapshot,
	         q.total_amount, q.status, q.payment_status, q.created_at,
	         l.name AS listing_name, l.unit AS listing_unit,
	         b.name AS buyer_name, b.email AS buyer_email
	  FROM requests q
	  JOIN listings l ON l.id = q.listing_id
	  JOIN users b ON b.id = q.buyer_id
	  WHERE q.supplier_id = ?
	  ORDER BY datetime(q.created_at) DESC, q.id DESC
	`, supplierID)
	return out, err
}

// ListByBuyer returns the buyer's own requests, newest first.
func (r *RequestRepo) ListByBuyer(buyerID string) ([]OutgoingRow, error) {
	var out []OutgoingRow
	err := r.db.Select(&out, `
	  SELECT q.id, q.listing_id, q.buyer_id, q.supplier_id, q.requested_quantity,
	         q.message, q.pricing_mode_snapshot, q.unit_price_snapshot,
	         q.total_amount, q.status, q.payment_status, q.created_at,
	         l.name AS listing_name, l.unit AS listing_unit,
	         s.name AS supplier_name
	  FROM requests q
	  JOIN listings l ON l.id = q.listing_id
	  JOIN users s ON s.id = q.supplier_id
	  WHERE q.buyer_id = ?
	  ORDER BY datetime(q.created_at) DESC, q.id DESC
	`, buyerID)
	return out, err
}
