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

// RequestService is the request lifecycle engine: it creates requests with a
// pricing snapshot and enforces the legal status/payment transitions.
//
// Status:  pending -> accepted | rejected (one-shot; terminal)
// Payment: unpaid -> marked_paid, only from (accepted, fixed); terminal
type RequestService struct {
	Listings *repos.ListingRepo
	Requests *repos.RequestRepo
}

func NewRequestService(listings *repos.ListingRepo, requests *repos.RequestRepo) *RequestService {
	return &RequestService{Listings: listings, Requests: requests}
}

// Create files a buyer request against a listing, copying the listing's
// pricing mode and unit price by value. Later listing edits cannot alter the
// request's terms. Stock is informational only; quantity_available is not
// decremented.
func (s *RequestService) Create(p policy.Principal, listingID string, requestedQty int, message string) (domain.Request, error) {
	if err := policy.RequireRole(p, domain.RoleBuyer); err != nil {
		return domain.Request{}, err
	}
	if requestedQty < 1 {
		return domain.Request{}, domain.Errf(domain.KindValidation, "quantity must be a positive integer")
	}
	message, ok := validate.Message(message)
	if !ok {
		return domain.Request{}, domain.Errf(domain.KindValidation, "message must be at most 1000 characters")
	}

	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Request{}, domain.Errf(domain.KindNotFound, "listing not found")
		}
		return domain.Request{}, err
	}
	if !l.IsActive {
		return domain.Request{}, domain.Errf(domain.KindInvalidState, "listing is no longer active")
	}

	var total decimal.NullDecimal
	if l.PricingMode == domain.PricingFixed && l.UnitPrice.Valid {
		total = decimal.NullDecimal{
			Decimal: l.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(requestedQty))),
			Valid:   true,
		}
	}

	q := domain.Request{
		ID:                  uuid.NewString(),
		ListingID:           l.ID,
		BuyerID:             p.UserID,
		SupplierID:          l.SupplierID,
		RequestedQuantity:   requestedQty,
		Message:             message,
		PricingModeSnapshot: l.PricingMode,
		UnitPriceSnapshot:   l.UnitPrice,
		TotalAmount:         total,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentUnpaid,
	}
	if err := s.Requests.Create(&q); err != nil {
		return domain.Request{}, err
	}
	return s.Requests.Get(q.ID)
}

// SetStatus accepts or rejects a pending request. Both outcomes are terminal;
// a request that has left pending cannot transition again.
func (s *RequestService) SetStatus(p policy.Principal, requestID, newStatus string) (domain.Request, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return domain.Request{}, err
	}
	if newStatus != domain.StatusAccepted && newStatus != domain.StatusRejected {
		return domain.Request{}, domain.Errf(domain.KindValidation, "status must be accepted or rejected")
	}

	q, err := s.get(requestID)
	if err != nil {
		return domain.Request{}, err
	}
	if err := policy.RequireOwner(p, q.SupplierID); err != nil {
		return domain.Request{}, err
	}
	if q.Status != domain.StatusPending {
		return domain.Request{}, domain.Errf(domain.KindInvalidState, "request is already "+q.Status)
	}

	if err := s.Requests.UpdateStatus(q.ID, newStatus); err != nil {
		return domain.Request{}, err
	}
	return s.Requests.Get(q.ID)
}

// MarkPaid flips the payment status of an accepted fixed-price request.
// Re-invoking on an already-paid request is a no-op success.
func (s *RequestService) MarkPaid(p policy.Principal, requestID string) (domain.Request, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return domain.Request{}, err
	}

	q, err := s.get(requestID)
	if err != nil {
		return domain.Request{}, err
	}
	if err := policy.RequireOwner(p, q.SupplierID); err != nil {
		return domain.Request{}, err
	}
	if q.PaymentStatus == domain.PaymentMarkedPaid {
		return q, nil
	}
	if q.Status != domain.StatusAccepted {
		return domain.Request{}, domain.Errf(domain.KindInvalidState, "can only mark accepted requests as paid")
	}
	if q.PricingModeSnapshot != domain.PricingFixed {
		return domain.Request{}, domain.Errf(domain.KindInvalidState, "can only mark fixed-price requests as paid")
	}

	if err := s.Requests.UpdatePayment(q.ID, domain.PaymentMarkedPaid); err != nil {
		return domain.Request{}, err
	}
	return s.Requests.Get(q.ID)
}

// IncomingForSupplier lists requests against the supplier's listings.
func (s *RequestService) IncomingForSupplier(p policy.Principal) ([]repos.IncomingRow, error) {
	if err := policy.RequireRole(p, domain.RoleSupplier); err != nil {
		return nil, err
	}
	return s.Requests.ListBySupplier(p.UserID)
}

// MineForBuyer lists the buyer's own requests.
func (s *RequestService) MineForBuyer(p policy.Principal) ([]repos.OutgoingRow, error) {
	if err := policy.RequireRole(p, domain.RoleBuyer); err != nil {
		return nil, err
	}
	return s.Requests.ListByBuyer(p.UserID)
}

func (s *RequestService) get(id string) (domain.Request, error) {
	q, err := s.Requests.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return q, domain.Errf(domain.KindNotFound, "request not found")
		}
		return q, err
	}
	return q, nil
}
