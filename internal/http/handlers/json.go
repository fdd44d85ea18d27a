package handlers

import (
	"supplyhub/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// requestJSON shapes a request for the API. Money fields serialize as decimal
// strings; null when the snapshot is RFQ.
func requestJSON(q domain.Request) fiber.Map {
	var unitPrice, total any
	if q.UnitPriceSnapshot.Valid {
		unitPrice = q.UnitPriceSnapshot.Decimal.String()
	}
	if q.TotalAmount.Valid {
		total = q.TotalAmount.Decimal.String()
	}
	return fiber.Map{
		"id":                    q.ID,
		"listing_id":            q.ListingID,
		"buyer_id":              q.BuyerID,
		"supplier_id":           q.SupplierID,
		"requested_quantity":    q.RequestedQuantity,
		"message":               q.Message,
		"pricing_mode_snapshot": q.PricingModeSnapshot,
		"unit_price_snapshot":   unitPrice,
		"total_amount":          total,
		"status":                q.Status,
		"payment_status":        q.PaymentStatus,
		"created_at":            q.CreatedAt,
	}
}
