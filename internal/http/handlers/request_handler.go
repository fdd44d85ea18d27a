package handlers

import (
	applog "supplyhub/internal/log"
	"supplyhub/internal/services"
	"supplyhub/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	Requests *services.RequestService
}

// Create files a purchase/quote request from the marketplace form.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.FormValue("listing_id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "listing_id"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid listing")
	}
	qty, ok := validate.RequestedQuantity(c.FormValue("requested_quantity"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "requested_quantity"})
		return c.Status(fiber.StatusBadRequest).SendString("quantity must be a positive integer")
	}

	q, err := h.Requests.Create(principalFrom(c), listingID, qty, c.FormValue("message"))
	if err != nil {
		applog.Security(c, "request.create.fail", map[string]any{"listing_id": listingID, "error": err.Error()})
		return c.Status(httpStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "request.create", map[string]any{"request_id": q.ID, "listing_id": listingID, "qty": qty})
	return c.Redirect("/my-requests")
}

// Incoming renders the supplier's request queue.
func (h *RequestHandler) Incoming(c *fiber.Ctx) error {
	rows, err := h.Requests.IncomingForSupplier(principalFrom(c))
	if err != nil {
		applog.Error(c, "requests.incoming.load", err, nil)
		return c.Status(httpStatus(err)).Render("notfound", fiber.Map{"Message": "Could not load requests"})
	}
	return render(c, "requests_incoming", fiber.Map{"Requests": rows})
}

// Mine renders the buyer's own requests.
func (h *RequestHandler) Mine(c *fiber.Ctx) error {
	rows, err := h.Requests.MineForBuyer(principalFrom(c))
	if err != nil {
		applog.Error(c, "requests.mine.load", err, nil)
		return c.Status(httpStatus(err)).Render("notfound", fiber.Map{"Message": "Could not load your requests"})
	}
	return render(c, "requests_mine", fiber.Map{"Requests": rows})
}

// UpdateStatus accepts or rejects a pending request.
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request id")
	}
	status := c.FormValue("status")

	q, err := h.Requests.SetStatus(principalFrom(c), id, status)
	if err != nil {
		applog.Security(c, "request.status.fail", map[string]any{"request_id": id, "status": status, "error": err.Error()})
		return c.Status(httpStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "request.status", map[string]any{"request_id": q.ID, "status": q.Status})
	return c.Redirect("/requests")
}

// MarkPaid flips an accepted fixed-price request to marked_paid.
func (h *RequestHandler) MarkPaid(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request id")
	}

	q, err := h.Requests.MarkPaid(principalFrom(c), id)
	if err != nil {
		applog.Security(c, "request.payment.fail", map[string]any{"request_id": id, "error": err.Error()})
		return c.Status(httpStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "request.payment", map[string]any{"request_id": q.ID})
	return c.Redirect("/requests")
}

// ---------- JSON API (/api/v1) ----------

type statusBody struct {
	Status string `json:"status"`
}

func (h *RequestHandler) UpdateStatusAPI(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	q, err := h.Requests.SetStatus(principalFrom(c), id, body.Status)
	if err != nil {
		return c.Status(httpStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "request.status", map[string]any{"request_id": q.ID, "status": q.Status})
	return c.JSON(requestJSON(q))
}

func (h *RequestHandler) MarkPaidAPI(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}

	q, err := h.Requests.MarkPaid(principalFrom(c), id)
	if err != nil {
		return c.Status(httpStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "request.payment", map[string]any{"request_id": q.ID})
	return c.JSON(requestJSON(q))
}
