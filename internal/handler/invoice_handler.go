package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// InvoiceServiceInterface defines the interface for invoice business logic.
type InvoiceServiceInterface interface {
	Create(ctx context.Context, merchantID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error)
}

// InvoiceHandler handles HTTP requests for invoice operations.
type InvoiceHandler struct {
	service   InvoiceServiceInterface
	validator *validator.Validate
}

// NewInvoiceHandler creates a new InvoiceHandler with the given service and validator.
func NewInvoiceHandler(svc InvoiceServiceInterface, v *validator.Validate) *InvoiceHandler {
	return &InvoiceHandler{service: svc, validator: v}
}

// CreateInvoice handles POST /api/v1/merchants/:merchant_id/invoices.
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	var req model.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	invoice, err := h.service.Create(c.Context(), merchantID, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create invoice")
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// ListInvoices handles GET /api/v1/merchants/:merchant_id/invoices with an
// optional ?status= filter.
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	invoices, err := h.service.ListByMerchant(c.Context(), merchantID, c.Query("status"))
	if err != nil {
		return respondServiceError(c, err, "failed to list invoices")
	}
	return c.JSON(invoices)
}
