package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// MerchantServiceInterface defines the interface for merchant business logic.
type MerchantServiceInterface interface {
	Create(ctx context.Context, req *model.CreateMerchantRequest) (*model.Merchant, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Merchant, error)
	List(ctx context.Context, invoiceStatus string) ([]model.Merchant, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateMerchantRequest) (*model.Merchant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, id uuid.UUID) (*model.MerchantSummary, error)
	DistinctCustomers(ctx context.Context, id uuid.UUID) ([]model.Customer, error)
}

// MerchantHandler handles HTTP requests for merchant operations.
type MerchantHandler struct {
	service   MerchantServiceInterface
	validator *validator.Validate
}

// NewMerchantHandler creates a new MerchantHandler with the given service and validator.
func NewMerchantHandler(svc MerchantServiceInterface, v *validator.Validate) *MerchantHandler {
	return &MerchantHandler{service: svc, validator: v}
}

// CreateMerchant handles POST /api/v1/merchants.
func (h *MerchantHandler) CreateMerchant(c *fiber.Ctx) error {
	var req model.CreateMerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	merchant, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create merchant")
	}
	return c.Status(fiber.StatusCreated).JSON(merchant)
}

// GetMerchant handles GET /api/v1/merchants/:id.
func (h *MerchantHandler) GetMerchant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	merchant, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err, "failed to get merchant")
	}
	return c.JSON(merchant)
}

// ListMerchants handles GET /api/v1/merchants, newest first. The optional
// ?status= query narrows to merchants with at least one invoice of that
// status.
func (h *MerchantHandler) ListMerchants(c *fiber.Ctx) error {
	merchants, err := h.service.List(c.Context(), c.Query("status"))
	if err != nil {
		return respondServiceError(c, err, "failed to list merchants")
	}
	return c.JSON(merchants)
}

// UpdateMerchant handles PATCH /api/v1/merchants/:id.
func (h *MerchantHandler) UpdateMerchant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	var req model.UpdateMerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	merchant, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to update merchant")
	}
	return c.JSON(merchant)
}

// DeleteMerchant handles DELETE /api/v1/merchants/:id. Owned items,
// invoices, and coupons are removed by the schema's cascade.
func (h *MerchantHandler) DeleteMerchant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err, "failed to delete merchant")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSummary handles GET /api/v1/merchants/:id/summary.
func (h *MerchantHandler) GetSummary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	summary, err := h.service.Summary(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err, "failed to build merchant summary")
	}
	return c.JSON(summary)
}

// ListCustomers handles GET /api/v1/merchants/:id/customers.
func (h *MerchantHandler) ListCustomers(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	customers, err := h.service.DistinctCustomers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err, "failed to list customers")
	}
	return c.JSON(customers)
}
