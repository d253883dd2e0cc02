package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, merchantID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error)
	UpdateFields(ctx context.Context, merchantID, couponID uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)
	ToggleActive(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	Get(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	List(ctx context.Context, merchantID uuid.UUID, statusFilter string) ([]model.Coupon, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// CreateCoupon handles POST /api/v1/merchants/:merchant_id/coupons.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	var req model.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), merchantID, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create coupon")
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// GetCoupon handles GET /api/v1/merchants/:merchant_id/coupons/:id.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}
	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon id"})
	}

	coupon, err := h.service.Get(c.Context(), merchantID, couponID)
	if err != nil {
		return respondServiceError(c, err, "failed to get coupon")
	}
	return c.JSON(coupon)
}

// ListCoupons handles GET /api/v1/merchants/:merchant_id/coupons.
// The optional ?status= query accepts "active" or "inactive"; any other
// value returns the unfiltered set.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	coupons, err := h.service.List(c.Context(), merchantID, c.Query("status"))
	if err != nil {
		return respondServiceError(c, err, "failed to list coupons")
	}
	return c.JSON(coupons)
}

// UpdateCoupon handles PATCH /api/v1/merchants/:merchant_id/coupons/:id.
// A present "active" key triggers the active/inactive transition (a flip,
// re-validated against the cap and pending invoices); the remaining fields
// go through the field-edit path, which never re-runs the cap check.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}
	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon id"})
	}

	var req model.UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	var coupon *model.Coupon
	if req.Active != nil {
		coupon, err = h.service.ToggleActive(c.Context(), merchantID, couponID)
		if err != nil {
			return respondServiceError(c, err, "failed to toggle coupon")
		}
	}
	if req.HasFieldEdits() {
		coupon, err = h.service.UpdateFields(c.Context(), merchantID, couponID, &req)
		if err != nil {
			return respondServiceError(c, err, "failed to update coupon")
		}
	}
	if coupon == nil {
		// Empty PATCH: nothing to change, return current state
		coupon, err = h.service.Get(c.Context(), merchantID, couponID)
		if err != nil {
			return respondServiceError(c, err, "failed to get coupon")
		}
	}
	return c.JSON(coupon)
}
