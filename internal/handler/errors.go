package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/littleshop/catalog-api/internal/service"
)

// respondServiceError maps service-layer failures to HTTP responses.
// Validation rejections carry their violation texts verbatim; unknown
// errors are logged and hidden behind a generic 500.
func respondServiceError(c *fiber.Ctx, err error, logMsg string) error {
	if ve, ok := service.AsValidationError(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": ve.Violations})
	}

	switch {
	case errors.Is(err, service.ErrMerchantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "merchant not found"})
	case errors.Is(err, service.ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
	case errors.Is(err, service.ErrCustomerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	case errors.Is(err, service.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}

	log.Error().Err(err).Msg(logMsg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// formatValidationError converts request DTO validator errors into a
// readable message. Field rules beyond these fall through to a generic text.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "gt", "gte":
				return "invalid request: " + field + " must be greater than 0"
			case "oneof":
				return "invalid request: " + field + " must be one of " + fe.Param()
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
