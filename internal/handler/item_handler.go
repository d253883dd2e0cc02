package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// errInvalidSearch rejects malformed or ambiguous item search parameters.
var errInvalidSearch = errors.New("provide either a name or a valid price range")

// ItemServiceInterface defines the interface for item business logic.
type ItemServiceInterface interface {
	Create(ctx context.Context, req *model.CreateItemRequest) (*model.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.Item, error)
	FindAll(ctx context.Context, search model.ItemSearch) ([]model.Item, error)
	FindOne(ctx context.Context, search model.ItemSearch) (*model.Item, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateItemRequest) (*model.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemHandler handles HTTP requests for catalog items and item search.
type ItemHandler struct {
	service   ItemServiceInterface
	validator *validator.Validate
}

// NewItemHandler creates a new ItemHandler with the given service and validator.
func NewItemHandler(svc ItemServiceInterface, v *validator.Validate) *ItemHandler {
	return &ItemHandler{service: svc, validator: v}
}

// CreateItem handles POST /api/v1/items.
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req model.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	item, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItem handles GET /api/v1/items/:id.
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}

	item, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err, "failed to get item")
	}
	return c.JSON(item)
}

// ListMerchantItems handles GET /api/v1/merchants/:merchant_id/items.
func (h *ItemHandler) ListMerchantItems(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Params("merchant_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid merchant id"})
	}

	items, err := h.service.ListByMerchant(c.Context(), merchantID)
	if err != nil {
		return respondServiceError(c, err, "failed to list items")
	}
	return c.JSON(items)
}

// FindItem handles GET /api/v1/items/find: the alphabetically first item
// matching a name fragment or a price range.
func (h *ItemHandler) FindItem(c *fiber.Ctx) error {
	search, err := parseItemSearch(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := h.service.FindOne(c.Context(), search)
	if err != nil {
		return respondServiceError(c, err, "failed to find item")
	}
	return c.JSON(item)
}

// FindAllItems handles GET /api/v1/items/find_all.
func (h *ItemHandler) FindAllItems(c *fiber.Ctx) error {
	search, err := parseItemSearch(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.service.FindAll(c.Context(), search)
	if err != nil {
		return respondServiceError(c, err, "failed to search items")
	}
	return c.JSON(items)
}

// UpdateItem handles PATCH /api/v1/items/:id.
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}

	var req model.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	item, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to update item")
	}
	return c.JSON(item)
}

// DeleteItem handles DELETE /api/v1/items/:id.
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err, "failed to delete item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseItemSearch reads the search query params. Name and price bounds are
// mutually exclusive, matching the reporting API contract.
func parseItemSearch(c *fiber.Ctx) (model.ItemSearch, error) {
	search := model.ItemSearch{Name: c.Query("name")}

	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return model.ItemSearch{}, errInvalidSearch
		}
		search.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return model.ItemSearch{}, errInvalidSearch
		}
		search.MaxPrice = &v
	}

	if search.Name != "" && (search.MinPrice != nil || search.MaxPrice != nil) {
		return model.ItemSearch{}, errInvalidSearch
	}
	if search.Name == "" && search.MinPrice == nil && search.MaxPrice == nil {
		return model.ItemSearch{}, errInvalidSearch
	}
	return search, nil
}
