package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a merchant-owned catalog entry. Items carry no coupon logic; the
// unit price is only consulted by the search endpoints.
type Item struct {
	ID          uuid.UUID `json:"id"`
	MerchantID  uuid.UUID `json:"merchant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// CreateItemRequest is the DTO for creating an item.
type CreateItemRequest struct {
	MerchantID  uuid.UUID `json:"merchant_id" validate:"required"`
	Name        string    `json:"name" validate:"required,notblank,max=255"`
	Description string    `json:"description" validate:"required,notblank"`
	UnitPrice   *float64  `json:"unit_price" validate:"required,gt=0"`
}

// UpdateItemRequest is the DTO for PATCHing an item.
type UpdateItemRequest struct {
	Name        *string  `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string  `json:"description" validate:"omitempty,notblank"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gt=0"`
}

// ItemSearch carries the query parameters of the item search endpoints.
// Name and the price bounds are mutually exclusive.
type ItemSearch struct {
	Name     string
	MinPrice *float64
	MaxPrice *float64
}
