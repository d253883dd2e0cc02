package model

import (
	"time"

	"github.com/google/uuid"
)

// Discount types accepted by the API. Stored as free-form text; the only
// schema-level requirement is that the value is non-blank.
const (
	DiscountTypePercent = "percent"
	DiscountTypeDollar  = "dollar"
)

// Coupon represents a merchant-owned discount coupon.
type Coupon struct {
	ID            uuid.UUID `json:"id"`
	MerchantID    uuid.UUID `json:"merchant_id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	DiscountValue int       `json:"discount_value"`
	DiscountType  string    `json:"discount_type"`
	Active        bool      `json:"active"`
	UsageCount    int       `json:"usage_count"`
	CreatedAt     time.Time `json:"-"` // Not exposed in API
	UpdatedAt     time.Time `json:"-"`
}

// CreateCouponRequest is the DTO for creating a coupon.
// Active defaults to true when omitted.
type CreateCouponRequest struct {
	Name          string `json:"name" validate:"required,notblank,max=255"`
	Code          string `json:"code" validate:"required,notblank,max=255"`
	DiscountValue *int   `json:"discount_value" validate:"required,gt=0"`
	DiscountType  string `json:"discount_type" validate:"required,notblank,max=255"`
	Active        *bool  `json:"active"`
}

// UpdateCouponRequest is the DTO for PATCHing a coupon. All fields are
// optional; a present Active key requests the active/inactive transition,
// which runs separately from plain field edits.
type UpdateCouponRequest struct {
	Name          *string `json:"name" validate:"omitempty,notblank,max=255"`
	Code          *string `json:"code" validate:"omitempty,notblank,max=255"`
	DiscountValue *int    `json:"discount_value" validate:"omitempty,gt=0"`
	DiscountType  *string `json:"discount_type" validate:"omitempty,notblank,max=255"`
	Active        *bool   `json:"active"`
}

// HasFieldEdits reports whether the request carries any non-active field
// change.
func (r *UpdateCouponRequest) HasFieldEdits() bool {
	return r.Name != nil || r.Code != nil || r.DiscountValue != nil || r.DiscountType != nil
}
