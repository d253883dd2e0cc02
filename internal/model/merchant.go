package model

import (
	"time"

	"github.com/google/uuid"
)

// Merchant owns items, invoices, and coupons. Deleting a merchant cascades
// to everything it owns.
type Merchant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// CreateMerchantRequest is the DTO for creating a merchant.
type CreateMerchantRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// UpdateMerchantRequest is the DTO for renaming a merchant.
type UpdateMerchantRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// MerchantSummary is the reporting DTO returned by the summary endpoint.
type MerchantSummary struct {
	CouponsCount       int `json:"coupons_count"`
	InvoiceCouponCount int `json:"invoice_coupon_count"`
	ItemCount          int `json:"item_count"`
}
