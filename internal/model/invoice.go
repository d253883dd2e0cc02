package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses. "packaged" marks a pending invoice and is the only
// status that blocks coupon deactivation.
const (
	InvoiceStatusShipped  = "shipped"
	InvoiceStatusPackaged = "packaged"
	InvoiceStatusReturned = "returned"
)

// Invoice is a merchant sale to a customer, optionally discounted by a
// coupon. The coupon association is set at creation and never reassigned.
type Invoice struct {
	ID         uuid.UUID  `json:"id"`
	MerchantID uuid.UUID  `json:"merchant_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	CouponID   *uuid.UUID `json:"coupon_id,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

// Pending reports whether the invoice blocks coupon deactivation.
func (i *Invoice) Pending() bool {
	return i.Status == InvoiceStatusPackaged
}

// CreateInvoiceRequest is the DTO for creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	Status     string     `json:"status" validate:"required,oneof=shipped packaged returned"`
	CouponID   *uuid.UUID `json:"coupon_id"`
}
