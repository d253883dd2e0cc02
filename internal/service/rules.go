package service

import (
	"strings"

	"github.com/littleshop/catalog-api/internal/model"
)

// MaxActiveCoupons is the per-merchant cap on simultaneously active coupons.
const MaxActiveCoupons = 5

// Violation texts surfaced to API callers. The cross-entity ones are load
// bearing: handler tests and clients match on them verbatim.
const (
	ViolationActiveCap         = "Merchant cannot have more than 5 active coupons"
	ViolationPendingInvoices   = "Cannot deactivate a coupon with pending invoices"
	ViolationCouponInactive    = "Coupon is not active and cannot be applied"
	ViolationNameBlank         = "Name can't be blank"
	ViolationCodeBlank         = "Code can't be blank"
	ViolationCodeTaken         = "Code has already been taken"
	ViolationDiscountValue     = "Discount value must be greater than 0"
	ViolationDiscountTypeBlank = "Discount type can't be blank"
)

// couponFieldViolations runs the presence/positivity checks shared by create
// and field edits. codeTaken is the caller's case-insensitive global lookup
// result; the database unique index remains the backstop for races the
// lookup cannot see.
func couponFieldViolations(name, code string, discountValue int, discountType string, codeTaken bool) []string {
	var v []string
	if strings.TrimSpace(name) == "" {
		v = append(v, ViolationNameBlank)
	}
	if strings.TrimSpace(code) == "" {
		v = append(v, ViolationCodeBlank)
	} else if codeTaken {
		v = append(v, ViolationCodeTaken)
	}
	if discountValue <= 0 {
		v = append(v, ViolationDiscountValue)
	}
	if strings.TrimSpace(discountType) == "" {
		v = append(v, ViolationDiscountTypeBlank)
	}
	return v
}

// createViolations evaluates a candidate coupon against its merchant's
// current coupon set. activeSiblings is the committed count of the
// merchant's active coupons; the candidate itself is not included.
func createViolations(candidate *model.Coupon, activeSiblings int, codeTaken bool) []string {
	v := couponFieldViolations(candidate.Name, candidate.Code, candidate.DiscountValue, candidate.DiscountType, codeTaken)
	if candidate.Active && activeSiblings >= MaxActiveCoupons {
		v = append(v, ViolationActiveCap)
	}
	return v
}

// updateViolations evaluates a field-level edit. The active flag is not
// consulted: edits to non-active fields never re-run the cap check, and the
// code lookup excludes the coupon itself.
func updateViolations(updated *model.Coupon, codeTaken bool) []string {
	return couponFieldViolations(updated.Name, updated.Code, updated.DiscountValue, updated.DiscountType, codeTaken)
}

// activationViolations guards the inactive -> active transition.
func activationViolations(activeSiblings int) []string {
	if activeSiblings >= MaxActiveCoupons {
		return []string{ViolationActiveCap}
	}
	return nil
}

// deactivationViolations guards the active -> inactive transition. Only
// "packaged" invoices block; shipped and returned ones do not.
func deactivationViolations(invoices []model.Invoice) []string {
	for i := range invoices {
		if invoices[i].Pending() {
			return []string{ViolationPendingInvoices}
		}
	}
	return nil
}

// attachViolations guards binding a coupon to a new invoice.
func attachViolations(coupon *model.Coupon) []string {
	if !coupon.Active {
		return []string{ViolationCouponInactive}
	}
	return nil
}
