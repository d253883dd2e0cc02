package service

import (
	"errors"
	"strings"
)

var (
	// ErrMerchantNotFound is returned when a merchant id does not exist
	ErrMerchantNotFound = errors.New("merchant not found")

	// ErrCouponNotFound is returned when a coupon id does not exist or
	// belongs to a different merchant
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCustomerNotFound is returned when a customer id does not exist
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrItemNotFound is returned when an item id does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrCodeTaken is returned by the repository when the case-insensitive
	// unique index on coupon codes rejects a write. The service translates
	// it into the code-taken violation so callers see one consistent shape.
	ErrCodeTaken = errors.New("coupon code already taken")

	// ErrUsageNotCounted marks the invoice-committed-but-usage-not-counted
	// partial failure. With invoice insert and usage increment in one
	// transaction this cannot happen against Postgres; it exists as the
	// documented detection path for stores without that guarantee.
	ErrUsageNotCounted = errors.New("invoice committed but coupon usage not counted")
)

// ValidationError carries the human-readable violations that rejected an
// operation. It always means nothing was committed. Returned as a value,
// never panicked.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, ", ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
