package enums

import "fmt"

// CouponType distinguishes percentage discounts from flat paise discounts.
type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFlat    CouponType = "flat"
)

// IsValid reports whether the value is a known CouponType.
func (c CouponType) IsValid() bool {
	return c == CouponTypePercent || c == CouponTypeFlat
}

// ParseCouponType converts raw input into a CouponType.
func ParseCouponType(value string) (CouponType, error) {
	switch CouponType(value) {
	case CouponTypePercent:
		return CouponTypePercent, nil
	case CouponTypeFlat:
		return CouponTypeFlat, nil
	}
	return "", fmt.Errorf("invalid coupon type %q", value)
}
