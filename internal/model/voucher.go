package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var voucherCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// Voucher is a percentage discount code.
type Voucher struct {
	ID              int64            `json:"id" db:"id"`
	Code            string           `json:"code" db:"code"`
	DiscountPercent int              `json:"discountPercent" db:"discount_percent"`
	CourseIDs       []int64          `json:"courseIds" db:"course_ids"`
	UsageLimit      *int             `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount       int              `json:"usedCount" db:"used_count"`
	MinOrderValue   *decimal.Decimal `json:"minOrderValue,omitempty" db:"min_order_value"`
	ExpiresAt       *time.Time       `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

// AppliesTo reports whether the voucher's allow-list admits the course.
// An empty allow-list admits every course.
func (v *Voucher) AppliesTo(courseID int64) bool {
	if len(v.CourseIDs) == 0 {
		return true
	}
	for _, id := range v.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// VoucherRequest is the payload for creating or updating a voucher.
// It is also the record format of voucher import files.
type VoucherRequest struct {
	Code            string           `json:"code"`
	DiscountPercent int              `json:"discountPercent"`
	CourseIDs       []int64          `json:"courseIds,omitempty"`
	UsageLimit      *int             `json:"usageLimit,omitempty"`
	MinOrderValue   *decimal.Decimal `json:"minOrderValue,omitempty"`
	ExpiresAt       *time.Time       `json:"expiresAt,omitempty"`
}

// Validate checks the voucher payload.
func (r *VoucherRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if !voucherCodePattern.MatchString(r.Code) {
		return ErrInvalidVoucherCode
	}
	if r.DiscountPercent < 1 || r.DiscountPercent > 100 {
		return ErrInvalidDiscountPercentage
	}
	if r.UsageLimit != nil && *r.UsageLimit < 1 {
		return Validationf("usage limit must be at least 1")
	}
	if r.MinOrderValue != nil && r.MinOrderValue.IsNegative() {
		return Validationf("minimum order value must not be negative")
	}
	return nil
}

// ToVoucher builds a voucher entity from the payload.
func (r *VoucherRequest) ToVoucher() *Voucher {
	courseIDs := r.CourseIDs
	if courseIDs == nil {
		courseIDs = []int64{}
	}
	return &Voucher{
		Code:            r.Code,
		DiscountPercent: r.DiscountPercent,
		CourseIDs:       courseIDs,
		UsageLimit:      r.UsageLimit,
		MinOrderValue:   r.MinOrderValue,
		ExpiresAt:       r.ExpiresAt,
	}
}

// Discount is the outcome of a successful voucher validation.
type Discount struct {
	VoucherID int64           `json:"voucherId"`
	Code      string          `json:"code"`
	Percent   int             `json:"percent"`
	Amount    decimal.Decimal `json:"amount"`
}

// Redemption records that a voucher was consumed by a completed order.
type Redemption struct {
	VoucherID      int64
	OrderID        uuid.UUID
	UserID         int64
	DiscountAmount decimal.Decimal
}

// VoucherPreviewRequest asks what a voucher would take off a course price.
type VoucherPreviewRequest struct {
	Code     string `json:"code"`
	CourseID int64  `json:"courseId"`
}

// VoucherPreviewResponse reports the outcome of a preview.
type VoucherPreviewResponse struct {
	Valid          bool            `json:"valid"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Reason         string          `json:"reason,omitempty"`
}

// ImportResult summarises a bulk voucher import.
type ImportResult struct {
	Files      int `json:"files"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// ImportRequest lists the files to import.
type ImportRequest struct {
	Files []string `json:"files"`
}
