package voucher

import (
	"context"
	"time"

	"edulearn/internal/metrics"
	"edulearn/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// validator implements Validator against the voucher store.
type validator struct {
	finder Finder
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a validator.
type Option func(*validator)

// WithClock overrides the validator clock.
func WithClock(now func() time.Time) Option {
	return func(v *validator) {
		v.now = now
	}
}

// NewValidator creates a new voucher validator.
func NewValidator(finder Finder, logger zerolog.Logger, opts ...Option) Validator {
	v := &validator{
		finder: finder,
		now:    time.Now,
		logger: logger.With().Str("component", "voucher-validator").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate looks the code up and checks it against the request.
func (v *validator) Validate(ctx context.Context, req ValidationRequest) (*model.Discount, error) {
	voucher, err := v.finder.FindActiveByCode(ctx, req.Code)
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			metrics.RecordVoucherValidation(de.Code)
		}
		return nil, err
	}

	return v.Evaluate(voucher, req.CourseID, req.Subtotal)
}

// Evaluate checks a loaded voucher. It never mutates the voucher.
func (v *validator) Evaluate(voucher *model.Voucher, courseID int64, subtotal decimal.Decimal) (*model.Discount, error) {
	if err := v.check(voucher, courseID, subtotal); err != nil {
		metrics.RecordVoucherValidation(err.Code)
		v.logger.Debug().
			Str("code", voucher.Code).
			Int64("course_id", courseID).
			Str("reason", err.Code).
			Msg("voucher rejected")
		return nil, err
	}

	amount := subtotal.Mul(decimal.NewFromInt(int64(voucher.DiscountPercent))).Div(hundred).Round(0)
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}

	metrics.RecordVoucherValidation("valid")
	v.logger.Debug().
		Str("code", voucher.Code).
		Int64("course_id", courseID).
		Str("discount", amount.String()).
		Msg("voucher validated successfully")

	return &model.Discount{
		VoucherID: voucher.ID,
		Code:      voucher.Code,
		Percent:   voucher.DiscountPercent,
		Amount:    amount,
	}, nil
}

func (v *validator) check(voucher *model.Voucher, courseID int64, subtotal decimal.Decimal) *model.DomainError {
	if voucher.ExpiresAt != nil && voucher.ExpiresAt.Before(v.now()) {
		return model.ErrVoucherExpired
	}
	if voucher.UsageLimit != nil && voucher.UsedCount >= *voucher.UsageLimit {
		return model.ErrVoucherUsageLimitReached
	}
	if voucher.MinOrderValue != nil && subtotal.LessThan(*voucher.MinOrderValue) {
		return model.ErrVoucherMinOrderNotMet
	}
	if !voucher.AppliesTo(courseID) {
		return model.ErrVoucherCourseNotEligible
	}
	return nil
}
