// Package voucher validates, redeems and bulk-imports discount vouchers.
package voucher

import (
	"context"

	"edulearn/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ValidationRequest is a voucher applied to a course at a given subtotal.
type ValidationRequest struct {
	Code     string
	CourseID int64
	Subtotal decimal.Decimal
}

// Validator defines the interface for voucher validation.
type Validator interface {
	// Validate looks the code up and checks it against the request.
	// Rejections are returned as model.DomainError values, checked in order:
	// not found, expired, usage limit reached, minimum order not met, course not eligible.
	Validate(ctx context.Context, req ValidationRequest) (*model.Discount, error)

	// Evaluate runs the same checks on a voucher the caller already loaded.
	Evaluate(v *model.Voucher, courseID int64, subtotal decimal.Decimal) (*model.Discount, error)
}

// Redeemer consumes a voucher for a completed order.
type Redeemer interface {
	// Redeem records the redemption and increments usage inside tx.
	// Redeeming the same order twice is a no-op.
	Redeem(ctx context.Context, tx pgx.Tx, redemption model.Redemption) error
}

// Batch is the decoded content of one import file.
type Batch struct {
	Records []model.VoucherRequest
	// Malformed counts lines that were not valid JSON.
	Malformed int
}

// Loader defines the interface for loading voucher import files.
type Loader interface {
	// Load reads a gzipped JSON-lines voucher file.
	Load(ctx context.Context, path string) (*Batch, error)
}

// Importer loads voucher files and stores their records.
type Importer interface {
	Import(ctx context.Context, files []string) (*model.ImportResult, error)
}

// Finder looks vouchers up by code.
type Finder interface {
	FindActiveByCode(ctx context.Context, code string) (*model.Voucher, error)
}

// RedemptionStore persists redemptions and usage counts.
type RedemptionStore interface {
	InsertRedemption(ctx context.Context, tx pgx.Tx, redemption model.Redemption) (bool, error)
	IncrementUsage(ctx context.Context, tx pgx.Tx, voucherID int64) (bool, error)
}

// BatchInserter stores imported vouchers, skipping existing codes.
type BatchInserter interface {
	InsertMany(ctx context.Context, vouchers []model.Voucher) (int, error)
}
