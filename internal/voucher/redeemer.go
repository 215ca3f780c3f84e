package voucher

import (
	"context"

	"edulearn/internal/metrics"
	"edulearn/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type redeemer struct {
	store  RedemptionStore
	logger zerolog.Logger
}

// NewRedeemer creates a redeemer over the redemption store.
func NewRedeemer(store RedemptionStore, logger zerolog.Logger) Redeemer {
	return &redeemer{
		store:  store,
		logger: logger.With().Str("component", "voucher-redeemer").Logger(),
	}
}

// Redeem records the redemption first so a retried completion never
// increments the counter twice. A failed increment means another order took
// the last use after this one was validated; the caller must roll back.
func (r *redeemer) Redeem(ctx context.Context, tx pgx.Tx, redemption model.Redemption) error {
	inserted, err := r.store.InsertRedemption(ctx, tx, redemption)
	if err != nil {
		return err
	}
	if !inserted {
		r.logger.Debug().
			Str("order_id", redemption.OrderID.String()).
			Msg("order already redeemed its voucher")
		return nil
	}

	incremented, err := r.store.IncrementUsage(ctx, tx, redemption.VoucherID)
	if err != nil {
		return err
	}
	if !incremented {
		r.logger.Warn().
			Int64("voucher_id", redemption.VoucherID).
			Str("order_id", redemption.OrderID.String()).
			Msg("voucher usage limit reached at redemption")
		return model.ErrVoucherUsageLimitReached
	}

	metrics.VoucherRedemptions.Inc()
	r.logger.Info().
		Int64("voucher_id", redemption.VoucherID).
		Str("order_id", redemption.OrderID.String()).
		Msg("voucher redeemed")

	return nil
}
