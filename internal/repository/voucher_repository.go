package repository

import (
	"context"
	"errors"
	"fmt"

	"edulearn/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const voucherColumns = `id, code, discount_percent, course_ids, usage_limit, used_count,
	min_order_value, expires_at, created_at, updated_at`

// voucherRepository implements the VoucherRepository interface using PostgreSQL.
type voucherRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVoucherRepository creates a new PostgreSQL-backed voucher repository.
func NewVoucherRepository(pool *pgxpool.Pool, logger zerolog.Logger) VoucherRepository {
	return &voucherRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "voucher").Logger(),
	}
}

// FindActiveByCode looks a voucher up case-insensitively.
func (r *voucherRepository) FindActiveByCode(ctx context.Context, code string) (*model.Voucher, error) {
	return r.findActiveByCode(ctx, r.pool, code)
}

// FindActiveByCodeTx is FindActiveByCode within tx.
func (r *voucherRepository) FindActiveByCodeTx(ctx context.Context, tx pgx.Tx, code string) (*model.Voucher, error) {
	return r.findActiveByCode(ctx, tx, code)
}

func (r *voucherRepository) findActiveByCode(ctx context.Context, q Querier, code string) (*model.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE UPPER(code) = UPPER($1) AND ` + activeOnly("")

	rows, err := q.Query(ctx, query, code)
	voucher, err := collectOne[model.Voucher](rows, err, model.ErrVoucherNotFound)
	if err != nil {
		if errors.Is(err, model.ErrVoucherNotFound) {
			r.logger.Debug().Str("code", code).Msg("voucher not found")
			return nil, err
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query voucher")
		return nil, fmt.Errorf("failed to query voucher: %w", err)
	}

	return voucher, nil
}

func (r *voucherRepository) Create(ctx context.Context, voucher *model.Voucher) error {
	query := `
		INSERT INTO vouchers (code, discount_percent, course_ids, usage_limit, min_order_value, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, used_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		voucher.Code, voucher.DiscountPercent, courseIDs(voucher), voucher.UsageLimit, voucher.MinOrderValue, voucher.ExpiresAt,
	).Scan(&voucher.ID, &voucher.UsedCount, &voucher.CreatedAt, &voucher.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrVoucherCodeExists
		}
		r.logger.Error().Err(err).Str("code", voucher.Code).Msg("failed to create voucher")
		return fmt.Errorf("failed to create voucher: %w", err)
	}

	r.logger.Info().Int64("voucher_id", voucher.ID).Str("code", voucher.Code).Msg("voucher created")
	return nil
}

// Update rewrites the voucher's terms. used_count is never touched here.
func (r *voucherRepository) Update(ctx context.Context, voucher *model.Voucher) error {
	query := `
		UPDATE vouchers
		SET code = $2, discount_percent = $3, course_ids = $4, usage_limit = $5,
		    min_order_value = $6, expires_at = $7, updated_at = NOW()
		WHERE id = $1 AND ` + activeOnly("") + `
		RETURNING used_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		voucher.ID, voucher.Code, voucher.DiscountPercent, courseIDs(voucher), voucher.UsageLimit,
		voucher.MinOrderValue, voucher.ExpiresAt,
	).Scan(&voucher.UsedCount, &voucher.CreatedAt, &voucher.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrVoucherNotFound
		}
		if isUniqueViolation(err) {
			return model.ErrVoucherCodeExists
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "vouchers_usage_within_limit" {
			return model.Validationf("usage limit is below the current usage count")
		}
		r.logger.Error().Err(err).Int64("voucher_id", voucher.ID).Msg("failed to update voucher")
		return fmt.Errorf("failed to update voucher: %w", err)
	}

	return nil
}

func (r *voucherRepository) SoftDelete(ctx context.Context, id int64) error {
	deleted, err := softDelete(ctx, r.pool, "vouchers", "id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("voucher_id", id).Msg("failed to delete voucher")
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	if !deleted {
		return model.ErrVoucherNotFound
	}
	return nil
}

func (r *voucherRepository) GetByID(ctx context.Context, id int64) (*model.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE id = $1 AND ` + activeOnly("")

	rows, err := r.pool.Query(ctx, query, id)
	voucher, err := collectOne[model.Voucher](rows, err, model.ErrVoucherNotFound)
	if err != nil {
		if errors.Is(err, model.ErrVoucherNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("voucher_id", id).Msg("failed to query voucher")
		return nil, fmt.Errorf("failed to query voucher: %w", err)
	}

	return voucher, nil
}

func (r *voucherRepository) List(ctx context.Context, limit, offset int) ([]model.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE ` + activeOnly("") + ` ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query vouchers")
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}

	vouchers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Voucher])
	if err != nil {
		return nil, fmt.Errorf("failed to scan vouchers: %w", err)
	}

	return vouchers, nil
}

// InsertMany inserts vouchers in one batch, skipping codes that already exist.
func (r *voucherRepository) InsertMany(ctx context.Context, vouchers []model.Voucher) (int, error) {
	if len(vouchers) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO vouchers (code, discount_percent, course_ids, usage_limit, min_order_value, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`

	batch := &pgx.Batch{}
	for i := range vouchers {
		v := &vouchers[i]
		batch.Queue(query, v.Code, v.DiscountPercent, courseIDs(v), v.UsageLimit, v.MinOrderValue, v.ExpiresAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < len(vouchers); i++ {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("code", vouchers[i].Code).
				Msg("failed to insert voucher")
			return inserted, fmt.Errorf("failed to insert voucher %s: %w", vouchers[i].Code, err)
		}
		inserted += int(tag.RowsAffected())
	}

	r.logger.Debug().
		Int("count", len(vouchers)).
		Int("inserted", inserted).
		Msg("voucher batch inserted")

	return inserted, nil
}

// InsertRedemption records a redemption keyed by order id.
func (r *voucherRepository) InsertRedemption(ctx context.Context, tx pgx.Tx, redemption model.Redemption) (bool, error) {
	query := `
		INSERT INTO voucher_redemptions (voucher_id, order_id, user_id, discount_amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, redemption.VoucherID, redemption.OrderID, redemption.UserID, redemption.DiscountAmount)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("voucher_id", redemption.VoucherID).
			Str("order_id", redemption.OrderID.String()).
			Msg("failed to record redemption")
		return false, fmt.Errorf("failed to record redemption: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// IncrementUsage bumps used_count unless the usage limit is reached.
func (r *voucherRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, voucherID int64) (bool, error) {
	query := `
		UPDATE vouchers
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	tag, err := tx.Exec(ctx, query, voucherID)
	if err != nil {
		r.logger.Error().Err(err).Int64("voucher_id", voucherID).Msg("failed to increment voucher usage")
		return false, fmt.Errorf("failed to increment voucher usage: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// courseIDs never hands NULL to the NOT NULL array column.
func courseIDs(v *model.Voucher) []int64 {
	if v.CourseIDs == nil {
		return []int64{}
	}
	return v.CourseIDs
}
