package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edulearn/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, user_id, course_id, price, discount_amount, total_amount, voucher_id, voucher_code,
	status, payment_method, provider_trans_id, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// Create inserts a pending order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, course_id, price, discount_amount, total_amount,
		                    voucher_id, voucher_code, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID, order.UserID, order.CourseID, order.Price, order.DiscountAmount, order.TotalAmount,
		order.VoucherID, order.VoucherCode, order.Status, order.PaymentMethod,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().
				Int64("user_id", order.UserID).
				Int64("course_id", order.CourseID).
				Msg("concurrent pending order rejected")
			return model.ErrPendingOrderExists
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// HasCompleted reports whether the user owns an active completed order for the course.
func (r *orderRepository) HasCompleted(ctx context.Context, userID, courseID int64) (bool, error) {
	return r.hasCompleted(ctx, r.pool, userID, courseID)
}

// HasCompletedTx is HasCompleted within tx.
func (r *orderRepository) HasCompletedTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	return r.hasCompleted(ctx, tx, userID, courseID)
}

func (r *orderRepository) hasCompleted(ctx context.Context, q Querier, userID, courseID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE user_id = $1 AND course_id = $2 AND status = 'completed' AND ` + activeOnly("") + `
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to check purchase")
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}

	return exists, nil
}

// RetireStale soft-deletes active pending and canceled orders for the pair.
func (r *orderRepository) RetireStale(ctx context.Context, tx pgx.Tx, userID, courseID int64) (int64, error) {
	query := `
		UPDATE orders SET is_deleted = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND course_id = $2 AND status IN ('pending', 'canceled') AND ` + activeOnly("")

	tag, err := tx.Exec(ctx, query, userID, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to retire orders")
		return 0, fmt.Errorf("failed to retire orders: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.Debug().
			Int64("user_id", userID).
			Int64("course_id", courseID).
			Int64("retired", tag.RowsAffected()).
			Msg("stale orders retired")
	}

	return tag.RowsAffected(), nil
}

// GetByID retrieves an active order.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx is GetByID within tx.
func (r *orderRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return r.getByID(ctx, tx, id)
}

func (r *orderRepository) getByID(ctx context.Context, q Querier, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND ` + activeOnly("")

	rows, err := q.Query(ctx, query, id)
	order, err := collectOne[model.Order](rows, err, model.ErrOrderNotFound)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, err
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// ListByUser retrieves a user's active orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 AND ` + activeOnly("") + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan order rows")
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	return orders, nil
}

// Transition applies a conditional status change. Only the caller that
// observes one affected row owns the transition.
func (r *orderRepository) Transition(ctx context.Context, tx pgx.Tx, t model.Transition) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3,
		    provider_trans_id = COALESCE(NULLIF($4, ''), provider_trans_id),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2 AND ` + activeOnly("")

	tag, err := tx.Exec(ctx, query, t.OrderID, t.From, t.To, t.ProviderTransID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", t.OrderID.String()).
			Str("from", string(t.From)).
			Str("to", string(t.To)).
			Msg("failed to transition order")
		return false, fmt.Errorf("failed to transition order: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetPaymentMethod records the provider chosen for a pending order.
func (r *orderRepository) SetPaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (bool, error) {
	query := `
		UPDATE orders SET payment_method = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND ` + activeOnly("")

	tag, err := r.pool.Exec(ctx, query, id, method)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set payment method")
		return false, fmt.Errorf("failed to set payment method: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// FailStalePending moves pending orders created before cutoff to failed.
func (r *orderRepository) FailStalePending(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE orders SET status = 'failed', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1 AND ` + activeOnly("") + `
		RETURNING id
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to expire pending orders")
		return nil, fmt.Errorf("failed to expire pending orders: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan expired order ids: %w", err)
	}

	return ids, nil
}
