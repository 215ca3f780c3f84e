package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edulearn/internal/metrics"
	"edulearn/internal/model"
	"edulearn/internal/repository"
	"edulearn/internal/voucher"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	courseRepo  repository.CourseRepository
	voucherRepo repository.VoucherRepository
	cartRepo    repository.SavedCourseRepository
	validator   voucher.Validator
	redeemer    voucher.Redeemer
	progress    ProgressInitializer
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	courseRepo repository.CourseRepository,
	voucherRepo repository.VoucherRepository,
	cartRepo repository.SavedCourseRepository,
	validator voucher.Validator,
	redeemer voucher.Redeemer,
	progress ProgressInitializer,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		courseRepo:  courseRepo,
		voucherRepo: voucherRepo,
		cartRepo:    cartRepo,
		validator:   validator,
		redeemer:    redeemer,
		progress:    progress,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder snapshots the current course price and applies the voucher to it.
func (s *orderService) CreateOrder(ctx context.Context, actor model.Actor, req *model.OrderRequest) (*model.Order, error) {
	if req == nil || req.CourseID <= 0 {
		return nil, model.Validationf("courseId is required")
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:             uuid.New(),
		UserID:         actor.UserID,
		CourseID:       course.ID,
		Price:          course.Price,
		DiscountAmount: decimal.Zero,
		TotalAmount:    course.Price,
		Status:         model.OrderPending,
		PaymentMethod:  model.PaymentNone,
	}

	err = inTx(ctx, s.orderRepo, s.logger, func(tx pgx.Tx) error {
		purchased, err := s.orderRepo.HasCompletedTx(ctx, tx, actor.UserID, course.ID)
		if err != nil {
			return err
		}
		if purchased {
			return model.ErrCourseAlreadyPurchased
		}

		if _, err := s.orderRepo.RetireStale(ctx, tx, actor.UserID, course.ID); err != nil {
			return err
		}

		if req.VoucherCode != nil && strings.TrimSpace(*req.VoucherCode) != "" {
			if err := s.applyVoucher(ctx, tx, order, strings.TrimSpace(*req.VoucherCode)); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		if order.TotalAmount.IsZero() {
			return s.completeFree(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		if _, ok := model.AsDomainError(err); ok {
			s.logger.Warn().
				Err(err).
				Int64("user_id", actor.UserID).
				Int64("course_id", req.CourseID).
				Msg("order rejected")
		}
		return nil, err
	}

	metrics.RecordOrderTransition(string(model.OrderPending))
	if order.Status == model.OrderCompleted {
		metrics.RecordOrderTransition(string(model.OrderCompleted))
	}
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", order.UserID).
		Int64("course_id", order.CourseID).
		Str("total", order.TotalAmount.String()).
		Str("status", string(order.Status)).
		Msg("order created successfully")

	return order, nil
}

// completeFree completes a zero-total order in its creation transaction.
// No provider accepts a zero amount, so there is nothing to check out.
func (s *orderService) completeFree(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	ok, err := s.orderRepo.Transition(ctx, tx, model.Transition{
		OrderID: order.ID,
		From:    model.OrderPending,
		To:      model.OrderCompleted,
	})
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrInvalidTransition
	}

	order.Status = model.OrderCompleted
	return s.fulfil(ctx, tx, order)
}

func (s *orderService) applyVoucher(ctx context.Context, tx pgx.Tx, order *model.Order, code string) error {
	v, err := s.voucherRepo.FindActiveByCodeTx(ctx, tx, code)
	if err != nil {
		return err
	}

	discount, err := s.validator.Evaluate(v, order.CourseID, order.Price)
	if err != nil {
		return err
	}

	order.VoucherID = &discount.VoucherID
	order.VoucherCode = &discount.Code
	order.DiscountAmount = discount.Amount
	order.TotalAmount = order.Price.Sub(discount.Amount)
	return nil
}

// CancelOrder lets the owner abandon a pending order.
func (s *orderService) CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, model.ErrForbidden
	}

	if err := s.transition(ctx, id, model.OrderCanceled, "", nil); err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, id)
}

// GetOrder returns an order to its owner or an admin. Other callers get ErrOrderNotFound.
func (s *orderService) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(order.UserID) {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, actor.UserID, limit, offset)
}

func (s *orderService) CompleteOrder(ctx context.Context, id uuid.UUID, providerTransID string) error {
	err := s.transition(ctx, id, model.OrderCompleted, providerTransID, s.fulfil)
	if errors.Is(err, model.ErrVoucherUsageLimitReached) {
		s.logger.Warn().Str("order_id", id.String()).Msg("voucher exhausted before completion, failing order")
		if failErr := s.FailOrder(ctx, id, providerTransID); failErr != nil {
			s.logger.Error().Err(failErr).Str("order_id", id.String()).Msg("failed to fail order")
		}
	}
	return err
}

// fulfil runs the completion side effects in the completion transaction.
func (s *orderService) fulfil(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if order.VoucherID != nil {
		err := s.redeemer.Redeem(ctx, tx, model.Redemption{
			VoucherID:      *order.VoucherID,
			OrderID:        order.ID,
			UserID:         order.UserID,
			DiscountAmount: order.DiscountAmount,
		})
		if err != nil {
			return err
		}
	}

	if _, err := s.progress.InitializeTx(ctx, tx, order.UserID, order.CourseID); err != nil {
		return err
	}

	if _, err := s.cartRepo.RemoveTx(ctx, tx, order.UserID, order.CourseID); err != nil {
		return err
	}

	return nil
}

func (s *orderService) FailOrder(ctx context.Context, id uuid.UUID, providerTransID string) error {
	return s.transition(ctx, id, model.OrderFailed, providerTransID, nil)
}

// transition moves a pending order to status to. An order already in to is
// left alone; any other state is ErrInvalidTransition. apply runs after the
// status change in the same transaction.
func (s *orderService) transition(
	ctx context.Context,
	id uuid.UUID,
	to model.OrderStatus,
	providerTransID string,
	apply func(ctx context.Context, tx pgx.Tx, order *model.Order) error,
) error {
	changed := false

	err := inTx(ctx, s.orderRepo, s.logger, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if order.Status == to {
			return nil
		}
		if !model.CanTransition(order.Status, to) {
			return model.ErrInvalidTransition
		}

		ok, err := s.orderRepo.Transition(ctx, tx, model.Transition{
			OrderID:         id,
			From:            order.Status,
			To:              to,
			ProviderTransID: providerTransID,
		})
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race; report based on what the winner did.
			current, err := s.orderRepo.GetByIDTx(ctx, tx, id)
			if err != nil {
				return err
			}
			if current.Status == to {
				return nil
			}
			return model.ErrInvalidTransition
		}

		changed = true
		order.Status = to
		if apply != nil {
			return apply(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			s.logger.Warn().Str("order_id", id.String()).Str("to", string(to)).Msg("order transition rejected")
		}
		return err
	}

	if changed {
		metrics.RecordOrderTransition(string(to))
		s.logger.Info().Str("order_id", id.String()).Str("status", string(to)).Msg("order transitioned")
	} else {
		s.logger.Debug().Str("order_id", id.String()).Str("status", string(to)).Msg("order already in target state")
	}

	return nil
}

func (s *orderService) ExpireStale(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.orderRepo.FailStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending orders: %w", err)
	}

	for _, id := range ids {
		metrics.RecordOrderTransition(string(model.OrderFailed))
		s.logger.Info().Str("order_id", id.String()).Msg("stale pending order failed")
	}

	return len(ids), nil
}
