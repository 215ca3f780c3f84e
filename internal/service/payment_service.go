package service

import (
	"context"
	"errors"
	"fmt"

	"edulearn/internal/metrics"
	"edulearn/internal/model"
	"edulearn/internal/payment"
	"edulearn/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type paymentService struct {
	providers *payment.Registry
	orderRepo repository.OrderRepository
	orders    OrderService
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	providers *payment.Registry,
	orderRepo repository.OrderRepository,
	orders OrderService,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		providers: providers,
		orderRepo: orderRepo,
		orders:    orders,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

func (s *paymentService) Checkout(ctx context.Context, actor model.Actor, orderID uuid.UUID, method model.PaymentMethod) (*model.CheckoutResponse, error) {
	provider, err := s.providers.Get(method)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, model.ErrOrderNotFound
	}
	if order.Status != model.OrderPending {
		return nil, model.ErrInvalidTransition
	}

	updated, err := s.orderRepo.SetPaymentMethod(ctx, orderID, method)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, model.ErrInvalidTransition
	}

	checkout, err := provider.CreatePayment(ctx, payment.CheckoutRequest{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Amount:      order.TotalAmount,
		Description: fmt.Sprintf("Payment for order %s", order.ID),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("provider", string(method)).
			Msg("failed to create provider payment")
		return nil, fmt.Errorf("failed to start payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("provider", string(method)).
		Str("reference", checkout.Reference).
		Msg("payment started")

	return &model.CheckoutResponse{
		OrderID:  order.ID,
		Provider: method,
		Amount:   order.TotalAmount,
		PayURL:   checkout.PayURL,
	}, nil
}

// HandleCallback trusts nothing in body until the provider has verified it.
// A success whose amount differs from the order total fails the order.
func (s *paymentService) HandleCallback(ctx context.Context, method model.PaymentMethod, body []byte) (*payment.CallbackResult, error) {
	provider, err := s.providers.Get(method)
	if err != nil {
		return nil, err
	}

	result, err := provider.VerifyCallback(body)
	if err != nil {
		metrics.RecordPaymentCallback(string(method), "rejected")
		s.logger.Warn().Err(err).Str("provider", string(method)).Msg("payment callback rejected")
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, result.OrderID)
	if err != nil {
		metrics.RecordPaymentCallback(string(method), "unknown_order")
		return result, err
	}

	logger := s.logger.With().
		Str("order_id", order.ID.String()).
		Str("provider", string(method)).
		Str("trans_id", result.TransID).
		Logger()

	switch {
	case !result.Success:
		logger.Info().Str("message", result.Message).Msg("provider reported failed payment")
		err = s.orders.FailOrder(ctx, order.ID, result.TransID)
		metrics.RecordPaymentCallback(string(method), "failed")

	case !result.Amount.Equal(order.TotalAmount):
		logger.Warn().
			Str("paid", result.Amount.String()).
			Str("expected", order.TotalAmount.String()).
			Msg("paid amount does not match order total")
		if failErr := s.orders.FailOrder(ctx, order.ID, result.TransID); failErr != nil {
			logger.Error().Err(failErr).Msg("failed to fail mismatched order")
		}
		metrics.RecordPaymentCallback(string(method), "amount_mismatch")
		return result, model.ErrPaymentAmountMismatch

	default:
		err = s.orders.CompleteOrder(ctx, order.ID, result.TransID)
		if errors.Is(err, model.ErrInvalidTransition) {
			// The money arrived after the order closed. It must be refunded or
			// the order reopened by hand.
			logger.Error().
				Str("status", string(order.Status)).
				Str("paid", result.Amount.String()).
				Msg("payment succeeded for a closed order, reconciliation required")
			metrics.RecordPaymentCallback(string(method), "late_success")
			return result, err
		}
		metrics.RecordPaymentCallback(string(method), "succeeded")
	}

	if err != nil && !errors.Is(err, model.ErrInvalidTransition) {
		logger.Error().Err(err).Msg("failed to apply payment callback")
	}

	return result, err
}
