// Package payment integrates the MoMo and ZaloPay wallet gateways.
package payment

import (
	"context"
	"fmt"
	"net/http"

	"edulearn/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest describes an order to be paid.
type CheckoutRequest struct {
	OrderID     uuid.UUID
	UserID      int64
	Amount      decimal.Decimal
	Description string
}

// wholeAmount converts a charge to the integer VND both gateways take.
// Truncating a fraction would make the callback amount differ from the order.
func wholeAmount(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(0)) {
		return 0, fmt.Errorf("amount %s is not a positive whole number", amount)
	}
	return amount.IntPart(), nil
}

// Checkout is the provider's answer to a payment request.
type Checkout struct {
	PayURL string
	// Reference is the id the provider will echo back in its callback.
	Reference string
}

// CallbackResult is a verified provider notification.
type CallbackResult struct {
	OrderID uuid.UUID
	Success bool
	Amount  decimal.Decimal
	TransID string
	Message string
}

// Provider is a payment gateway.
type Provider interface {
	Name() model.PaymentMethod

	// CreatePayment registers the order with the gateway and returns the pay page.
	CreatePayment(ctx context.Context, req CheckoutRequest) (*Checkout, error)

	// VerifyCallback authenticates a raw callback body before decoding any field
	// the caller relies on. Returns model.ErrInvalidSignature on a bad signature.
	VerifyCallback(body []byte) (*CallbackResult, error)
}

// HTTPDoer sends gateway requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Registry looks providers up by payment method.
type Registry struct {
	providers map[model.PaymentMethod]Provider
}

// NewRegistry creates a registry of the enabled providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[model.PaymentMethod]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider for method or model.ErrUnsupportedProvider.
func (r *Registry) Get(method model.PaymentMethod) (Provider, error) {
	p, ok := r.providers[method]
	if !ok {
		return nil, model.ErrUnsupportedProvider
	}
	return p, nil
}
