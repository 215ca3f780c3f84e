package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
	OrderFailed    OrderStatus = "failed"
)

// CanTransition reports whether an order may move from one status to another.
// Only pending orders move; completed, failed and canceled are terminal.
func CanTransition(from, to OrderStatus) bool {
	if from != OrderPending {
		return false
	}
	switch to {
	case OrderCompleted, OrderFailed, OrderCanceled:
		return true
	}
	return false
}

// PaymentMethod names the provider used to pay for an order.
type PaymentMethod string

const (
	PaymentNone    PaymentMethod = ""
	PaymentMoMo    PaymentMethod = "momo"
	PaymentZaloPay PaymentMethod = "zalopay"
)

// Order represents the purchase of a single course.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          int64           `json:"userId" db:"user_id"`
	CourseID        int64           `json:"courseId" db:"course_id"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DiscountAmount  decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	VoucherID       *int64          `json:"voucherId,omitempty" db:"voucher_id"`
	VoucherCode     *string         `json:"voucherCode,omitempty" db:"voucher_code"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod,omitempty" db:"payment_method"`
	ProviderTransID *string         `json:"providerTransId,omitempty" db:"provider_trans_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CourseID    int64   `json:"courseId"`
	VoucherCode *string `json:"voucherCode,omitempty"`
}

// Transition describes a conditional status change.
type Transition struct {
	OrderID         uuid.UUID
	From            OrderStatus
	To              OrderStatus
	ProviderTransID string
}

// CheckoutResponse carries the provider page the client must visit.
type CheckoutResponse struct {
	OrderID  uuid.UUID       `json:"orderId"`
	Provider PaymentMethod   `json:"provider"`
	Amount   decimal.Decimal `json:"amount"`
	PayURL   string          `json:"payUrl"`
}
