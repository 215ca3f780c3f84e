package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency per route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "edulearn_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
			Buckets: []float64{
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
			},
		},
		[]string{"method", "route", "status"},
	)

	// VoucherValidations counts validation outcomes by reason code
	VoucherValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_voucher_validations_total",
			Help: "Voucher validations by outcome",
		},
		[]string{"outcome"},
	)

	// VoucherRedemptions counts vouchers consumed by completed orders
	VoucherRedemptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edulearn_voucher_redemptions_total",
			Help: "Vouchers redeemed by completed orders",
		},
	)

	// VouchersImported counts bulk-imported voucher records by outcome
	VouchersImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_vouchers_imported_total",
			Help: "Voucher import records by outcome",
		},
		[]string{"outcome"}, // inserted, duplicate, invalid
	)

	// OrderTransitions counts order status changes
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_order_transitions_total",
			Help: "Order status transitions",
		},
		[]string{"to"},
	)

	// PaymentCallbacks counts provider callbacks by result
	PaymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_payment_callbacks_total",
			Help: "Payment provider callbacks by result",
		},
		[]string{"provider", "result"},
	)
)

// RecordHTTPRequest records the duration of a served request
func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration)
}

// RecordVoucherValidation records a validation outcome ("valid" or a reason code)
func RecordVoucherValidation(outcome string) {
	VoucherValidations.WithLabelValues(outcome).Inc()
}

// RecordOrderTransition records an order entering a status
func RecordOrderTransition(to string) {
	OrderTransitions.WithLabelValues(to).Inc()
}

// RecordPaymentCallback records a provider callback result
func RecordPaymentCallback(provider, result string) {
	PaymentCallbacks.WithLabelValues(provider, result).Inc()
}
