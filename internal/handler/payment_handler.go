package handler

import (
	"errors"
	"io"
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// ZaloPayAck is the body ZaloPay expects in reply to a callback.
// return_code 1 acknowledges, -1 rejects, 0 asks ZaloPay to retry.
type ZaloPayAck struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}

// PaymentHandler receives provider callbacks.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment callback handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// MoMoIPN handles POST /api/payments/momo/ipn requests.
// Verified notifications are acknowledged with 204 even when the order could
// not move, so MoMo stops retrying; only internal failures ask for a retry.
func (h *PaymentHandler) MoMoIPN(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidPayment, "invalid request body")
		return
	}

	_, err = h.service.HandleCallback(r.Context(), model.PaymentMoMo, body)
	switch {
	case err == nil:
	case isRejectedCallback(err):
		de, _ := model.AsDomainError(err)
		writeError(w, r, http.StatusBadRequest, de.Code, de.Message)
		return
	case isDomain(err):
		h.logger.Info().Err(err).Msg("momo notification acknowledged without change")
	default:
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ZaloPayCallback handles POST /api/payments/zalopay/callback requests.
func (h *PaymentHandler) ZaloPayCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: -1, ReturnMessage: "invalid request body"})
		return
	}

	_, err = h.service.HandleCallback(r.Context(), model.PaymentZaloPay, body)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: 1, ReturnMessage: "success"})
	case errors.Is(err, model.ErrInvalidSignature):
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: -1, ReturnMessage: "mac not equal"})
	case isRejectedCallback(err):
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: -1, ReturnMessage: err.Error()})
	case isDomain(err):
		h.logger.Info().Err(err).Msg("zalopay callback acknowledged without change")
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: 1, ReturnMessage: "success"})
	default:
		h.logger.Error().Err(err).Msg("failed to process zalopay callback")
		writeJSON(w, http.StatusOK, ZaloPayAck{ReturnCode: 0, ReturnMessage: "internal error"})
	}
}

// isRejectedCallback reports whether the payload itself was refused.
func isRejectedCallback(err error) bool {
	return errors.Is(err, model.ErrInvalidSignature) ||
		errors.Is(err, model.ErrInvalidCallback) ||
		errors.Is(err, model.ErrUnsupportedProvider)
}

func isDomain(err error) bool {
	_, ok := model.AsDomainError(err)
	return ok
}
