package handler

import (
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// VoucherHandler handles voucher previews, administration and imports.
type VoucherHandler struct {
	service service.VoucherService
	logger  zerolog.Logger
}

// NewVoucherHandler creates a new voucher handler.
func NewVoucherHandler(service service.VoucherService, logger zerolog.Logger) *VoucherHandler {
	return &VoucherHandler{
		service: service,
		logger:  logger.With().Str("handler", "voucher").Logger(),
	}
}

// Preview handles POST /api/vouchers/validate requests.
func (h *VoucherHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req model.VoucherPreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Preview(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/vouchers requests.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.VoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// Update handles PUT /api/vouchers/{voucherID} requests.
func (h *VoucherHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "voucherID")
	if !ok {
		return
	}
	var req model.VoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.service.Update(r.Context(), ids[0], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /api/vouchers/{voucherID} requests.
func (h *VoucherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "voucherID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ids[0]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/vouchers/{voucherID} requests.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "voucherID")
	if !ok {
		return
	}

	v, err := h.service.Get(r.Context(), ids[0])
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// List handles GET /api/vouchers requests.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	vouchers, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}

	writeJSON(w, http.StatusOK, vouchers)
}

// Import handles POST /internal/vouchers/import requests.
func (h *VoucherHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Import(r.Context(), req.Files)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
