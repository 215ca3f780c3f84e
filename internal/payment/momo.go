package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"edulearn/internal/config"
	"edulearn/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const momoRequestType = "captureWallet"

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

// MoMoIPN is the instant payment notification MoMo posts after payment.
type MoMoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

type momoProvider struct {
	cfg    config.MoMoConfig
	client HTTPDoer
	logger zerolog.Logger
}

// NewMoMo creates the MoMo wallet provider.
func NewMoMo(cfg config.MoMoConfig, client HTTPDoer, logger zerolog.Logger) Provider {
	return &momoProvider{
		cfg:    cfg,
		client: client,
		logger: logger.With().Str("component", "momo").Logger(),
	}
}

func (p *momoProvider) Name() model.PaymentMethod {
	return model.PaymentMoMo
}

// CreatePayment signs a captureWallet request. The order UUID is the MoMo orderId.
func (p *momoProvider) CreatePayment(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	amount, err := wholeAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("momo create payment: %w", err)
	}

	body := momoCreateRequest{
		PartnerCode: p.cfg.PartnerCode,
		RequestID:   uuid.NewString(),
		Amount:      amount,
		OrderID:     req.OrderID.String(),
		OrderInfo:   req.Description,
		RedirectURL: p.cfg.RedirectURL,
		IpnURL:      p.cfg.IPNURL,
		RequestType: momoRequestType,
		Lang:        "vi",
	}
	body.Signature = Sign(p.cfg.SecretKey, p.createSignaturePayload(body))

	var resp momoCreateResponse
	if err := postJSON(ctx, p.client, p.cfg.Endpoint, body, &resp); err != nil {
		p.logger.Error().Err(err).Str("order_id", body.OrderID).Msg("momo create request failed")
		return nil, fmt.Errorf("momo create payment: %w", err)
	}
	if resp.ResultCode != 0 {
		p.logger.Warn().
			Str("order_id", body.OrderID).
			Int("result_code", resp.ResultCode).
			Str("message", resp.Message).
			Msg("momo rejected payment request")
		return nil, fmt.Errorf("momo create payment: result %d: %s", resp.ResultCode, resp.Message)
	}

	return &Checkout{PayURL: resp.PayURL, Reference: body.OrderID}, nil
}

func (p *momoProvider) createSignaturePayload(r momoCreateRequest) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		p.cfg.AccessKey, r.Amount, r.ExtraData, r.IpnURL, r.OrderID, r.OrderInfo,
		r.PartnerCode, r.RedirectURL, r.RequestID, r.RequestType,
	)
}

// IPNSignaturePayload is the raw string MoMo signs in an IPN.
func IPNSignaturePayload(accessKey string, n MoMoIPN) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		accessKey, n.Amount, n.ExtraData, n.Message, n.OrderID, n.OrderInfo, n.OrderType,
		n.PartnerCode, n.PayType, n.RequestID, n.ResponseTime, n.ResultCode, n.TransID,
	)
}

func (p *momoProvider) VerifyCallback(body []byte) (*CallbackResult, error) {
	var ipn MoMoIPN
	if err := json.Unmarshal(body, &ipn); err != nil {
		return nil, model.ErrInvalidCallback
	}

	if !Verify(p.cfg.SecretKey, IPNSignaturePayload(p.cfg.AccessKey, ipn), ipn.Signature) {
		p.logger.Warn().Str("order_id", ipn.OrderID).Msg("momo ipn signature mismatch")
		return nil, model.ErrInvalidSignature
	}

	orderID, err := uuid.Parse(ipn.OrderID)
	if err != nil {
		return nil, model.ErrInvalidCallback
	}

	return &CallbackResult{
		OrderID: orderID,
		Success: ipn.ResultCode == 0,
		Amount:  decimal.NewFromInt(ipn.Amount),
		TransID: fmt.Sprintf("%d", ipn.TransID),
		Message: ipn.Message,
	}, nil
}

func postJSON(ctx context.Context, client HTTPDoer, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return doJSON(client, req, out)
}

func doJSON(client HTTPDoer, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
