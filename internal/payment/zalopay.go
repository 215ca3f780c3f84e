package payment

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"edulearn/internal/config"
	"edulearn/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ZaloPay dates app_trans_id in Vietnam time.
var vietnam = time.FixedZone("ICT", 7*60*60)

type zaloCreateResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	OrderURL      string `json:"order_url"`
}

// ZaloPayCallback is the envelope ZaloPay posts to the callback URL.
type ZaloPayCallback struct {
	Data string `json:"data"`
	MAC  string `json:"mac"`
	Type int    `json:"type"`
}

// ZaloPayCallbackData is the signed payload inside the callback envelope.
type ZaloPayCallbackData struct {
	AppID      int    `json:"app_id"`
	AppTransID string `json:"app_trans_id"`
	AppTime    int64  `json:"app_time"`
	AppUser    string `json:"app_user"`
	Amount     int64  `json:"amount"`
	EmbedData  string `json:"embed_data"`
	Item       string `json:"item"`
	ZpTransID  int64  `json:"zp_trans_id"`
	ServerTime int64  `json:"server_time"`
}

type zaloPayProvider struct {
	cfg    config.ZaloPayConfig
	client HTTPDoer
	now    func() time.Time
	logger zerolog.Logger
}

// NewZaloPay creates the ZaloPay provider.
func NewZaloPay(cfg config.ZaloPayConfig, client HTTPDoer, now func() time.Time, logger zerolog.Logger) Provider {
	if now == nil {
		now = time.Now
	}
	return &zaloPayProvider{
		cfg:    cfg,
		client: client,
		now:    now,
		logger: logger.With().Str("component", "zalopay").Logger(),
	}
}

func (p *zaloPayProvider) Name() model.PaymentMethod {
	return model.PaymentZaloPay
}

// AppTransID renders yymmdd_<order id hex>.
func AppTransID(orderID uuid.UUID, at time.Time) string {
	return at.In(vietnam).Format("060102") + "_" + hex.EncodeToString(orderID[:])
}

// ParseAppTransID recovers the order id from an app_trans_id.
func ParseAppTransID(appTransID string) (uuid.UUID, error) {
	_, suffix, ok := strings.Cut(appTransID, "_")
	if !ok {
		return uuid.Nil, fmt.Errorf("malformed app_trans_id %q", appTransID)
	}
	return uuid.Parse(suffix)
}

// CreatePayment posts a v2 create request signed with key1.
func (p *zaloPayProvider) CreatePayment(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	whole, err := wholeAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("zalopay create payment: %w", err)
	}

	now := p.now()
	appID := strconv.Itoa(p.cfg.AppID)
	appTransID := AppTransID(req.OrderID, now)
	appUser := strconv.FormatInt(req.UserID, 10)
	amount := strconv.FormatInt(whole, 10)
	appTime := strconv.FormatInt(now.UnixMilli(), 10)
	item := "[]"

	embed, err := json.Marshal(map[string]string{"redirecturl": p.cfg.RedirectURL})
	if err != nil {
		return nil, err
	}
	embedData := string(embed)

	form := url.Values{
		"app_id":       {appID},
		"app_user":     {appUser},
		"app_trans_id": {appTransID},
		"app_time":     {appTime},
		"amount":       {amount},
		"item":         {item},
		"embed_data":   {embedData},
		"description":  {req.Description},
		"bank_code":    {""},
		"callback_url": {p.cfg.CallbackURL},
		"mac":          {Sign(p.cfg.Key1, strings.Join([]string{appID, appTransID, appUser, amount, appTime, embedData, item}, "|"))},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp zaloCreateResponse
	if err := doJSON(p.client, httpReq, &resp); err != nil {
		p.logger.Error().Err(err).Str("app_trans_id", appTransID).Msg("zalopay create request failed")
		return nil, fmt.Errorf("zalopay create payment: %w", err)
	}
	if resp.ReturnCode != 1 {
		p.logger.Warn().
			Str("app_trans_id", appTransID).
			Int("return_code", resp.ReturnCode).
			Str("message", resp.ReturnMessage).
			Msg("zalopay rejected payment request")
		return nil, fmt.Errorf("zalopay create payment: return %d: %s", resp.ReturnCode, resp.ReturnMessage)
	}

	return &Checkout{PayURL: resp.OrderURL, Reference: appTransID}, nil
}

// VerifyCallback checks mac = HMAC(key2, data) over the raw data string.
// ZaloPay only calls back for successful payments.
func (p *zaloPayProvider) VerifyCallback(body []byte) (*CallbackResult, error) {
	var cb ZaloPayCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, model.ErrInvalidCallback
	}

	if !Verify(p.cfg.Key2, cb.Data, cb.MAC) {
		p.logger.Warn().Msg("zalopay callback mac mismatch")
		return nil, model.ErrInvalidSignature
	}

	var data ZaloPayCallbackData
	if err := json.Unmarshal([]byte(cb.Data), &data); err != nil {
		return nil, model.ErrInvalidCallback
	}

	orderID, err := ParseAppTransID(data.AppTransID)
	if err != nil {
		return nil, model.ErrInvalidCallback
	}

	return &CallbackResult{
		OrderID: orderID,
		Success: true,
		Amount:  decimal.NewFromInt(data.Amount),
		TransID: strconv.FormatInt(data.ZpTransID, 10),
	}, nil
}
