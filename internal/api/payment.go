package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/storefront-next/internal/models"
)

// CreateSessionInput 创建支付会话输入。金额保持主货币单位，
// 最小单位换算由会话端点负责。
type CreateSessionInput struct {
	Amount         models.Money       `json:"amount"`
	Currency       string             `json:"currency"`
	Metadata       map[string]string  `json:"metadata"`
	OrderItems     []models.OrderItem `json:"order_items"`
	ShippingFee    models.Money       `json:"shipping_fee"`
	DiscountAmount models.Money       `json:"discount_amount"`
}

// createSessionEnvelope 创建会话应答体
type createSessionEnvelope struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// sessionEnvelope 查询会话应答体
type sessionEnvelope struct {
	Success bool                   `json:"success"`
	Session *models.PaymentSession `json:"session"`
}

// CreateCheckoutSession 请求支付会话，返回托管收银台跳转地址
func (c *Client) CreateCheckoutSession(ctx context.Context, input CreateSessionInput) (string, error) {
	if strings.TrimSpace(input.Currency) == "" {
		return "", fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	body, statusCode, err := c.doJSON(ctx, http.MethodPost, "/payment/create-checkout-session", input)
	if err != nil {
		return "", err
	}
	if statusCode < 200 || statusCode >= 300 {
		return "", decodeFailure(body, statusCode)
	}
	var envelope createSessionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("%w: decode session failed", ErrResponseInvalid)
	}
	if !envelope.Success {
		return "", decodeFailure(body, statusCode)
	}
	redirect := strings.TrimSpace(envelope.URL)
	if redirect == "" {
		return "", fmt.Errorf("%w: missing redirect url", ErrResponseInvalid)
	}
	return redirect, nil
}

// GetPaymentSession 按会话ID拉取权威支付会话
func (c *Client) GetPaymentSession(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrConfigInvalid)
	}
	path := "/payment/session/" + url.PathEscape(sessionID)
	body, statusCode, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, decodeFailure(body, statusCode)
	}
	var envelope sessionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode session failed", ErrResponseInvalid)
	}
	if !envelope.Success || envelope.Session == nil {
		return nil, decodeFailure(body, statusCode)
	}
	if strings.TrimSpace(envelope.Session.ID) == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrResponseInvalid)
	}
	return envelope.Session, nil
}
