package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/storefront-next/internal/models"
)

// PaymentInfo 订单创建时的支付确认块。SessionID 同时作为服务端幂等键。
type PaymentInfo struct {
	SessionID     string       `json:"session_id"`
	Amount        models.Money `json:"amount"`
	Currency      string       `json:"currency"`
	PaymentStatus string       `json:"payment_status"`
}

// CreateOrderInput 创建订单输入。订单行取自会话 metadata，而非实时购物车。
type CreateOrderInput struct {
	ShippingInfo   models.ShippingInfo `json:"shipping_info"`
	PaymentMethod  string              `json:"payment_method"`
	ShippingFee    models.Money        `json:"shipping_fee"`
	DiscountAmount models.Money        `json:"discount_amount"`
	ShippingMethod string              `json:"shipping_method"`
	PaymentInfo    PaymentInfo         `json:"payment_info"`
	OrderItems     []models.OrderItem  `json:"order_items_from_metadata"`
}

// orderEnvelope 订单应答体
type orderEnvelope struct {
	Success bool          `json:"success"`
	Data    *models.Order `json:"data"`
}

// CreateOrder 提交订单创建请求。服务端必须按 payment_info.session_id 幂等：
// 重试同一会话只会返回同一订单。
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.PaymentInfo.SessionID) == "" {
		return nil, fmt.Errorf("%w: payment session id is required", ErrConfigInvalid)
	}
	body, statusCode, err := c.doJSON(ctx, http.MethodPost, "/orders", input)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, decodeFailure(body, statusCode)
	}
	var envelope orderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode order failed", ErrResponseInvalid)
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, decodeFailure(body, statusCode)
	}
	return envelope.Data, nil
}
