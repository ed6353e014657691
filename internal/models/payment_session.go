package models

import (
	"encoding/json"
	"strings"
)

// 支付会话 metadata 键。会话携带重建订单所需的全部事实，
// 回跳后不再依赖可能已变化的购物车。
const (
	MetadataKeyUserID         = "user_id"
	MetadataKeyShippingMethod = "shipping_method"
	MetadataKeyShippingFee    = "shipping_fee"
	MetadataKeyDiscountAmount = "discount_amount"
	MetadataKeyOrderItems     = "order_items"
)

// SessionAddress 支付会话中的邮政地址
type SessionAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// SessionParty 支付会话中的一方（客户填写或提供方回显的资料）
type SessionParty struct {
	Name    string         `json:"name"`
	Email   string         `json:"email,omitempty"`
	Phone   string         `json:"phone,omitempty"`
	Address SessionAddress `json:"address"`
}

// Empty 判断该方资料是否为空
func (p *SessionParty) Empty() bool {
	if p == nil {
		return true
	}
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Address.Line1) == ""
}

// PaymentSession 支付会话。一次结账尝试创建一个，回跳后至多消费一次。
type PaymentSession struct {
	ID              string            `json:"id"`                         // 会话ID（cs_ 前缀）
	PaymentStatus   string            `json:"payment_status"`             // paid / unpaid
	AmountTotal     int64             `json:"amount_total"`               // 最小货币单位金额
	Currency        string            `json:"currency"`                   // 币种
	URL             string            `json:"url,omitempty"`              // 托管收银台跳转地址
	CustomerDetails *SessionParty     `json:"customer_details,omitempty"` // 客户在收银台提交的资料
	ShippingDetails *SessionParty     `json:"shipping_details,omitempty"` // 提供方单独回传的收货资料
	Metadata        map[string]string `json:"metadata"`                   // 订单重建元数据
	CreatedAt       int64             `json:"created"`                    // 创建时间（unix 秒）
}

// EncodeOrderLines 将订单行编码进 metadata 值
func EncodeOrderLines(items []OrderItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeOrderLines 从 metadata 值还原订单行
func DecodeOrderLines(raw string) ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
