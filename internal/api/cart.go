package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/storefront-next/internal/models"
)

// cartEnvelope 购物车应答体
type cartEnvelope struct {
	Success bool         `json:"success"`
	Data    *models.Cart `json:"data"`
}

// FetchCart 拉取当前用户购物车全量快照
func (c *Client) FetchCart(ctx context.Context) (*models.Cart, error) {
	body, statusCode, err := c.doJSON(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	return decodeCart(body, statusCode)
}

// UpdateItemQuantity 更新购物车项数量，返回服务端权威购物车
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) (*models.Cart, error) {
	payload := map[string]interface{}{"quantity": quantity}
	body, statusCode, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), payload)
	if err != nil {
		return nil, err
	}
	return decodeCart(body, statusCode)
}

// UpdateItemOptions 更新购物车项颜色/尺码。只发送有值的选项字段
// （配饰没有尺码），组合合法性由服务端裁决。
func (c *Client) UpdateItemOptions(ctx context.Context, itemID uint, color, size string) (*models.Cart, error) {
	payload := map[string]interface{}{}
	if v := strings.TrimSpace(color); v != "" {
		payload["color"] = v
	}
	if v := strings.TrimSpace(size); v != "" {
		payload["size"] = v
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no option fields", ErrConfigInvalid)
	}
	body, statusCode, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), payload)
	if err != nil {
		return nil, err
	}
	return decodeCart(body, statusCode)
}

// RemoveItem 删除购物车项，返回服务端权威购物车
func (c *Client) RemoveItem(ctx context.Context, itemID uint) (*models.Cart, error) {
	body, statusCode, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil)
	if err != nil {
		return nil, err
	}
	return decodeCart(body, statusCode)
}

func decodeCart(body []byte, statusCode int) (*models.Cart, error) {
	if statusCode < 200 || statusCode >= 300 {
		return nil, decodeFailure(body, statusCode)
	}
	var envelope cartEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode cart failed", ErrResponseInvalid)
	}
	if !envelope.Success {
		return nil, decodeFailure(body, statusCode)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: missing cart payload", ErrResponseInvalid)
	}
	return envelope.Data, nil
}
