package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

const defaultTimeout = 12 * time.Second

// Config 远端后端客户端配置
type Config struct {
	BaseURL        string
	Token          string
	TimeoutSeconds int
}

// Client 远端购物车/支付/订单 REST 客户端。
// 所有调用携带 Bearer 凭证，context 取消即中止请求。
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New 创建后端客户端
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SetToken 更新 Bearer 凭证
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// Token 返回当前 Bearer 凭证
func (c *Client) Token() string {
	return c.token
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: encode request failed", ErrRequestFailed)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return respBody, resp.StatusCode, nil
}

// failure 后端失败应答体
type failure struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	ErrorCode     string        `json:"error_code"`
	MinimumAmount *models.Money `json:"minimum_amount"`
	CurrentAmount *models.Money `json:"current_amount"`
}

// decodeFailure 将非成功应答映射为错误
func decodeFailure(body []byte, statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", ErrUnauthorized, statusCode)
	}
	var fail failure
	if err := json.Unmarshal(body, &fail); err != nil {
		return fmt.Errorf("%w: status %d", ErrResponseInvalid, statusCode)
	}
	if fail.ErrorCode == constants.ErrorCodeAmountTooSmall && fail.MinimumAmount != nil && fail.CurrentAmount != nil {
		return &AmountTooSmallError{
			Minimum: *fail.MinimumAmount,
			Current: *fail.CurrentAmount,
		}
	}
	message := strings.TrimSpace(fail.Message)
	if message == "" {
		message = fmt.Sprintf("status %d", statusCode)
	}
	return fmt.Errorf("%w: %s", ErrRejected, message)
}
