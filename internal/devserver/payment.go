package devserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSessionRequest 创建支付会话请求（金额为主货币单位）
type CreateSessionRequest struct {
	Amount         models.Money       `json:"amount"`
	Currency       string             `json:"currency"`
	Metadata       map[string]string  `json:"metadata"`
	OrderItems     []models.OrderItem `json:"order_items"`
	ShippingFee    models.Money       `json:"shipping_fee"`
	DiscountAmount models.Money       `json:"discount_amount"`
}

// CompleteSessionRequest 模拟托管收银台提交（标记已支付并回传客户资料）
type CompleteSessionRequest struct {
	CustomerDetails *models.SessionParty `json:"customer_details"`
	ShippingDetails *models.SessionParty `json:"shipping_details"`
}

// CreateCheckoutSession 创建支付会话。低于渠道下限的金额带数字拒绝；
// 金额在此处换算为最小货币单位。
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body invalid")
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		respondError(c, http.StatusBadRequest, "currency is required")
		return
	}
	if req.Amount.Decimal.LessThan(h.minimumAmount.Decimal) {
		respondAmountTooSmall(c, h.minimumAmount, req.Amount)
		return
	}

	sessionID := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	session := &models.PaymentSession{
		ID:            sessionID,
		PaymentStatus: constants.PaymentStatusUnpaid,
		AmountTotal:   req.Amount.MinorUnits(currency),
		Currency:      currency,
		URL:           strings.TrimRight(h.payment.CheckoutURLBase, "/") + "/" + sessionID,
		Metadata:      req.Metadata,
		CreatedAt:     nowUnix(),
	}
	if err := h.sessions.Put(c.Request.Context(), session); err != nil {
		logger.Errorw("payment_session_store_failed", "session_id", sessionID, "error", err)
		respondError(c, http.StatusInternalServerError, "session store failed")
		return
	}

	respondPayload(c, gin.H{"url": session.URL})
}

// CompletePaymentSession 模拟托管收银台完成支付：标记 paid 并记录
// 客户在收银台提交的资料
func (h *Handler) CompletePaymentSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("id"))
	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		respondError(c, http.StatusNotFound, "payment session not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "session fetch failed")
		return
	}

	// 资料体可省略（模拟用户未填写任何可选项）
	var req CompleteSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "request body invalid")
			return
		}
	}
	session.PaymentStatus = constants.PaymentStatusPaid
	if req.CustomerDetails != nil {
		session.CustomerDetails = req.CustomerDetails
	}
	if req.ShippingDetails != nil {
		session.ShippingDetails = req.ShippingDetails
	}
	if err := h.sessions.Put(c.Request.Context(), session); err != nil {
		respondError(c, http.StatusInternalServerError, "session store failed")
		return
	}

	respondPayload(c, gin.H{"session": session})
}

func nowUnix() int64 {
	return time.Now().Unix()
}

// GetPaymentSession 按会话ID返回权威支付会话
func (h *Handler) GetPaymentSession(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	sessionID := strings.TrimSpace(c.Param("id"))
	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		respondError(c, http.StatusNotFound, "payment session not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "session fetch failed")
		return
	}
	respondPayload(c, gin.H{"session": session})
}
