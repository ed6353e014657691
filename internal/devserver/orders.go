package devserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderPaymentInfo 订单创建请求中的支付确认块
type OrderPaymentInfo struct {
	SessionID     string       `json:"session_id"`
	Amount        models.Money `json:"amount"`
	Currency      string       `json:"currency"`
	PaymentStatus string       `json:"payment_status"`
}

// CreateOrderRequest 创建订单请求。订单行来自支付会话 metadata。
type CreateOrderRequest struct {
	ShippingInfo   models.ShippingInfo `json:"shipping_info"`
	PaymentMethod  string              `json:"payment_method"`
	ShippingFee    models.Money        `json:"shipping_fee"`
	DiscountAmount models.Money        `json:"discount_amount"`
	ShippingMethod string              `json:"shipping_method"`
	PaymentInfo    OrderPaymentInfo    `json:"payment_info"`
	OrderItems     []models.OrderItem  `json:"order_items_from_metadata"`
}

// CreateOrder 创建订单。按 payment_info.session_id 幂等：唯一索引 +
// 冲突后回读，同一会话的重试返回同一订单（先写者胜）。
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body invalid")
		return
	}
	sessionID := strings.TrimSpace(req.PaymentInfo.SessionID)
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "payment session id is required")
		return
	}
	if len(req.OrderItems) == 0 {
		respondError(c, http.StatusBadRequest, "order items are required")
		return
	}

	if existing, found := h.findOrderBySession(sessionID); found {
		respondData(c, existing)
		return
	}

	order := buildOrder(uid, sessionID, &req)
	if err := h.db.Create(order).Error; err != nil {
		// 并发重试撞上唯一索引：回读先写者的订单
		if existing, found := h.findOrderBySession(sessionID); found {
			respondData(c, existing)
			return
		}
		logger.Errorw("order_create_failed", "session_id", sessionID, "error", err)
		respondError(c, http.StatusInternalServerError, "order create failed")
		return
	}

	respondData(c, order)
}

// GetOrder 按订单编号查询订单
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))
	var order models.Order
	err := h.db.Preload("Items").Where("user_id = ? AND order_no = ?", uid, orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "order fetch failed")
		return
	}
	respondData(c, &order)
}

func (h *Handler) findOrderBySession(sessionID string) (*models.Order, bool) {
	var order models.Order
	err := h.db.Preload("Items").Where("session_id = ?", sessionID).First(&order).Error
	if err != nil {
		return nil, false
	}
	return &order, true
}

// buildOrder 由请求构建订单。实付金额服务端重算：
// Σ行小计 + 运费 − 优惠。
func buildOrder(userID uint, sessionID string, req *CreateOrderRequest) *models.Order {
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		subtotal := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  models.NewMoneyFromDecimal(subtotal),
		})
	}
	total = total.Add(req.ShippingFee.Decimal).Sub(req.DiscountAmount.Decimal)

	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         userID,
		SessionID:      sessionID,
		Status:         constants.OrderStatusProcessing,
		PaymentStatus:  req.PaymentInfo.PaymentStatus,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		Currency:       strings.ToUpper(strings.TrimSpace(req.PaymentInfo.Currency)),
		ShippingFee:    req.ShippingFee,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    models.NewMoneyFromDecimal(total),
		ShippingInfo:   req.ShippingInfo,
		Items:          items,
	}
	if req.PaymentInfo.PaymentStatus == constants.PaymentStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	return order
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("SF%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
