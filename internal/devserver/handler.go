package devserver

import (
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// Handler 本地联调后端处理器。演示客户端引擎依赖的远端契约：
// 服务端重算购物车合计、支付会话、按会话ID幂等建单。
type Handler struct {
	db       *gorm.DB
	sessions SessionStore
	payment  config.PaymentConfig

	minimumAmount models.Money
}

// NewHandler 创建处理器
func NewHandler(db *gorm.DB, sessions SessionStore, payment config.PaymentConfig) *Handler {
	minimum, err := models.NewMoneyFromString(payment.MinimumAmount)
	if err != nil {
		minimum = models.MustMoney("0.50")
	}
	return &Handler{
		db:       db,
		sessions: sessions,
		payment:  payment,

		minimumAmount: minimum,
	}
}
