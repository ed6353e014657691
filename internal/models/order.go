package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingInfo 收货信息快照（来自支付会话，而非购物车）
type ShippingInfo struct {
	Name       string `gorm:"type:varchar(120)" json:"name"`        // 收件人姓名
	Phone      string `gorm:"type:varchar(40)" json:"phone"`        // 联系电话
	Email      string `gorm:"type:varchar(200)" json:"email"`       // 邮箱
	Address    string `gorm:"type:varchar(300)" json:"address"`     // 地址行
	City       string `gorm:"type:varchar(120)" json:"city"`        // 城市
	State      string `gorm:"type:varchar(120)" json:"state"`       // 省/州
	PostalCode string `gorm:"type:varchar(40)" json:"postal_code"`  // 邮编
	Country    string `gorm:"type:varchar(10)" json:"country"`      // 国家代码
}

// Order 订单表。SessionID 唯一索引即幂等约束：同一支付会话至多产生一个订单。
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID         uint           `gorm:"index;not null" json:"user_id"`                                // 用户ID
	SessionID      string         `gorm:"uniqueIndex;not null" json:"session_id"`                       // 支付会话ID（幂等键）
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentStatus  string         `gorm:"not null" json:"payment_status"`                               // 支付状态
	PaymentMethod  string         `gorm:"not null" json:"payment_method"`                               // 支付方式
	ShippingMethod string         `gorm:"not null" json:"shipping_method"`                              // 配送方式
	Currency       string         `gorm:"not null" json:"currency"`                                     // 币种
	ShippingFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`    // 运费
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	ShippingInfo   ShippingInfo   `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_info"`       // 收货信息快照
	PaidAt         *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
