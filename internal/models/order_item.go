package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项（定格下单时点的价格与小计）
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                           // 主键
	OrderID   uint           `gorm:"index;not null" json:"-"`                        // 订单ID
	ProductID uint           `gorm:"not null" json:"product_id"`                     // 商品ID
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`         // 商品名称快照
	Color     string         `gorm:"type:varchar(50)" json:"color"`                  // 颜色选项
	Size      string         `gorm:"type:varchar(50)" json:"size"`                   // 尺码选项
	Quantity  int            `gorm:"not null" json:"quantity"`                       // 数量
	UnitPrice Money          `gorm:"type:decimal(20,2);not null" json:"unit_price"`  // 下单时单价
	Subtotal  Money          `gorm:"type:decimal(20,2);not null" json:"subtotal"`    // 行小计
	CreatedAt time.Time      `json:"created_at"`                                     // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
