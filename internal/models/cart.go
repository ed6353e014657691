package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem 购物车项。单价在加入时定格，后续不随商品目录变化。
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                       // 主键
	UserID    uint           `gorm:"not null;index:idx_cart_user" json:"-"`                      // 归属用户ID
	ProductID uint           `gorm:"not null" json:"product_id"`                                 // 商品ID
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`                     // 商品名称快照
	Color     string         `gorm:"type:varchar(50)" json:"color"`                              // 颜色选项
	Size      string         `gorm:"type:varchar(50)" json:"size"`                               // 尺码选项
	Quantity  int            `gorm:"not null" json:"quantity"`                                   // 数量（1-10）
	UnitPrice Money          `gorm:"type:decimal(20,2);not null" json:"unit_price"`              // 加入时单价
	FinalSale bool           `gorm:"not null;default:false" json:"final_sale"`                   // 最终折扣不可退
	Accessory bool           `gorm:"not null;default:false" json:"accessory"`                    // 配饰类商品（无尺码）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal 行小计（单价 × 数量）
func (i CartItem) Subtotal() Money {
	return NewMoneyFromDecimal(i.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Cart 购物车视图。TotalAmount 与 TotalItems 在每次变更后必须满足
// TotalAmount == Σ(单价×数量)、TotalItems == Σ(数量)。
type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount Money      `json:"total_amount"`
	TotalItems  int        `json:"total_items"`
}

// Recalculate 单次遍历重算合计金额与件数
func (c *Cart) Recalculate() {
	total := decimal.Zero
	count := 0
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	c.TotalAmount = NewMoneyFromDecimal(total)
	c.TotalItems = count
}

// FindItem 按购物车项ID查找，返回索引；未找到返回 -1
func (c *Cart) FindItem(itemID uint) int {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

// IsEmpty 判断购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
