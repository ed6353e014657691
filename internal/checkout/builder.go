package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

var (
	ErrShippingMethodRequired  = errors.New("shipping method not selected")
	ErrShippingMethodUnknown   = errors.New("shipping method unknown")
	ErrFreeShippingNotEligible = errors.New("free shipping requires minimum subtotal")
	ErrCartEmpty               = errors.New("cart is empty")
)

// IncompleteOptionsError 结账前置校验失败：列出缺少颜色/尺码的购物车项。
type IncompleteOptionsError struct {
	Items []IncompleteItem
}

// IncompleteItem 选项不完整的购物车项
type IncompleteItem struct {
	ItemID       uint
	Name         string
	MissingColor bool
	MissingSize  bool
}

func (e *IncompleteOptionsError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, item.Name)
	}
	return fmt.Sprintf("items missing options: %s", strings.Join(names, ", "))
}

// CartSource 购物车快照来源
type CartSource interface {
	Snapshot() models.Cart
}

// SessionCreator 支付会话创建接口
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, input api.CreateSessionInput) (string, error)
}

// Builder 结账会话构建器。校验配送选择、计算应付金额、
// 换取支付会话跳转地址。
type Builder struct {
	cart     CartSource
	sessions SessionCreator
	currency string

	method   string
	discount models.Money
}

// NewBuilder 创建结账构建器
func NewBuilder(cart CartSource, sessions SessionCreator, currency string) *Builder {
	return &Builder{
		cart:     cart,
		sessions: sessions,
		currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// SelectShipping 选择配送方式。费用立即定格，无异步调用。
// 小计未达门槛时 free 不可选（界面禁用之外的强制校验）。
func (b *Builder) SelectShipping(method string) error {
	if _, ok := ShippingFee(method); !ok {
		return ErrShippingMethodUnknown
	}
	if method == constants.ShippingMethodFree && !FreeShippingEligible(b.Subtotal()) {
		return ErrFreeShippingNotEligible
	}
	b.method = method
	return nil
}

// SelectedShipping 返回当前选择的配送方式与运费
func (b *Builder) SelectedShipping() (string, models.Money, bool) {
	if b.method == "" {
		return "", models.Money{}, false
	}
	fee, _ := ShippingFee(b.method)
	return b.method, fee, true
}

// SetDiscount 设置优惠金额
func (b *Builder) SetDiscount(discount models.Money) {
	b.discount = discount
}

// Subtotal 购物车小计
func (b *Builder) Subtotal() models.Money {
	return b.cart.Snapshot().TotalAmount
}

// Total 应付金额 = 小计 + 运费 − 优惠
func (b *Builder) Total() models.Money {
	total := b.Subtotal().Decimal
	if _, fee, ok := b.SelectedShipping(); ok {
		total = total.Add(fee.Decimal)
	}
	total = total.Sub(b.discount.Decimal)
	return models.NewMoneyFromDecimal(total)
}

// PreflightItemOptions 进入结账前的选项完整性检查：非配饰需同时有
// 颜色与尺码，配饰只需颜色。基于实时购物车重新推导，不做缓存。
func (b *Builder) PreflightItemOptions() error {
	cart := b.cart.Snapshot()
	var incomplete []IncompleteItem
	for _, item := range cart.Items {
		missingColor := strings.TrimSpace(item.Color) == ""
		missingSize := !item.Accessory && strings.TrimSpace(item.Size) == ""
		if missingColor || missingSize {
			incomplete = append(incomplete, IncompleteItem{
				ItemID:       item.ID,
				Name:         item.Name,
				MissingColor: missingColor,
				MissingSize:  missingSize,
			})
		}
	}
	if len(incomplete) > 0 {
		return &IncompleteOptionsError{Items: incomplete}
	}
	return nil
}

// Submit 提交结账：未选配送方式直接校验失败（不发任何请求），
// 否则按实时快照计算应付金额并请求支付会话。购物车项全量写入会话
// metadata，回跳后即使购物车已变化也能重建订单。
func (b *Builder) Submit(ctx context.Context, token string) (string, error) {
	method, fee, ok := b.SelectedShipping()
	if !ok {
		return "", ErrShippingMethodRequired
	}

	cart := b.cart.Snapshot()
	if cart.IsEmpty() {
		return "", ErrCartEmpty
	}
	// 选择 free 后购物车可能又缩水到门槛以下，提交前按实时小计复核
	if method == constants.ShippingMethodFree && !FreeShippingEligible(cart.TotalAmount) {
		return "", ErrFreeShippingNotEligible
	}

	userID, err := UserIDFromToken(token)
	if err != nil {
		return "", err
	}

	orderItems := orderLinesFromCart(cart)
	encoded, err := models.EncodeOrderLines(orderItems)
	if err != nil {
		return "", err
	}
	metadata := map[string]string{
		models.MetadataKeyUserID:         strconv.FormatUint(uint64(userID), 10),
		models.MetadataKeyShippingMethod: method,
		models.MetadataKeyShippingFee:    fee.String(),
		models.MetadataKeyDiscountAmount: b.discount.String(),
		models.MetadataKeyOrderItems:     encoded,
	}

	return b.sessions.CreateCheckoutSession(ctx, api.CreateSessionInput{
		Amount:         b.Total(),
		Currency:       b.currency,
		Metadata:       metadata,
		OrderItems:     orderItems,
		ShippingFee:    fee,
		DiscountAmount: b.discount,
	})
}

// orderLinesFromCart 将购物车项定格为订单行
func orderLinesFromCart(cart models.Cart) []models.OrderItem {
	now := time.Now()
	lines := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
			CreatedAt: now,
		})
	}
	return lines
}
