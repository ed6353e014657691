package constants

// 配送方式常量
const (
	ShippingMethodFree     = "free"
	ShippingMethodStandard = "standard"
	ShippingMethodExpress  = "express"
)

// 订单状态常量
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

// 支付状态常量
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// 支付方式常量
const (
	PaymentMethodCard = "card"
)

// 购物车数量边界
const (
	CartQuantityMin = 1
	CartQuantityMax = 10
)

// 信号主题常量
const (
	TopicCartChanged      = "cart.changed"
	TopicFavoritesChanged = "favorites.changed"
)

// PhonePlaceholder 支付会话缺少电话时写入的占位值
const PhonePlaceholder = "N/A"

// ErrorCodeAmountTooSmall 支付金额低于渠道下限的业务错误码
const ErrorCodeAmountTooSmall = "amount_too_small"
