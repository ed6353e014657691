package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

var (
	ErrSessionIDMissing       = errors.New("payment session id missing")
	ErrResolveInFlight        = errors.New("resolution already in flight")
	ErrSessionNotPaid         = errors.New("payment session not paid")
	ErrShippingFactsInvalid   = errors.New("payment session shipping facts invalid")
	ErrSessionMetadataInvalid = errors.New("payment session metadata invalid")
)

// SessionFetcher 支付会话查询接口
type SessionFetcher interface {
	GetPaymentSession(ctx context.Context, sessionID string) (*models.PaymentSession, error)
}

// OrderCreator 订单创建接口
type OrderCreator interface {
	CreateOrder(ctx context.Context, input api.CreateOrderInput) (*models.Order, error)
}

// Resolver 支付完成解析器。从支付提供方回跳后，把一个已支付的
// 支付会话变成恰好一个持久化订单。进行中标记只挡住同一实例内的
// 重复触发；防重复下单的正确性保证是服务端按会话ID的幂等约束。
type Resolver struct {
	sessions SessionFetcher
	orders   OrderCreator
	nav      Navigator

	successURL      string
	confirmationURL string

	inFlight atomic.Bool
}

// New 创建解析器。successURL/confirmationURL 为回跳后改写历史
// 使用的稳定地址前缀。
func New(sessions SessionFetcher, orders OrderCreator, nav Navigator, successURL, confirmationURL string) *Resolver {
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Resolver{
		sessions:        sessions,
		orders:          orders,
		nav:             nav,
		successURL:      strings.TrimRight(strings.TrimSpace(successURL), "/"),
		confirmationURL: strings.TrimRight(strings.TrimSpace(confirmationURL), "/"),
	}
}

// Resolve 解析一次支付回跳。会话ID缺失是终态错误；会话未支付不建单；
// 订单行从会话 metadata 还原（购物车此时可能已变化或已清空）。
// 成功后先把当前历史条目改写为稳定成功地址，再以替换方式导航到
// 确认页，使回退无法重新触发本流程。
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*models.Order, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionIDMissing
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrResolveInFlight
	}
	defer r.inFlight.Store(false)

	session, err := r.sessions.GetPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PaymentStatus != constants.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: status %q", ErrSessionNotPaid, session.PaymentStatus)
	}

	shipping, err := shippingFromSession(session)
	if err != nil {
		return nil, err
	}
	items, err := orderLinesFromMetadata(session.Metadata)
	if err != nil {
		return nil, err
	}

	shippingFee := moneyFromMetadata(session.Metadata, models.MetadataKeyShippingFee)
	discount := moneyFromMetadata(session.Metadata, models.MetadataKeyDiscountAmount)
	method := session.Metadata[models.MetadataKeyShippingMethod]

	order, err := r.orders.CreateOrder(ctx, api.CreateOrderInput{
		ShippingInfo:   shipping,
		PaymentMethod:  constants.PaymentMethodCard,
		ShippingFee:    shippingFee,
		DiscountAmount: discount,
		ShippingMethod: method,
		PaymentInfo: api.PaymentInfo{
			SessionID:     session.ID,
			Amount:        models.MoneyFromMinorUnits(session.AmountTotal, session.Currency),
			Currency:      session.Currency,
			PaymentStatus: session.PaymentStatus,
		},
		OrderItems: items,
	})
	if err != nil {
		// 最敏感的失败：款已收、单未立。只上报，不自动重试——
		// 盲目重试的安全网是服务端幂等键，不是客户端。
		logger.Errorw("order_create_after_payment_failed",
			"session_id", sessionID,
			"error", err,
		)
		return nil, err
	}

	r.nav.ReplaceState(r.successURL + "?session_id=" + url.QueryEscape(session.ID))
	r.nav.ReplaceTo(r.confirmationURL + "/" + url.PathEscape(order.OrderNo))

	logger.Infow("order_finalized",
		"session_id", sessionID,
		"order_no", order.OrderNo,
	)
	return order, nil
}

// shippingFromSession 从支付会话推导收货事实。优先取 customer_details
//（用户在收银台实际提交的资料），仅当其为空时退回 shipping_details：
// 提供方可能把预填档案原样回显为 customer_details，无法区分
//"用户重新输入了相同内容"与"用户接受了预填"——这是上游数据模型
// 固有的歧义，保持该取值顺序即可。
func shippingFromSession(session *models.PaymentSession) (models.ShippingInfo, error) {
	party := session.CustomerDetails
	if party.Empty() {
		party = session.ShippingDetails
	}
	if party.Empty() {
		return models.ShippingInfo{}, fmt.Errorf("%w: no recipient details", ErrShippingFactsInvalid)
	}
	name := strings.TrimSpace(party.Name)
	line1 := strings.TrimSpace(party.Address.Line1)
	if name == "" || line1 == "" {
		return models.ShippingInfo{}, fmt.Errorf("%w: recipient name or address missing", ErrShippingFactsInvalid)
	}

	address := line1
	if line2 := strings.TrimSpace(party.Address.Line2); line2 != "" {
		address += ", " + line2
	}
	phone := strings.TrimSpace(party.Phone)
	if phone == "" {
		phone = constants.PhonePlaceholder
	}
	return models.ShippingInfo{
		Name:       name,
		Phone:      phone,
		Email:      strings.TrimSpace(party.Email),
		Address:    address,
		City:       strings.TrimSpace(party.Address.City),
		State:      strings.TrimSpace(party.Address.State),
		PostalCode: strings.TrimSpace(party.Address.PostalCode),
		Country:    strings.TrimSpace(party.Address.Country),
	}, nil
}

// orderLinesFromMetadata 从会话 metadata 还原订单行
func orderLinesFromMetadata(metadata map[string]string) ([]models.OrderItem, error) {
	raw, ok := metadata[models.MetadataKeyOrderItems]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: order items missing", ErrSessionMetadataInvalid)
	}
	items, err := models.DecodeOrderLines(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: order items malformed", ErrSessionMetadataInvalid)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order items empty", ErrSessionMetadataInvalid)
	}
	return items, nil
}

func moneyFromMetadata(metadata map[string]string, key string) models.Money {
	raw, ok := metadata[key]
	if !ok {
		return models.Money{}
	}
	amount, err := models.NewMoneyFromString(raw)
	if err != nil {
		return models.Money{}
	}
	return amount
}
