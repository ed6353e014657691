package store

import (
	"context"
	"sync"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/signals"
)

// RemoteCart 远端购物车操作接口
type RemoteCart interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) (*models.Cart, error)
	UpdateItemOptions(ctx context.Context, itemID uint, color, size string) (*models.Cart, error)
	RemoveItem(ctx context.Context, itemID uint) (*models.Cart, error)
}

// CartStore 乐观购物车存储。本地先行应用变更以隐藏网络延迟，
// 每次成功的远端应答整体覆盖本地状态（服务端是价格/可售性的最终裁决方），
// 任何远端失败都通过全量重拉收敛。
type CartStore struct {
	mu      sync.Mutex
	remote  RemoteCart
	hub     *signals.Hub
	cart    models.Cart
	version uint64
}

// New 创建购物车存储
func New(remote RemoteCart, hub *signals.Hub) *CartStore {
	return &CartStore{
		remote: remote,
		hub:    hub,
	}
}

// Snapshot 返回当前购物车快照（拷贝）
func (s *CartStore) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.cart)
}

// Refresh 全量拉取购物车。带过期应答保护：拉取期间本地状态已被
// 其他操作更新时丢弃本次应答，不回退到旧数据。
func (s *CartStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	started := s.version
	s.mu.Unlock()

	cart, err := s.remote.FetchCart(ctx)
	if err != nil {
		return err
	}
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	if s.version != started {
		s.mu.Unlock()
		return nil
	}
	s.cart = copyCart(*cart)
	s.version++
	s.mu.Unlock()

	s.notifyCartChanged()
	return nil
}

// UpdateQuantity 更新购物车项数量。超出 [1,10] 时为空操作（不发请求）。
// 本地先行应用并单次遍历重算合计，随后发远端请求：
// 成功采纳服务端购物车，失败全量重拉收敛。
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID uint, quantity int) error {
	if quantity < constants.CartQuantityMin || quantity > constants.CartQuantityMax {
		return nil
	}
	return s.mutateOptimistic(ctx,
		func(cart *models.Cart) {
			if idx := cart.FindItem(itemID); idx >= 0 {
				cart.Items[idx].Quantity = quantity
			}
		},
		func(ctx context.Context) (*models.Cart, error) {
			return s.remote.UpdateItemQuantity(ctx, itemID, quantity)
		},
	)
}

// RemoveItem 删除购物车项（同样的乐观应用/确认/重拉回滚模式）
func (s *CartStore) RemoveItem(ctx context.Context, itemID uint) error {
	return s.mutateOptimistic(ctx,
		func(cart *models.Cart) {
			if idx := cart.FindItem(itemID); idx >= 0 {
				cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			}
		},
		func(ctx context.Context) (*models.Cart, error) {
			return s.remote.RemoveItem(ctx, itemID)
		},
	)
}

// UpdateItemOptions 更新颜色/尺码。非乐观：组合合法性必须由服务端
// 对照商品裁决，本地不预先变更。成功采纳服务端购物车，失败重拉。
func (s *CartStore) UpdateItemOptions(ctx context.Context, itemID uint, color, size string) error {
	cart, err := s.remote.UpdateItemOptions(ctx, itemID, color, size)
	if err != nil {
		s.refetch(ctx)
		return err
	}
	s.adopt(cart)
	s.notifyCartChanged()
	return nil
}

// mutateOptimistic 通用乐观变更：本地应用 → 远端确认 → 采纳或重拉。
// 数量、删除及未来的乐观变更共用此路径。
func (s *CartStore) mutateOptimistic(ctx context.Context, local func(*models.Cart), remote func(context.Context) (*models.Cart, error)) error {
	s.mu.Lock()
	local(&s.cart)
	s.cart.Recalculate()
	s.version++
	s.mu.Unlock()

	cart, err := remote(ctx)
	if err != nil {
		// 收敛机制：丢弃乐观状态，以服务端真相为准
		s.refetch(ctx)
		return err
	}
	s.adopt(cart)
	s.notifyCartChanged()
	return nil
}

// adopt 整体采纳服务端购物车（最后到达的应答获胜）
func (s *CartStore) adopt(cart *models.Cart) {
	if cart == nil {
		return
	}
	s.mu.Lock()
	s.cart = copyCart(*cart)
	s.version++
	s.mu.Unlock()
}

// refetch 失败后的无条件全量重拉。重拉本身失败时保留现状并记录，
// 下一次操作会再次触发收敛。
func (s *CartStore) refetch(ctx context.Context) {
	cart, err := s.remote.FetchCart(ctx)
	if err != nil {
		logger.Warnw("cart_refetch_failed", "error", err)
		return
	}
	s.adopt(cart)
	s.notifyCartChanged()
}

func (s *CartStore) notifyCartChanged() {
	if s.hub == nil {
		return
	}
	s.hub.Publish(constants.TopicCartChanged, s.Snapshot())
}

func copyCart(cart models.Cart) models.Cart {
	copied := cart
	copied.Items = make([]models.CartItem, len(cart.Items))
	copy(copied.Items, cart.Items)
	return copied
}
