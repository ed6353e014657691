package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CartItemUpdateRequest 购物车项更新请求。数量与选项共用同一端点，
// 只应用请求中出现的字段。
type CartItemUpdateRequest struct {
	Quantity *int    `json:"quantity"`
	Color    *string `json:"color"`
	Size     *string `json:"size"`
}

// GetCart 获取当前用户购物车（服务端即时重算合计）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.loadCart(uid)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "cart fetch failed")
		return
	}
	respondData(c, cart)
}

// UpdateCartItem 更新购物车项数量或颜色/尺码。
// 数量越界直接拒绝；服务端是合法性的最终裁决方。
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	var req CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body invalid")
		return
	}
	if req.Quantity == nil && req.Color == nil && req.Size == nil {
		respondError(c, http.StatusBadRequest, "no updatable fields")
		return
	}
	if req.Quantity != nil && (*req.Quantity < constants.CartQuantityMin || *req.Quantity > constants.CartQuantityMax) {
		respondError(c, http.StatusBadRequest, "quantity out of range")
		return
	}

	var item models.CartItem
	err := h.db.Where("user_id = ? AND id = ?", uid, itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "cart item not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "cart item fetch failed")
		return
	}

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Color != nil {
		item.Color = strings.TrimSpace(*req.Color)
	}
	if req.Size != nil {
		size := strings.TrimSpace(*req.Size)
		if item.Accessory && size != "" {
			respondError(c, http.StatusBadRequest, "accessory items have no size")
			return
		}
		item.Size = size
	}
	if err := h.db.Save(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "cart item update failed")
		return
	}

	h.respondCart(c, uid)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	result := h.db.Where("user_id = ? AND id = ?", uid, itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "cart item delete failed")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "cart item not found")
		return
	}

	h.respondCart(c, uid)
}

// loadCart 加载用户购物车并重算合计
func (h *Handler) loadCart(userID uint) (*models.Cart, error) {
	var items []models.CartItem
	if err := h.db.Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	cart := &models.Cart{Items: items}
	cart.Recalculate()
	return cart, nil
}

func (h *Handler) respondCart(c *gin.Context, userID uint) {
	cart, err := h.loadCart(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "cart fetch failed")
		return
	}
	respondData(c, cart)
}

func parseItemID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "cart item id invalid")
		return 0, false
	}
	return uint(id), true
}
