package checkout

import (
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// 固定运费表
var shippingFees = map[string]models.Money{
	constants.ShippingMethodFree:     models.MustMoney("0.00"),
	constants.ShippingMethodStandard: models.MustMoney("9.99"),
	constants.ShippingMethodExpress:  models.MustMoney("20.99"),
}

// freeShippingThreshold 免运费小计门槛
var freeShippingThreshold = models.MustMoney("75.00")

// ShippingFee 返回配送方式对应的固定运费
func ShippingFee(method string) (models.Money, bool) {
	fee, ok := shippingFees[method]
	return fee, ok
}

// FreeShippingEligible 判断小计是否达到免运费门槛
func FreeShippingEligible(subtotal models.Money) bool {
	return subtotal.Decimal.GreaterThanOrEqual(freeShippingThreshold.Decimal)
}

// ShippingMethods 返回全部配送方式（含当前小计下是否可选）
func ShippingMethods(subtotal models.Money) []ShippingOption {
	return []ShippingOption{
		{
			Method:    constants.ShippingMethodFree,
			Fee:       shippingFees[constants.ShippingMethodFree],
			Available: FreeShippingEligible(subtotal),
		},
		{
			Method:    constants.ShippingMethodStandard,
			Fee:       shippingFees[constants.ShippingMethodStandard],
			Available: true,
		},
		{
			Method:    constants.ShippingMethodExpress,
			Fee:       shippingFees[constants.ShippingMethodExpress],
			Available: true,
		},
	}
}

// ShippingOption 配送方式选项
type ShippingOption struct {
	Method    string       `json:"method"`
	Fee       models.Money `json:"fee"`
	Available bool         `json:"available"`
}
