package business

import (
	"github.com/shopspring/decimal"
)

// feeTier 阶梯运费档位
type feeTier struct {
	MaxTotal decimal.Decimal // 上界（不含）
	Fee      decimal.Decimal
}

// shippingTiers 阶梯运费表：取第一个上界严格大于订单金额的档位
// 所有档位都不命中时免运费
var shippingTiers = []feeTier{
	{MaxTotal: decimal.NewFromInt(50), Fee: decimal.RequireFromString("9.99")},
	{MaxTotal: decimal.NewFromInt(100), Fee: decimal.RequireFromString("7.99")},
	{MaxTotal: decimal.NewFromInt(200), Fee: decimal.RequireFromString("5.99")},
}

// CalculateTieredShippingFee 按阶梯运费表计算运费
func CalculateTieredShippingFee(orderTotal decimal.Decimal) decimal.Decimal {
	for _, tier := range shippingTiers {
		if orderTotal.LessThan(tier.MaxTotal) {
			return tier.Fee
		}
	}
	return decimal.Zero
}

// ParseOrderTotal 解析报文中的订单金额
// 缺失或无法解析时按 0 处理
func ParseOrderTotal(totalPrice string) decimal.Decimal {
	if totalPrice == "" {
		return decimal.Zero
	}
	total, err := decimal.NewFromString(totalPrice)
	if err != nil {
		return decimal.Zero
	}
	return total
}
