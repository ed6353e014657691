package resolver

// Navigator 浏览历史操作抽象。一次性外部跳转完成后必须"替换、
// 而非压入"历史记录，使回退无法返回已消费的支付页面——该模式
// 不依赖任何界面框架。
type Navigator interface {
	// ReplaceState 就地改写当前历史条目的地址（不导航）
	ReplaceState(url string)
	// ReplaceTo 以替换方式导航到目标地址（不产生新历史条目）
	ReplaceTo(url string)
}

// NopNavigator 空实现（无界面宿主时使用）
type NopNavigator struct{}

// ReplaceState 空操作
func (NopNavigator) ReplaceState(string) {}

// ReplaceTo 空操作
func (NopNavigator) ReplaceTo(string) {}
