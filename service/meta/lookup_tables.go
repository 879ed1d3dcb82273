/*
 * @module service/meta/lookup_tables
 * @description 规范化查找表：地理位置、货币符号、标签与电话国家码
 * @architecture 分层架构 - 元数据层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 规范化服务按小写键查表 -> 命中返回规范形式 -> 未命中按各自策略丢弃或透传
 * @rules 查找表为只读包级数据，新增条目不得改变既有键的规范形式
 * @refs service/normalization
 */

package meta

// CanonicalLocations 地理位置规范表，键为小写去空格后的自由文本
var CanonicalLocations = map[string]string{
	"seoul, korea":            "Seoul, South Korea",
	"seoul, south korea":      "Seoul, South Korea",
	"seoul, kr":               "Seoul, South Korea",
	"seoul":                   "Seoul, South Korea",
	"busan, korea":            "Busan, South Korea",
	"busan, south korea":      "Busan, South Korea",
	"new york, usa":           "New York, United States",
	"new york, us":            "New York, United States",
	"new york, united states": "New York, United States",
	"nyc":                     "New York, United States",
	"san francisco, usa":      "San Francisco, United States",
	"san francisco, ca":       "San Francisco, United States",
	"sf":                      "San Francisco, United States",
	"tokyo, japan":            "Tokyo, Japan",
	"tokyo, jp":               "Tokyo, Japan",
	"london, uk":              "London, United Kingdom",
	"london, united kingdom":  "London, United Kingdom",
	"beijing, china":          "Beijing, China",
	"beijing, cn":             "Beijing, China",
}

// CurrencySymbols 货币符号 -> ISO 代码
var CurrencySymbols = map[string]string{
	"$": "USD",
	"₩": "KRW",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// KnownCurrencyCodes 可识别的 ISO 货币代码
var KnownCurrencyCodes = map[string]bool{
	"USD": true,
	"KRW": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"CNY": true,
}

// DefaultCurrency 无法判断货币时使用的默认代码
const DefaultCurrency = "KRW"

// DefaultAllowedTags 默认标签白名单
var DefaultAllowedTags = map[string]bool{
	"video":     true,
	"planning":  true,
	"feedback":  true,
	"editing":   true,
	"shooting":  true,
	"review":    true,
	"urgent":    true,
	"archive":   true,
	"marketing": true,
	"drama":     true,
}

// DefaultMaxTags 单条记录标签数量上限
const DefaultMaxTags = 10

// PhoneCountryGroups 可识别的电话国家码及其分段模式（各段位数）
var PhoneCountryGroups = map[string][]int{
	"82": {2, 4, 4}, // 韩国手机号：+82-10-1234-5678
	"1":  {3, 3, 4}, // 北美：+1-212-555-0100
	"86": {3, 4, 4}, // 中国大陆手机号：+86-138-1234-5678
}
