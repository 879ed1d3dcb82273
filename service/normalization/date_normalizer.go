/*
 * @module service/normalization/date_normalizer
 * @description 日期规范化：接受多种输入格式，统一输出 UTC ISO-8601 毫秒格式
 * @architecture 管道模式 - 逐个格式尝试解析，全部失败则排除
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 原始值输入 -> 类型判断 -> 按候选格式解析 -> UTC 格式化输出
 * @rules 不可解析的输入从批量结果中排除，不作为致命错误抛出
 * @refs normalization_service.go
 */

package normalization

import (
	"strconv"
	"strings"
	"time"
)

// 统一输出格式：UTC ISO-8601 带毫秒
const canonicalDateLayout = "2006-01-02T15:04:05.000Z"

// 候选解析格式，按常见程度排列
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// NormalizeDate 规范化单个日期值
// 接受 ISO 日期/时间、美式斜杠、英文月份、13 位毫秒时间戳以及 time.Time
func (ns *NormalizationService) NormalizeDate(value interface{}) (string, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(canonicalDateLayout), true
	case int64:
		return formatEpochMillis(v)
	case int:
		return formatEpochMillis(int64(v))
	case float64:
		return formatEpochMillis(int64(v))
	case string:
		return ns.normalizeDateString(v)
	default:
		return "", false
	}
}

// NormalizeDates 批量规范化日期，无法解析的条目被排除
func (ns *NormalizationService) NormalizeDates(values []interface{}) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if normalized, ok := ns.NormalizeDate(value); ok {
			result = append(result, normalized)
		}
	}
	return result
}

// normalizeDateString 解析字符串形式的日期
func (ns *NormalizationService) normalizeDateString(value string) (string, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return "", false
	}

	// 13 位纯数字按毫秒时间戳处理
	if len(cleaned) == 13 {
		if millis, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return formatEpochMillis(millis)
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.UTC().Format(canonicalDateLayout), true
		}
	}

	return "", false
}

// formatEpochMillis 把毫秒时间戳格式化为规范日期
// 位数明显不是毫秒级的时间戳被拒绝
func formatEpochMillis(millis int64) (string, bool) {
	if millis < 1e12 || millis >= 1e14 {
		return "", false
	}
	t := time.UnixMilli(millis).UTC()
	return t.Format(canonicalDateLayout), true
}
