/*
 * @module service/normalization/location_normalizer
 * @description 地理位置规范化：把自由文本的"城市, 国家"映射为规范形式
 * @architecture 查表模式 - 基于 meta 包内置的规范位置表
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 原始文本 -> 小写折叠空白 -> 查表 -> 规范形式或排除
 * @rules 查不到的位置从批量结果中排除，不做猜测
 * @refs service/meta/lookup_tables.go
 */

package normalization

import (
	"strings"

	"dataquality-service/service/meta"
)

// NormalizeLocation 规范化单个位置文本
func (ns *NormalizationService) NormalizeLocation(location string) (string, bool) {
	key := strings.ToLower(collapseWhitespace(strings.TrimSpace(location)))
	if key == "" {
		return "", false
	}

	// 折叠逗号前后的空白差异，如 "Seoul ,Korea"
	key = strings.ReplaceAll(key, " ,", ",")
	key = strings.ReplaceAll(key, ",", ", ")
	key = collapseWhitespace(key)

	if canonical, exists := meta.CanonicalLocations[key]; exists {
		return canonical, true
	}
	return "", false
}

// NormalizeLocations 批量规范化位置，无法解析的条目被排除
func (ns *NormalizationService) NormalizeLocations(locations []string) []string {
	result := make([]string, 0, len(locations))
	for _, location := range locations {
		if normalized, ok := ns.NormalizeLocation(location); ok {
			result = append(result, normalized)
		}
	}
	return result
}
