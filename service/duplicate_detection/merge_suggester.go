/*
 * @module service/duplicate_detection/merge_suggester
 * @description 合并建议器：为重复组生成字段级解决方案，绝不修改原始记录
 * @architecture 策略模式 - 每个字段按策略独立解决（最新优先、列表并集、人工复核）
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 定位组成员 -> 选主记录（最早创建） -> 逐字段解决 -> 汇总置信度
 * @rules 组内任一成员出现过的字段都必须出现在解决结果中，信息不得静默丢失
 * @refs duplicate_detection_service.go, service/meta/entity_schemas.go
 */

package duplicate_detection

import (
	"fmt"
	"sort"
	"time"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// 字段解决置信度
const (
	confidenceIdentical    = 1.0 // 所有成员值一致
	confidenceLatestWins   = 0.8 // 按最近更新时间裁决
	confidenceUnresolvable = 0.5 // 无时间依据，需人工确认
)

// SuggestMerge 为一个重复组生成合并建议
// 主记录取组内 createdAt 最早的成员，时间缺失时按输入顺序裁决
func (dds *DuplicateDetectionService) SuggestMerge(group models.DuplicateGroup,
	entityType string, fullRecords []map[string]interface{}) (*models.MergeSuggestion, error) {

	if len(group.EntityIDs) < 2 {
		return nil, fmt.Errorf("重复组成员数量不足: %d", len(group.EntityIDs))
	}

	schema := meta.SchemaFor(entityType)
	members := make([]map[string]interface{}, 0, len(group.EntityIDs))
	byID := make(map[string]map[string]interface{}, len(fullRecords))
	for _, record := range fullRecords {
		byID[cast.ToString(record["id"])] = record
	}
	for _, id := range group.EntityIDs {
		record, exists := byID[id]
		if !exists {
			return nil, fmt.Errorf("重复组引用的记录不存在: %s", id)
		}
		members = append(members, record)
	}

	primary := dds.selectPrimary(members, schema)

	listFields := make(map[string]bool, len(schema.ListFields))
	for _, field := range schema.ListFields {
		listFields[field] = true
	}

	resolutions := make(map[string]interface{})
	confidences := make(map[string]float64)
	conflictFields := make([]string, 0)

	for _, field := range allFieldNames(members) {
		if listFields[field] || isListValued(members, field) {
			resolutions[field] = unionListField(members, field)
			confidences[field] = confidenceIdentical
			continue
		}

		value, confidence, conflicted := dds.resolveScalarField(members, field, schema)
		resolutions[field] = value
		confidences[field] = confidence
		if conflicted {
			conflictFields = append(conflictFields, field)
		}
	}

	var confidenceSum float64
	for _, confidence := range confidences {
		confidenceSum += confidence
	}
	overall := 0.0
	if len(confidences) > 0 {
		overall = confidenceSum / float64(len(confidences))
	}

	return &models.MergeSuggestion{
		PrimaryRecord:    cast.ToString(primary["id"]),
		MergeStrategy:    "latest_wins",
		FieldResolutions: resolutions,
		FieldConfidences: confidences,
		ConflictFields:   conflictFields,
		Confidence:       overall,
	}, nil
}

// selectPrimary 选择创建时间最早的成员作为主记录
func (dds *DuplicateDetectionService) selectPrimary(members []map[string]interface{},
	schema meta.EntitySchema) map[string]interface{} {

	primary := members[0]
	primaryTime, primaryOK := dds.recordTime(primary, schema.CreatedAtField)

	for _, member := range members[1:] {
		memberTime, memberOK := dds.recordTime(member, schema.CreatedAtField)
		if !memberOK {
			continue
		}
		if !primaryOK || memberTime.Before(primaryTime) {
			primary = member
			primaryTime = memberTime
			primaryOK = true
		}
	}

	return primary
}

// resolveScalarField 解决标量字段：值一致直接采用，否则按最近更新时间裁决
func (dds *DuplicateDetectionService) resolveScalarField(members []map[string]interface{},
	field string, schema meta.EntitySchema) (interface{}, float64, bool) {

	var firstValue interface{}
	distinct := make(map[string]bool)
	for _, member := range members {
		value, exists := member[field]
		if !exists || value == nil {
			continue
		}
		if firstValue == nil {
			firstValue = value
		}
		distinct[fmt.Sprintf("%v", value)] = true
	}

	if len(distinct) <= 1 {
		return firstValue, confidenceIdentical, false
	}

	// 值不一致，取最近更新的成员的值
	var latestValue interface{}
	var latestTime time.Time
	found := false
	for _, member := range members {
		value, exists := member[field]
		if !exists || value == nil {
			continue
		}
		updatedAt, ok := dds.latestUpdateTime(member, schema)
		if !ok {
			continue
		}
		if !found || updatedAt.After(latestTime) {
			latestValue = value
			latestTime = updatedAt
			found = true
		}
	}

	if found {
		return latestValue, confidenceLatestWins, true
	}
	return firstValue, confidenceUnresolvable, true
}

// latestUpdateTime 取成员的最近更新时间，按模式声明的候选字段顺序查找
func (dds *DuplicateDetectionService) latestUpdateTime(record map[string]interface{},
	schema meta.EntitySchema) (time.Time, bool) {

	var latest time.Time
	found := false
	for _, field := range schema.UpdatedAtFields {
		t, ok := dds.recordTime(record, field)
		if !ok {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// recordTime 解析记录的时间字段
func (dds *DuplicateDetectionService) recordTime(record map[string]interface{},
	field string) (time.Time, bool) {

	value, exists := record[field]
	if !exists || value == nil {
		return time.Time{}, false
	}

	normalized, ok := dds.normalizer.NormalizeDate(value)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02T15:04:05.000Z", normalized)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// allFieldNames 收集全部成员出现过的字段名，排序保证输出确定
func allFieldNames(members []map[string]interface{}) []string {
	seen := make(map[string]bool)
	for _, member := range members {
		for field := range member {
			seen[field] = true
		}
	}

	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// isListValued 判断字段在任一成员中是否为列表值
func isListValued(members []map[string]interface{}, field string) bool {
	for _, member := range members {
		if _, isList := member[field].([]interface{}); isList {
			return true
		}
		if _, isList := member[field].([]string); isList {
			return true
		}
	}
	return false
}

// unionListField 取列表字段的并集，保留首次出现顺序
func unionListField(members []map[string]interface{}, field string) []interface{} {
	seen := make(map[string]bool)
	result := make([]interface{}, 0)

	for _, member := range members {
		for _, item := range cast.ToSlice(member[field]) {
			key := fmt.Sprintf("%v", item)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, item)
		}
	}

	return result
}
