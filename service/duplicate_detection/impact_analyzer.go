/*
 * @module service/duplicate_detection/impact_analyzer
 * @description 复杂重复分析与清理影响估算：区分可自动合并的组与需人工复核的歧义组
 * @architecture 策略模式 - 按身份键分组后用判别字段分类；影响估算基于序列化体积与冲突字段
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 身份键分组 -> 判别字段比对 -> 清洁/歧义分类 -> 影响与风险估算
 * @rules 歧义组只报告不自动合并，处理策略固定为 manual_review
 * @refs duplicate_detection_service.go, merge_suggester.go
 */

package duplicate_detection

import (
	"encoding/json"
	"fmt"
	"strings"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// 每条待清理记录的预估处理耗时（分钟）
const cleanupMinutesPerRecord = 2

// AnalyzeComplexDuplicates 复杂重复分析
// 按身份键（默认 name）分组；判别字段取值不一致的组标记为歧义，需人工复核
func (dds *DuplicateDetectionService) AnalyzeComplexDuplicates(records []map[string]interface{},
	config models.ComplexDuplicateConfig) (*models.ComplexDuplicateAnalysis, error) {

	identityField := config.IdentityField
	if identityField == "" {
		identityField = "name"
	}

	schema := meta.SchemaFor(config.EntityType)
	distinguishingField := config.DistinguishingField
	if distinguishingField == "" {
		distinguishingField = schema.DistinguishingField
	}

	analysis := &models.ComplexDuplicateAnalysis{
		CleanDuplicates: make([]models.ComplexDuplicateCase, 0),
		AmbiguousCases:  make([]models.ComplexDuplicateCase, 0),
	}
	if len(records) == 0 {
		return analysis, nil
	}

	keyOrder := make([]string, 0)
	groups := make(map[string][]map[string]interface{})

	for _, record := range records {
		value, exists := record[identityField]
		if !exists || value == nil {
			continue
		}
		key := dds.identityKey(identityField, cast.ToString(value))
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], record)
	}

	for _, key := range keyOrder {
		members := groups[key]
		if len(members) < 2 {
			continue
		}

		ids := make([]string, 0, len(members))
		distinctValues := make([]string, 0)
		seenValues := make(map[string]bool)

		for _, member := range members {
			ids = append(ids, cast.ToString(member["id"]))
			if distinguishingField == "" {
				continue
			}
			value := strings.TrimSpace(cast.ToString(member[distinguishingField]))
			if value == "" || seenValues[value] {
				continue
			}
			seenValues[value] = true
			distinctValues = append(distinctValues, value)
		}

		if len(distinctValues) > 1 {
			analysis.AmbiguousCases = append(analysis.AmbiguousCases, models.ComplexDuplicateCase{
				IdentityKey:        key,
				EntityIDs:          ids,
				ResolutionStrategy: models.ResolutionManualReview,
				ConflictField:      distinguishingField,
				ConflictValues:     distinctValues,
			})
			continue
		}

		analysis.CleanDuplicates = append(analysis.CleanDuplicates, models.ComplexDuplicateCase{
			IdentityKey:        key,
			EntityIDs:          ids,
			ResolutionStrategy: models.ResolutionAutoMerge,
		})
	}

	return analysis, nil
}

// CalculateResolutionImpact 估算解决一批重复组的清理影响
func (dds *DuplicateDetectionService) CalculateResolutionImpact(groups []models.DuplicateGroup,
	entityType string, fullRecords []map[string]interface{}) (*models.ResolutionImpact, error) {

	impact := &models.ResolutionImpact{
		RiskAssessment: models.RiskAssessment{DataLoss: "low"},
	}
	if len(groups) == 0 {
		return impact, nil
	}

	byID := make(map[string]map[string]interface{}, len(fullRecords))
	for _, record := range fullRecords {
		byID[cast.ToString(record["id"])] = record
	}

	schema := meta.SchemaFor(entityType)
	listFields := make(map[string]bool, len(schema.ListFields))
	for _, field := range schema.ListFields {
		listFields[field] = true
	}

	var totalConflictFields, totalFields, removedRecords int
	var unresolvableFields int
	affected := make(map[string]bool)

	for _, group := range groups {
		members := make([]map[string]interface{}, 0, len(group.EntityIDs))
		for _, id := range group.EntityIDs {
			record, exists := byID[id]
			if !exists {
				return nil, fmt.Errorf("重复组引用的记录不存在: %s", id)
			}
			members = append(members, record)
			affected[id] = true
		}

		// 主记录之外的成员视为待移除，按序列化体积估算回收空间
		for _, member := range members[1:] {
			if data, err := json.Marshal(member); err == nil {
				impact.StorageReclaimedBytes += int64(len(data))
			}
			removedRecords++
		}

		for _, field := range allFieldNames(members) {
			if listFields[field] || isListValued(members, field) {
				totalFields++
				continue
			}
			totalFields++
			_, confidence, conflicted := dds.resolveScalarField(members, field, schema)
			if conflicted {
				totalConflictFields++
				if confidence <= confidenceUnresolvable {
					unresolvableFields++
				}
			}
		}
	}

	impact.AffectedUsers = len(affected)
	impact.EstimatedCleanupMinutes = removedRecords * cleanupMinutesPerRecord
	if totalFields > 0 {
		impact.ConsistencyImprovement = float64(totalConflictFields) / float64(totalFields)
	}

	// 数据丢失风险按不可裁决字段占比分级
	if totalFields > 0 {
		unresolvableRatio := float64(unresolvableFields) / float64(totalFields)
		switch {
		case unresolvableRatio >= 0.3:
			impact.RiskAssessment.DataLoss = "high"
		case unresolvableRatio >= 0.1:
			impact.RiskAssessment.DataLoss = "medium"
		}
	}

	return impact, nil
}

// identityKey 规范化身份键，名称字段走名称规范化
func (dds *DuplicateDetectionService) identityKey(field, value string) string {
	if field == "name" || field == "title" {
		if normalized, ok := dds.normalizer.NormalizeName(value); ok {
			return strings.ToLower(normalized)
		}
		return ""
	}
	return strings.ToLower(strings.TrimSpace(value))
}
