/*
 * @module service/data_quality/dimension_checkers
 * @description 四个质量维度的检查实现：完整性、有效性、准确性、一致性
 * @architecture 分层架构 - 维度检查层，每个维度返回评分与违规列表
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 按实体类型字典序遍历 -> 逐条记录逐项检查 -> 通过数/检查数得出评分
 * @rules 无可检查项时维度评分为 1.0；记录级数据错误只产生违规，不中断评估
 * @refs quality_engine.go, service/meta
 */

package data_quality

import (
	"fmt"
	"net/url"

	"dataquality-service/service/integrity"
	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// checkCompleteness 完整性维度：必填字段缺失检查
func (qe *QualityEngine) checkCompleteness(dataset models.Dataset,
	entityTypes []string) (float64, []models.Violation) {

	violations := make([]models.Violation, 0)
	totalChecks := 0
	passedChecks := 0

	for _, entityType := range entityTypes {
		schema := meta.SchemaFor(entityType)
		for _, record := range dataset[entityType] {
			for _, field := range schema.RequiredFields {
				totalChecks++
				value, exists := record[field]
				if exists && value != nil && cast.ToString(value) != "" {
					passedChecks++
					continue
				}
				violations = append(violations, models.Violation{
					Dimension:   models.DimensionCompleteness,
					EntityType:  entityType,
					EntityID:    cast.ToString(record["id"]),
					Field:       field,
					Rule:        "required_field_missing",
					Severity:    models.SeverityError,
					Description: fmt.Sprintf("必填字段 %s 缺失或为空", field),
				})
			}
		}
	}

	return checkRatio(passedChecks, totalChecks), violations
}

// checkValidity 有效性维度：字段格式检查
// 字段缺失由完整性维度负责，这里只检查已提供的值
func (qe *QualityEngine) checkValidity(dataset models.Dataset,
	entityTypes []string) (float64, []models.Violation) {

	violations := make([]models.Violation, 0)
	totalChecks := 0
	passedChecks := 0

	for _, entityType := range entityTypes {
		schema := meta.SchemaFor(entityType)
		for _, record := range dataset[entityType] {
			for field, format := range schema.FormatRules {
				value, exists := record[field]
				if !exists || value == nil || cast.ToString(value) == "" {
					continue
				}

				totalChecks++
				rule, valid := qe.checkFormat(value, format)
				if valid {
					passedChecks++
					continue
				}
				violations = append(violations, models.Violation{
					Dimension:   models.DimensionValidity,
					EntityType:  entityType,
					EntityID:    cast.ToString(record["id"]),
					Field:       field,
					Rule:        rule,
					Severity:    models.SeverityWarning,
					Description: fmt.Sprintf("字段 %s 的值不符合 %s 格式: %v", field, format, value),
				})
			}
		}
	}

	return checkRatio(passedChecks, totalChecks), violations
}

// checkFormat 按格式规则检查单个值，返回规则名与是否通过
func (qe *QualityEngine) checkFormat(value interface{}, format string) (string, bool) {
	switch format {
	case meta.FormatEmail:
		_, ok := qe.normalizer.NormalizeEmail(cast.ToString(value))
		return "email_format", ok
	case meta.FormatDate:
		_, ok := qe.normalizer.NormalizeDate(value)
		return "date_format", ok
	case meta.FormatURL:
		return "url_format", isValidURL(cast.ToString(value))
	case meta.FormatNonNegative:
		number, err := cast.ToFloat64E(value)
		return "non_negative", err == nil && number >= 0
	default:
		// 未知格式规则视为通过，模式表保证不会出现
		return format, true
	}
}

// checkAccuracy 准确性维度：内置与调用方业务规则评估
func (qe *QualityEngine) checkAccuracy(dataset models.Dataset, entityTypes []string,
	callerRules []models.BusinessRule) (float64, []models.Violation, error) {

	violations := make([]models.Violation, 0)
	totalChecks := 0
	failedChecks := 0

	for _, entityType := range entityTypes {
		records := dataset[entityType]
		rules := append(integrity.DefaultRulesFor(entityType), callerRules...)
		if len(rules) == 0 || len(records) == 0 {
			continue
		}

		integrityViolations, err := qe.integrity.CheckBusinessRules(entityType, records, rules)
		if err != nil {
			return 0, nil, fmt.Errorf("准确性维度评估 %s 失败: %w", entityType, err)
		}

		totalChecks += len(records) * len(rules)
		failedChecks += len(integrityViolations)
		for _, iv := range integrityViolations {
			violations = append(violations, models.Violation{
				Dimension:   models.DimensionAccuracy,
				EntityType:  iv.EntityType,
				EntityID:    iv.EntityID,
				Field:       iv.Field,
				Rule:        iv.ViolationType,
				Severity:    iv.Severity,
				Description: iv.Description,
			})
		}
	}

	return checkRatio(totalChecks-failedChecks, totalChecks), violations, nil
}

// checkConsistency 一致性维度：引用完整性检查
func (qe *QualityEngine) checkConsistency(dataset models.Dataset,
	relationships []models.Relationship) (float64, []models.Violation, error) {

	integrityViolations, err := qe.integrity.CheckReferentialIntegrity(dataset, relationships)
	if err != nil {
		return 0, nil, fmt.Errorf("一致性维度评估失败: %w", err)
	}

	// 检查数 = 实际填写了关系字段的记录引用次数
	totalChecks := 0
	for _, rel := range relationships {
		for _, record := range dataset[rel.FromEntityType] {
			value, exists := record[rel.Field]
			if exists && value != nil && cast.ToString(value) != "" {
				totalChecks++
			}
		}
	}

	violations := make([]models.Violation, 0, len(integrityViolations))
	for _, iv := range integrityViolations {
		violations = append(violations, models.Violation{
			Dimension:  models.DimensionConsistency,
			EntityType: iv.EntityType,
			EntityID:   iv.EntityID,
			Field:      iv.Field,
			Rule:       iv.ViolationType,
			Severity:   iv.Severity,
			Description: fmt.Sprintf("%s（引用目标 %s/%s）",
				iv.Description, iv.ReferencedEntity, iv.ReferencedID),
		})
	}

	return checkRatio(totalChecks-len(integrityViolations), totalChecks), violations, nil
}

// isValidURL 校验 http/https 绝对地址
func isValidURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// checkRatio 通过数/检查数，无检查项时记满分
func checkRatio(passed, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(passed) / float64(total)
}
