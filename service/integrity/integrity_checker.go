/*
 * @module service/integrity/integrity_checker
 * @description 完整性检查器：跨实体集合的引用完整性校验与业务规则评估
 * @architecture 分层架构 - 业务服务层，独立于规范化与重复检测
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构建目标ID集合 -> 按实体类型与记录顺序遍历 -> 违规收集
 * @rules 违规按实体类型（字典序）与记录输入顺序确定性输出
 * @refs default_rules.go, script_rules.go, temporal_checker.go
 */

package integrity

import (
	"fmt"
	"sort"
	"strings"

	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// IntegrityChecker 完整性检查器
type IntegrityChecker struct {
	scripts *ScriptRuleExecutor
}

// NewIntegrityChecker 创建完整性检查器
func NewIntegrityChecker() *IntegrityChecker {
	return &IntegrityChecker{
		scripts: NewScriptRuleExecutor(),
	}
}

// CheckReferentialIntegrity 引用完整性检查
// 对每条记录，若关系字段引用的 ID 不在目标实体集合中，产生 missing_reference 违规
func (ic *IntegrityChecker) CheckReferentialIntegrity(dataset models.Dataset,
	relationships []models.Relationship) ([]models.IntegrityViolation, error) {

	for i, rel := range relationships {
		if rel.FromEntityType == "" || rel.Field == "" || rel.ToEntityType == "" {
			return nil, fmt.Errorf("关系定义 relationships[%d] 不完整: %+v", i, rel)
		}
	}

	// 预构建各目标实体的 ID 集合
	idSets := make(map[string]map[string]bool)
	for _, rel := range relationships {
		if _, built := idSets[rel.ToEntityType]; built {
			continue
		}
		set := make(map[string]bool)
		for _, record := range dataset[rel.ToEntityType] {
			if id := cast.ToString(record["id"]); id != "" {
				set[id] = true
			}
		}
		idSets[rel.ToEntityType] = set
	}

	// 按实体类型字典序遍历，保证违规输出顺序确定
	entityTypes := make([]string, 0, len(dataset))
	for entityType := range dataset {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Strings(entityTypes)

	violations := make([]models.IntegrityViolation, 0)
	for _, entityType := range entityTypes {
		for _, record := range dataset[entityType] {
			for _, rel := range relationships {
				if rel.FromEntityType != entityType {
					continue
				}

				value, exists := record[rel.Field]
				if !exists || value == nil {
					continue
				}
				referencedID := strings.TrimSpace(cast.ToString(value))
				if referencedID == "" {
					continue
				}

				if !idSets[rel.ToEntityType][referencedID] {
					violations = append(violations, models.IntegrityViolation{
						EntityType:       entityType,
						EntityID:         cast.ToString(record["id"]),
						ReferencedEntity: rel.ToEntityType,
						ReferencedID:     referencedID,
						Field:            rel.Field,
						ViolationType:    models.ViolationMissingReference,
						Severity:         models.SeverityError,
						Description: fmt.Sprintf("字段 %s 引用的 %s 记录 %s 不存在",
							rel.Field, rel.ToEntityType, referencedID),
					})
				}
			}
		}
	}

	return violations, nil
}

// CheckBusinessRules 业务规则检查
// 每条规则是对单条记录的纯谓词，谓词返回 false 即产生以规则命名的违规
func (ic *IntegrityChecker) CheckBusinessRules(entityType string,
	records []map[string]interface{},
	rules []models.BusinessRule) ([]models.IntegrityViolation, error) {

	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("业务规则 rules[%d] 缺少名称", i)
		}
		if rule.Predicate == nil {
			return nil, fmt.Errorf("业务规则 %s 缺少谓词函数", rule.Name)
		}
	}

	violations := make([]models.IntegrityViolation, 0)
	for _, record := range records {
		for _, rule := range rules {
			if rule.Predicate(record) {
				continue
			}
			description := rule.Description
			if description == "" {
				description = fmt.Sprintf("记录违反业务规则 %s", rule.Name)
			}
			severity := rule.Severity
			if severity == "" {
				severity = models.SeverityError
			}
			violations = append(violations, models.IntegrityViolation{
				EntityType:    entityType,
				EntityID:      cast.ToString(record["id"]),
				Field:         rule.Field,
				ViolationType: models.ViolationBusinessRule,
				Severity:      severity,
				Description:   fmt.Sprintf("%s: %s", rule.Name, description),
			})
		}
	}

	return violations, nil
}

// CompileScriptRule 把 Go 脚本编译为业务规则，脚本需定义
// func Validate(record map[string]interface{}) bool
func (ic *IntegrityChecker) CompileScriptRule(name, field, severity, description,
	script string) (models.BusinessRule, error) {

	predicate, err := ic.scripts.Compile(script)
	if err != nil {
		return models.BusinessRule{}, fmt.Errorf("编译脚本规则 %s 失败: %w", name, err)
	}

	return models.BusinessRule{
		Name:        name,
		Field:       field,
		Severity:    severity,
		Description: description,
		Predicate:   predicate,
	}, nil
}
