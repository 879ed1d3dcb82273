/*
 * @module service/integrity/default_rules
 * @description 内置业务规则集：项目完成日期、预算超支、日期先后、视频时长等通用校验
 * @architecture 规则库 - 纯谓词集合，可与调用方规则自由组合
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 引擎加载默认规则 -> 与调用方规则合并 -> 逐条记录评估
 * @rules 谓词必须纯函数且无副作用；记录缺少相关字段时规则视为通过
 * @refs integrity_checker.go
 */

package integrity

import (
	"time"

	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// DefaultProjectRules 项目实体的内置业务规则
func DefaultProjectRules() []models.BusinessRule {
	return []models.BusinessRule{
		{
			Name:        "completed_projects_must_have_completion_date",
			Field:       "completedAt",
			Severity:    models.SeverityError,
			Description: "状态为 completed 的项目必须有完成日期",
			Predicate: func(record map[string]interface{}) bool {
				if cast.ToString(record["status"]) != "completed" {
					return true
				}
				value, exists := record["completedAt"]
				return exists && value != nil && cast.ToString(value) != ""
			},
		},
		{
			Name:        "budget_spent_cannot_exceed_allocated",
			Field:       "budgetSpent",
			Severity:    models.SeverityError,
			Description: "已用预算不得超过分配预算",
			Predicate: func(record map[string]interface{}) bool {
				allocated, hasAllocated := record["budgetAllocated"]
				spent, hasSpent := record["budgetSpent"]
				if !hasAllocated || !hasSpent {
					return true
				}
				return cast.ToFloat64(spent) <= cast.ToFloat64(allocated)
			},
		},
		{
			Name:        "end_date_not_before_start_date",
			Field:       "endDate",
			Severity:    models.SeverityWarning,
			Description: "结束日期不得早于开始日期",
			Predicate: func(record map[string]interface{}) bool {
				start, okStart := parseRuleTime(record["startDate"])
				end, okEnd := parseRuleTime(record["endDate"])
				if !okStart || !okEnd {
					return true
				}
				return !end.Before(start)
			},
		},
	}
}

// DefaultVideoRules 视频实体的内置业务规则
func DefaultVideoRules() []models.BusinessRule {
	return []models.BusinessRule{
		{
			Name:        "video_duration_must_be_positive",
			Field:       "duration",
			Severity:    models.SeverityWarning,
			Description: "视频时长必须为正数",
			Predicate: func(record map[string]interface{}) bool {
				value, exists := record["duration"]
				if !exists || value == nil {
					return true
				}
				return cast.ToFloat64(value) > 0
			},
		},
	}
}

// DefaultRulesFor 返回实体类型对应的内置规则集，无内置规则时返回空集
func DefaultRulesFor(entityType string) []models.BusinessRule {
	switch entityType {
	case "projects":
		return DefaultProjectRules()
	case "videos":
		return DefaultVideoRules()
	default:
		return []models.BusinessRule{}
	}
}

// parseRuleTime 规则内部的宽松时间解析
func parseRuleTime(value interface{}) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	str := cast.ToString(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
