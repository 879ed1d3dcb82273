/*
 * @module service/data_quality/recommendation_engine
 * @description 改进建议生成器：按评分区间与违规规则分布生成文本建议，按问题条目生成带优先级的建议
 * @architecture 分层架构 - 建议生成层，输入输出均为值对象
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 违规按规则聚合 -> 评分区间基线建议 -> 规则模板建议 -> 排序输出
 * @rules 建议列表顺序确定；同一违规集合两次生成结果一致
 * @refs quality_engine.go
 */

package data_quality

import (
	"fmt"
	"sort"

	"dataquality-service/service/models"
)

// RecommendationEngine 改进建议生成器
type RecommendationEngine struct{}

// NewRecommendationEngine 创建建议生成器实例
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{}
}

// ruleAdvice 规则名 -> 建议模板
var ruleAdvice = map[string]string{
	"required_field_missing":         "补齐必填字段缺失的记录，条数: %d",
	"email_format":                   "修正邮箱格式不合法的记录，条数: %d",
	"date_format":                    "统一日期字段为 ISO-8601 格式，受影响条数: %d",
	"url_format":                     "修正 URL 字段为 http/https 绝对地址，条数: %d",
	"non_negative":                   "排查数值字段出现负数或非数值的记录，条数: %d",
	models.ViolationMissingReference: "清理指向不存在记录的悬空引用，条数: %d",
	models.ViolationBusinessRule:     "复核违反业务规则的记录，条数: %d",
}

// FromViolations 根据总分与违规列表生成文本建议
func (re *RecommendationEngine) FromViolations(overallScore float64,
	violations []models.Violation) []string {

	recommendations := make([]string, 0)

	switch {
	case overallScore < 0.6:
		recommendations = append(recommendations, "整体数据质量较差，建议开展专项治理")
	case overallScore < 0.8:
		recommendations = append(recommendations, "数据质量有待提升，建议优先处理高频违规")
	case len(violations) > 0:
		recommendations = append(recommendations, "数据质量良好，建议持续跟踪剩余违规")
	}

	counts := make(map[string]int)
	for _, violation := range violations {
		counts[violation.Rule]++
	}

	rules := make([]string, 0, len(counts))
	for rule := range counts {
		rules = append(rules, rule)
	}
	sort.Strings(rules)

	for _, rule := range rules {
		template, known := ruleAdvice[rule]
		if !known {
			template = "处理规则 " + rule + " 的违规记录，条数: %d"
		}
		recommendations = append(recommendations, fmt.Sprintf(template, counts[rule]))
	}

	return recommendations
}

// FromIssues 根据质量问题条目生成带优先级与预期影响的建议
// 输出按严重程度降序、受影响记录数降序排列
func (re *RecommendationEngine) FromIssues(issues []models.QualityIssue) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(issues))
	for _, issue := range issues {
		recommendations = append(recommendations, models.Recommendation{
			Priority: issue.Severity,
			Action: fmt.Sprintf("治理 %s 维度的 %s 问题，受影响记录 %d 条",
				issue.Dimension, issue.Pattern, issue.AffectedRecords),
			EstimatedImpact: models.EstimatedImpact{
				QualityImprovement:   improvementFor(issue.Severity),
				ImplementationEffort: effortFor(issue.AffectedRecords),
			},
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, rj := severityRank(recommendations[i].Priority), severityRank(recommendations[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return recommendations[i].EstimatedImpact.ImplementationEffort <
			recommendations[j].EstimatedImpact.ImplementationEffort
	})
	return recommendations
}

// improvementFor 按严重程度估算质量改进幅度
func improvementFor(severity string) float64 {
	switch severity {
	case models.SeverityError:
		return 0.15
	case models.SeverityWarning:
		return 0.08
	default:
		return 0.03
	}
}

// effortFor 按受影响记录量估算实施成本
func effortFor(affectedRecords int) string {
	switch {
	case affectedRecords < 50:
		return "low"
	case affectedRecords < 500:
		return "medium"
	default:
		return "high"
	}
}

// severityRank 严重程度排序权重
func severityRank(severity string) int {
	switch severity {
	case models.SeverityError:
		return 3
	case models.SeverityWarning:
		return 2
	case models.SeverityInfo:
		return 1
	default:
		return 0
	}
}
