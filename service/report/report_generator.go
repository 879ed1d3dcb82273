/*
 * @module service/report/report_generator
 * @description 报表生成器：把质量报告投影为仪表盘、阈值告警与管理层摘要
 * @architecture 分层架构 - 展示层，只读消费 QualityReport，不回写引擎
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow QualityReport + 可选趋势 -> 评分分级 -> 违规聚合 -> 报表结构输出
 * @rules 同一报告两次投影结果一致；分级边界为左闭右开
 * @refs service/data_quality, service/models
 */

package report

import (
	"fmt"
	"sort"

	"dataquality-service/service/models"
)

// 评分等级
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

// ReportGenerator 报表生成器
type ReportGenerator struct{}

// NewReportGenerator 创建报表生成器实例
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateDashboard 生成质量仪表盘
// trend 可为 nil，此时仪表盘不含趋势信息
func (rg *ReportGenerator) GenerateDashboard(report *models.QualityReport,
	trend *models.QualityTrend) (*models.QualityDashboard, error) {

	if report == nil {
		return nil, fmt.Errorf("仪表盘生成缺少质量报告")
	}

	dashboard := &models.QualityDashboard{
		GeneratedAt:          report.CheckTime,
		OverallScore:         report.OverallScore,
		OverallGrade:         GradeFor(report.OverallScore),
		Gauges:               make([]models.DimensionGauge, 0, len(report.Dimensions)),
		ViolationsBySeverity: make(map[string]int),
		ViolationsByEntity:   make(map[string]int),
	}

	dimensions := make([]string, 0, len(report.Dimensions))
	for dimension := range report.Dimensions {
		dimensions = append(dimensions, dimension)
	}
	sort.Strings(dimensions)
	for _, dimension := range dimensions {
		score := report.Dimensions[dimension]
		dashboard.Gauges = append(dashboard.Gauges, models.DimensionGauge{
			Dimension: dimension,
			Score:     score,
			Grade:     GradeFor(score),
		})
	}

	for _, violation := range report.Violations {
		dashboard.ViolationsBySeverity[violation.Severity]++
		dashboard.ViolationsByEntity[violation.EntityType]++
	}

	if trend != nil {
		dashboard.TrendDirection = trend.Direction
		dashboard.TrendVolatility = trend.Volatility
	}

	return dashboard, nil
}

// GenerateAlerts 按阈值评估质量报告，生成告警列表
func (rg *ReportGenerator) GenerateAlerts(report *models.QualityReport,
	thresholds models.AlertThresholds) ([]models.QualityAlert, error) {

	if report == nil {
		return nil, fmt.Errorf("告警评估缺少质量报告")
	}
	if thresholds.OverallFloor < 0 || thresholds.OverallFloor > 1 {
		return nil, fmt.Errorf("总分下限 overall_floor 必须在 [0, 1] 区间: %f", thresholds.OverallFloor)
	}

	alerts := make([]models.QualityAlert, 0)

	if report.OverallScore < thresholds.OverallFloor {
		alerts = append(alerts, models.QualityAlert{
			RuleName: "overall_score_below_floor",
			Severity: models.SeverityError,
			Message: fmt.Sprintf("整体质量评分 %.4f 低于阈值 %.4f",
				report.OverallScore, thresholds.OverallFloor),
			Value:     report.OverallScore,
			Threshold: thresholds.OverallFloor,
			Timestamp: report.CheckTime,
		})
	}

	dimensions := make([]string, 0, len(thresholds.DimensionFloors))
	for dimension := range thresholds.DimensionFloors {
		dimensions = append(dimensions, dimension)
	}
	sort.Strings(dimensions)
	for _, dimension := range dimensions {
		floor := thresholds.DimensionFloors[dimension]
		if floor < 0 || floor > 1 {
			return nil, fmt.Errorf("维度 %s 的下限必须在 [0, 1] 区间: %f", dimension, floor)
		}
		score, exists := report.Dimensions[dimension]
		if !exists || score >= floor {
			continue
		}
		alerts = append(alerts, models.QualityAlert{
			RuleName:  "dimension_score_below_floor",
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("维度 %s 评分 %.4f 低于阈值 %.4f", dimension, score, floor),
			Value:     score,
			Threshold: floor,
			Timestamp: report.CheckTime,
		})
	}

	if thresholds.MaxErrorCount > 0 {
		errorCount := 0
		for _, violation := range report.Violations {
			if violation.Severity == models.SeverityError {
				errorCount++
			}
		}
		if errorCount > thresholds.MaxErrorCount {
			alerts = append(alerts, models.QualityAlert{
				RuleName: "error_violations_exceed_limit",
				Severity: models.SeverityError,
				Message: fmt.Sprintf("error 级违规 %d 条超过上限 %d",
					errorCount, thresholds.MaxErrorCount),
				Value:     float64(errorCount),
				Threshold: float64(thresholds.MaxErrorCount),
				Timestamp: report.CheckTime,
			})
		}
	}

	return alerts, nil
}

// GenerateExecutiveSummary 生成管理层摘要
// impact 可为 nil，表示本期未执行重复清理影响估算
func (rg *ReportGenerator) GenerateExecutiveSummary(report *models.QualityReport,
	impact *models.ResolutionImpact) (*models.ExecutiveSummary, error) {

	if report == nil {
		return nil, fmt.Errorf("摘要生成缺少质量报告")
	}

	grade := GradeFor(report.OverallScore)
	summary := &models.ExecutiveSummary{
		GeneratedAt:  report.CheckTime,
		Headline:     fmt.Sprintf("数据质量评级 %s，总分 %.2f", grade, report.OverallScore),
		OverallScore: report.OverallScore,
		OverallGrade: grade,
		TopFindings:  topFindings(report),
		Recommendations: append(make([]string, 0, len(report.Recommendations)),
			report.Recommendations...),
		CleanupImpact: impact,
	}

	return summary, nil
}

// GradeFor 评分分级：>=0.9 excellent, >=0.75 good, >=0.6 fair, 其余 poor
func GradeFor(score float64) string {
	switch {
	case score >= 0.9:
		return GradeExcellent
	case score >= 0.75:
		return GradeGood
	case score >= 0.6:
		return GradeFair
	default:
		return GradePoor
	}
}

// topFindings 提炼报告要点：最弱维度与高频违规规则
func topFindings(report *models.QualityReport) []string {
	findings := make([]string, 0)

	if len(report.Dimensions) > 0 {
		worstDimension := ""
		worstScore := 2.0
		dimensions := make([]string, 0, len(report.Dimensions))
		for dimension := range report.Dimensions {
			dimensions = append(dimensions, dimension)
		}
		sort.Strings(dimensions)
		for _, dimension := range dimensions {
			if report.Dimensions[dimension] < worstScore {
				worstScore = report.Dimensions[dimension]
				worstDimension = dimension
			}
		}
		findings = append(findings,
			fmt.Sprintf("最薄弱维度为 %s，评分 %.4f", worstDimension, worstScore))
	}

	if len(report.Violations) > 0 {
		counts := make(map[string]int)
		for _, violation := range report.Violations {
			counts[violation.Rule]++
		}
		topRule := ""
		topCount := 0
		rules := make([]string, 0, len(counts))
		for rule := range counts {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		for _, rule := range rules {
			if counts[rule] > topCount {
				topCount = counts[rule]
				topRule = rule
			}
		}
		findings = append(findings,
			fmt.Sprintf("最高频违规规则为 %s，共 %d 条", topRule, topCount))
	} else {
		findings = append(findings, "本期未发现任何质量违规")
	}

	return findings
}
