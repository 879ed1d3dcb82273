/*
 * @module service/report/report_generator_test
 * @description 报表生成器测试：仪表盘、阈值告警与管理层摘要
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构造质量报告 -> 报表投影 -> 输出结构验证
 * @rules 同一报告两次投影结果一致
 * @dependencies testing, github.com/stretchr/testify
 * @refs report_generator.go
 */

package report

import (
	"testing"
	"time"

	"dataquality-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.QualityReport {
	return &models.QualityReport{
		CheckID:      "check-001",
		CheckTime:    time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
		OverallScore: 0.82,
		Dimensions: map[string]float64{
			models.DimensionCompleteness: 0.95,
			models.DimensionValidity:     0.88,
			models.DimensionAccuracy:     0.76,
			models.DimensionConsistency:  0.70,
		},
		Violations: []models.Violation{
			{Dimension: models.DimensionConsistency, EntityType: "projects",
				EntityID: "p3", Rule: "missing_reference", Severity: models.SeverityError},
			{Dimension: models.DimensionValidity, EntityType: "users",
				EntityID: "u4", Rule: "email_format", Severity: models.SeverityWarning},
			{Dimension: models.DimensionValidity, EntityType: "users",
				EntityID: "u5", Rule: "email_format", Severity: models.SeverityWarning},
		},
		Recommendations: []string{"数据质量有待提升，建议优先处理高频违规"},
		Statistics:      map[string]interface{}{"total_records": 100},
	}
}

// TestGradeFor 测试评分分级边界
func TestGradeFor(t *testing.T) {
	assert.Equal(t, GradeExcellent, GradeFor(0.95))
	assert.Equal(t, GradeExcellent, GradeFor(0.9))
	assert.Equal(t, GradeGood, GradeFor(0.82))
	assert.Equal(t, GradeGood, GradeFor(0.75))
	assert.Equal(t, GradeFair, GradeFor(0.6))
	assert.Equal(t, GradePoor, GradeFor(0.59))
	assert.Equal(t, GradePoor, GradeFor(0))
}

// TestGenerateDashboard 测试仪表盘投影
func TestGenerateDashboard(t *testing.T) {
	rg := NewReportGenerator()

	trend := &models.QualityTrend{Direction: models.TrendMixed, Volatility: 0.045}
	dashboard, err := rg.GenerateDashboard(sampleReport(), trend)
	require.NoError(t, err)

	assert.Equal(t, 0.82, dashboard.OverallScore)
	assert.Equal(t, GradeGood, dashboard.OverallGrade)
	assert.Equal(t, models.TrendMixed, dashboard.TrendDirection)

	// 仪表按维度名称字典序排列
	require.Len(t, dashboard.Gauges, 4)
	assert.Equal(t, models.DimensionAccuracy, dashboard.Gauges[0].Dimension)
	assert.Equal(t, models.DimensionCompleteness, dashboard.Gauges[1].Dimension)
	assert.Equal(t, GradeExcellent, dashboard.Gauges[1].Grade)
	assert.Equal(t, models.DimensionConsistency, dashboard.Gauges[2].Dimension)
	assert.Equal(t, GradeFair, dashboard.Gauges[2].Grade)

	assert.Equal(t, map[string]int{"error": 1, "warning": 2}, dashboard.ViolationsBySeverity)
	assert.Equal(t, map[string]int{"projects": 1, "users": 2}, dashboard.ViolationsByEntity)

	_, err = rg.GenerateDashboard(nil, nil)
	assert.Error(t, err)
}

// TestGenerateAlerts 测试阈值告警评估
func TestGenerateAlerts(t *testing.T) {
	rg := NewReportGenerator()

	alerts, err := rg.GenerateAlerts(sampleReport(), models.AlertThresholds{
		OverallFloor: 0.9,
		DimensionFloors: map[string]float64{
			models.DimensionConsistency:  0.75,
			models.DimensionCompleteness: 0.5,
		},
		MaxErrorCount: 0,
	})
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "overall_score_below_floor", alerts[0].RuleName)
	assert.Equal(t, models.SeverityError, alerts[0].Severity)
	assert.Equal(t, 0.82, alerts[0].Value)

	assert.Equal(t, "dimension_score_below_floor", alerts[1].RuleName)
	assert.Equal(t, 0.70, alerts[1].Value)
	assert.Equal(t, 0.75, alerts[1].Threshold)
}

// TestGenerateAlertsErrorCount 测试 error 违规数量告警
func TestGenerateAlertsErrorCount(t *testing.T) {
	rg := NewReportGenerator()

	report := sampleReport()
	report.OverallScore = 0.95

	alerts, err := rg.GenerateAlerts(report, models.AlertThresholds{MaxErrorCount: 1})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	report.Violations = append(report.Violations, models.Violation{
		Dimension: models.DimensionAccuracy, EntityID: "p9",
		Rule: "business_rule", Severity: models.SeverityError,
	})
	alerts, err = rg.GenerateAlerts(report, models.AlertThresholds{MaxErrorCount: 1})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "error_violations_exceed_limit", alerts[0].RuleName)
	assert.Equal(t, 2.0, alerts[0].Value)
}

// TestGenerateAlertsValidation 测试阈值配置校验
func TestGenerateAlertsValidation(t *testing.T) {
	rg := NewReportGenerator()

	_, err := rg.GenerateAlerts(nil, models.AlertThresholds{})
	assert.Error(t, err)

	_, err = rg.GenerateAlerts(sampleReport(), models.AlertThresholds{OverallFloor: 1.5})
	assert.Error(t, err)

	_, err = rg.GenerateAlerts(sampleReport(), models.AlertThresholds{
		DimensionFloors: map[string]float64{models.DimensionValidity: -0.2},
	})
	assert.Error(t, err)
}

// TestGenerateExecutiveSummary 测试管理层摘要
func TestGenerateExecutiveSummary(t *testing.T) {
	rg := NewReportGenerator()

	impact := &models.ResolutionImpact{StorageReclaimedBytes: 2048,
		RiskAssessment: models.RiskAssessment{DataLoss: "low"}}
	summary, err := rg.GenerateExecutiveSummary(sampleReport(), impact)
	require.NoError(t, err)

	assert.Equal(t, GradeGood, summary.OverallGrade)
	assert.Contains(t, summary.Headline, "good")
	assert.Equal(t, impact, summary.CleanupImpact)
	require.Len(t, summary.TopFindings, 2)
	// 最薄弱维度为一致性，最高频规则为 email_format
	assert.Contains(t, summary.TopFindings[0], models.DimensionConsistency)
	assert.Contains(t, summary.TopFindings[1], "email_format")
	assert.Equal(t, sampleReport().Recommendations, summary.Recommendations)

	_, err = rg.GenerateExecutiveSummary(nil, nil)
	assert.Error(t, err)
}
