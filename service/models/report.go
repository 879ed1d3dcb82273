/*
 * @module service/models/report
 * @description 报表输出结构：仪表盘、阈值告警、管理层摘要，供宿主系统直接序列化传输
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow QualityReport -> ReportGenerator 投影 -> 宿主消费
 * @rules 报表结构只依赖 QualityReport 的输出形态，不依赖引擎本身
 * @refs service/report
 */

package models

import "time"

// DimensionGauge 单维度仪表
type DimensionGauge struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Grade     string  `json:"grade"` // excellent, good, fair, poor
}

// QualityDashboard 质量仪表盘
type QualityDashboard struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	OverallScore         float64          `json:"overall_score"`
	OverallGrade         string           `json:"overall_grade"`
	Gauges               []DimensionGauge `json:"gauges"`
	ViolationsBySeverity map[string]int   `json:"violations_by_severity"`
	ViolationsByEntity   map[string]int   `json:"violations_by_entity"`
	TrendDirection       string           `json:"trend_direction,omitempty"`
	TrendVolatility      float64          `json:"trend_volatility,omitempty"`
}

// AlertThresholds 报表告警阈值
type AlertThresholds struct {
	OverallFloor    float64            `json:"overall_floor"`
	DimensionFloors map[string]float64 `json:"dimension_floors"`
	MaxErrorCount   int                `json:"max_error_count"`
}

// QualityAlert 阈值告警
type QualityAlert struct {
	RuleName  string    `json:"rule_name"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// ExecutiveSummary 管理层摘要
type ExecutiveSummary struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Headline        string            `json:"headline"`
	OverallScore    float64           `json:"overall_score"`
	OverallGrade    string            `json:"overall_grade"`
	TopFindings     []string          `json:"top_findings"`
	Recommendations []string          `json:"recommendations"`
	CleanupImpact   *ResolutionImpact `json:"cleanup_impact,omitempty"`
}
