/*
 * @module service/data_quality/quality_engine
 * @description 数据质量引擎：对数据集执行完整性/有效性/准确性/一致性四维评分并汇总违规与建议
 * @architecture 分层架构 - 编排层，维度检查委托给各维度检查器与完整性检查器
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 选项校验 -> 各维度评分 -> 加权汇总 -> 违规聚合 -> 建议生成 -> 报告输出
 * @rules 同一数据集两次评估必须产生相同评分与违规列表；每个扣分点必须有对应违规记录
 * @dependencies github.com/google/uuid, github.com/spf13/cast
 * @refs dimension_checkers.go, trend_analyzer.go, recommendation_engine.go
 */

package data_quality

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"dataquality-service/service/integrity"
	"dataquality-service/service/meta"
	"dataquality-service/service/models"
	"dataquality-service/service/normalization"

	"github.com/google/uuid"
)

// QualityEngine 数据质量引擎
type QualityEngine struct {
	normalizer    *normalization.NormalizationService
	integrity     *integrity.IntegrityChecker
	recommender   *RecommendationEngine
	trendAnalyzer *TrendAnalyzer
}

// NewQualityEngine 创建数据质量引擎实例
func NewQualityEngine(normalizer *normalization.NormalizationService,
	checker *integrity.IntegrityChecker) *QualityEngine {
	return &QualityEngine{
		normalizer:    normalizer,
		integrity:     checker,
		recommender:   NewRecommendationEngine(),
		trendAnalyzer: NewTrendAnalyzer(),
	}
}

// AssessQuality 执行数据质量评估
func (qe *QualityEngine) AssessQuality(dataset models.Dataset,
	opts models.AssessOptions) (*models.QualityReport, error) {

	startTime := time.Now()

	if opts.Now.IsZero() {
		return nil, fmt.Errorf("评估选项缺少显式评估时间戳 now")
	}
	weights, err := resolveWeights(opts.Weights)
	if err != nil {
		return nil, err
	}

	report := &models.QualityReport{
		CheckID:         uuid.NewString(),
		CheckTime:       opts.Now,
		Dimensions:      make(map[string]float64),
		Violations:      make([]models.Violation, 0),
		Recommendations: make([]string, 0),
		Statistics:      make(map[string]interface{}),
	}

	entityTypes := sortedEntityTypes(dataset)

	completenessScore, completenessViolations := qe.checkCompleteness(dataset, entityTypes)
	validityScore, validityViolations := qe.checkValidity(dataset, entityTypes)

	accuracyScore, accuracyViolations, err := qe.checkAccuracy(dataset, entityTypes, opts.Rules)
	if err != nil {
		return nil, err
	}

	consistencyScore, consistencyViolations, err := qe.checkConsistency(dataset, opts.Relationships)
	if err != nil {
		return nil, err
	}

	report.Dimensions[models.DimensionCompleteness] = completenessScore
	report.Dimensions[models.DimensionValidity] = validityScore
	report.Dimensions[models.DimensionAccuracy] = accuracyScore
	report.Dimensions[models.DimensionConsistency] = consistencyScore

	report.Violations = append(report.Violations, completenessViolations...)
	report.Violations = append(report.Violations, validityViolations...)
	report.Violations = append(report.Violations, accuracyViolations...)
	report.Violations = append(report.Violations, consistencyViolations...)

	// 加权总分
	var totalScore, totalWeight float64
	for dimension, score := range report.Dimensions {
		weight := weights[dimension]
		totalScore += score * weight
		totalWeight += weight
	}
	if totalWeight > 0 {
		report.OverallScore = totalScore / totalWeight
	}

	report.Recommendations = qe.recommender.FromViolations(report.OverallScore, report.Violations)

	totalRecords := 0
	for _, entityType := range entityTypes {
		totalRecords += len(dataset[entityType])
	}
	report.Statistics["total_records"] = totalRecords
	report.Statistics["total_entity_types"] = len(entityTypes)
	report.Statistics["total_violations"] = len(report.Violations)
	report.Duration = time.Since(startTime)

	slog.Debug("质量评估完成",
		"check_id", report.CheckID,
		"overall_score", report.OverallScore,
		"violations", len(report.Violations))
	return report, nil
}

// AnalyzeTrend 分析历史质量评分趋势
func (qe *QualityEngine) AnalyzeTrend(history []models.HistoricalMetric,
	config models.TrendConfig) (*models.QualityTrend, error) {
	return qe.trendAnalyzer.Analyze(history, config)
}

// GenerateRecommendations 根据质量问题条目生成带优先级与预期影响的建议
func (qe *QualityEngine) GenerateRecommendations(issues []models.QualityIssue) []models.Recommendation {
	return qe.recommender.FromIssues(issues)
}

// resolveWeights 解析维度权重：默认等权，自定义权重必须非负且总和为正
func resolveWeights(custom map[string]float64) (map[string]float64, error) {
	if custom == nil {
		return meta.DefaultDimensionWeights, nil
	}

	known := map[string]bool{
		models.DimensionCompleteness: true,
		models.DimensionValidity:     true,
		models.DimensionAccuracy:     true,
		models.DimensionConsistency:  true,
	}

	weights := make(map[string]float64, len(meta.DefaultDimensionWeights))
	for dimension := range meta.DefaultDimensionWeights {
		weights[dimension] = 0
	}

	var total float64
	for dimension, weight := range custom {
		if !known[dimension] {
			return nil, fmt.Errorf("未知的质量维度 weights[%s]", dimension)
		}
		if weight < 0 {
			return nil, fmt.Errorf("维度 %s 的权重不能为负数: %f", dimension, weight)
		}
		weights[dimension] = weight
		total += weight
	}
	if total == 0 {
		return nil, fmt.Errorf("维度权重总和必须大于 0")
	}

	return weights, nil
}

// sortedEntityTypes 实体类型按字典序排列，保证评估确定性
func sortedEntityTypes(dataset models.Dataset) []string {
	entityTypes := make([]string, 0, len(dataset))
	for entityType := range dataset {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Strings(entityTypes)
	return entityTypes
}
