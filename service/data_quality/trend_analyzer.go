/*
 * @module service/data_quality/trend_analyzer
 * @description 质量趋势分析器：方向判定、波动度计算、线性外推预测与退化告警
 * @architecture 分层架构 - 分析层，纯函数式计算，不持有历史状态
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 序列校验 -> 相邻差值分析 -> 前后半段均值比较 -> 外推预测 -> 告警评估
 * @rules 历史序列必须按时间升序；同一序列两次分析结果完全一致
 * @refs quality_engine.go
 */

package data_quality

import (
	"fmt"
	"math"

	"dataquality-service/service/models"
)

// TrendAnalyzer 质量趋势分析器
type TrendAnalyzer struct{}

// NewTrendAnalyzer 创建趋势分析器实例
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

// Analyze 分析历史质量评分序列
// 方向判定：前后半段均值比较，且任一超容差的升与降并存时判为 mixed
func (ta *TrendAnalyzer) Analyze(history []models.HistoricalMetric,
	config models.TrendConfig) (*models.QualityTrend, error) {

	if len(history) < 2 {
		return nil, fmt.Errorf("趋势分析至少需要 2 个历史指标点, 实际: %d", len(history))
	}
	if config.Tolerance < 0 {
		return nil, fmt.Errorf("稳定区间容差 tolerance 不能为负数: %f", config.Tolerance)
	}
	if config.DegradationMargin < 0 {
		return nil, fmt.Errorf("退化告警差额 degradation_margin 不能为负数: %f", config.DegradationMargin)
	}
	predictionPoints := config.PredictionPoints
	if predictionPoints <= 0 {
		predictionPoints = models.DefaultTrendConfig().PredictionPoints
	}

	scores := make([]float64, len(history))
	for i, metric := range history {
		if i > 0 && metric.Timestamp.Before(history[i-1].Timestamp) {
			return nil, fmt.Errorf("历史指标第 %d 个点时间戳乱序", i)
		}
		scores[i] = metric.OverallScore
	}

	trend := &models.QualityTrend{
		Direction:  ta.direction(scores, config.Tolerance),
		Volatility: ta.volatility(scores),
		Prediction: ta.predict(scores, predictionPoints),
		Alerts:     make([]models.TrendAlert, 0),
	}

	// 退化告警：最新评分明显低于此前均值
	latest := scores[len(scores)-1]
	trailingAvg := mean(scores[:len(scores)-1])
	if latest < trailingAvg-config.DegradationMargin {
		trend.Alerts = append(trend.Alerts, models.TrendAlert{
			Type:     "quality_degradation",
			Severity: models.SeverityWarning,
			Message: fmt.Sprintf("最新质量评分 %.4f 低于此前均值 %.4f 超过差额 %.4f",
				latest, trailingAvg, config.DegradationMargin),
			Timestamp: history[len(history)-1].Timestamp,
		})
	}

	return trend, nil
}

// direction 判定趋势方向
func (ta *TrendAnalyzer) direction(scores []float64, tolerance float64) string {
	sawRise := false
	sawFall := false
	for i := 1; i < len(scores); i++ {
		delta := scores[i] - scores[i-1]
		if delta > tolerance {
			sawRise = true
		}
		if delta < -tolerance {
			sawFall = true
		}
	}
	if sawRise && sawFall {
		return models.TrendMixed
	}

	half := len(scores) / 2
	diff := mean(scores[half:]) - mean(scores[:half])
	switch {
	case diff > tolerance:
		return models.TrendImproving
	case diff < -tolerance:
		return models.TrendDegrading
	default:
		return models.TrendStable
	}
}

// volatility 相邻差值的标准差
func (ta *TrendAnalyzer) volatility(scores []float64) float64 {
	deltas := make([]float64, 0, len(scores)-1)
	for i := 1; i < len(scores); i++ {
		deltas = append(deltas, scores[i]-scores[i-1])
	}
	if len(deltas) == 0 {
		return 0
	}

	avg := mean(deltas)
	var sumSquares float64
	for _, delta := range deltas {
		sumSquares += (delta - avg) * (delta - avg)
	}
	return math.Sqrt(sumSquares / float64(len(deltas)))
}

// predict 基于末尾窗口的平均步进做线性外推，结果裁剪到 [0, 1]
func (ta *TrendAnalyzer) predict(scores []float64, points int) map[string]float64 {
	if points > len(scores) {
		points = len(scores)
	}
	window := scores[len(scores)-points:]

	var avgStep float64
	if len(window) > 1 {
		avgStep = (window[len(window)-1] - window[0]) / float64(len(window)-1)
	}

	predicted := scores[len(scores)-1] + avgStep*7
	predicted = math.Max(0, math.Min(1, predicted))
	return map[string]float64{"next7Days": predicted}
}

// mean 算术平均值，空切片返回 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}
