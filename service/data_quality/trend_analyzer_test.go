/*
 * @module service/data_quality/trend_analyzer_test
 * @description 质量趋势分析测试：方向判定、波动度、预测与退化告警
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构造历史评分序列 -> 趋势分析 -> 方向与告警验证
 * @rules 同一序列两次分析结果完全一致
 * @dependencies testing, github.com/stretchr/testify
 * @refs trend_analyzer.go
 */

package data_quality

import (
	"testing"

	"dataquality-service/service/models"
	"dataquality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyzeTrendMixed 测试升降并存的序列判为 mixed 并触发退化告警
func TestAnalyzeTrendMixed(t *testing.T) {
	ta := NewTrendAnalyzer()

	trend, err := ta.Analyze(testutil.NewHistory(0.85, 0.88, 0.82), models.DefaultTrendConfig())
	require.NoError(t, err)

	assert.Equal(t, models.TrendMixed, trend.Direction)
	assert.Greater(t, trend.Volatility, 0.0)

	require.Len(t, trend.Alerts, 1)
	alert := trend.Alerts[0]
	assert.Equal(t, "quality_degradation", alert.Type)
	assert.Equal(t, models.SeverityWarning, alert.Severity)
}

// TestAnalyzeTrendImproving 测试持续上升的序列
func TestAnalyzeTrendImproving(t *testing.T) {
	ta := NewTrendAnalyzer()

	trend, err := ta.Analyze(testutil.NewHistory(0.70, 0.75, 0.80, 0.85), models.DefaultTrendConfig())
	require.NoError(t, err)

	assert.Equal(t, models.TrendImproving, trend.Direction)
	assert.Empty(t, trend.Alerts)
}

// TestAnalyzeTrendDegrading 测试持续下降的序列
func TestAnalyzeTrendDegrading(t *testing.T) {
	ta := NewTrendAnalyzer()

	trend, err := ta.Analyze(testutil.NewHistory(0.90, 0.85, 0.80, 0.75), models.DefaultTrendConfig())
	require.NoError(t, err)

	assert.Equal(t, models.TrendDegrading, trend.Direction)
	require.Len(t, trend.Alerts, 1)
	assert.Equal(t, "quality_degradation", trend.Alerts[0].Type)
}

// TestAnalyzeTrendStable 测试容差内波动的序列
func TestAnalyzeTrendStable(t *testing.T) {
	ta := NewTrendAnalyzer()

	trend, err := ta.Analyze(testutil.NewHistory(0.80, 0.81, 0.80, 0.80), models.DefaultTrendConfig())
	require.NoError(t, err)

	assert.Equal(t, models.TrendStable, trend.Direction)
	assert.Empty(t, trend.Alerts)
}

// TestAnalyzeTrendPrediction 测试线性外推预测裁剪到 [0,1]
func TestAnalyzeTrendPrediction(t *testing.T) {
	ta := NewTrendAnalyzer()

	trend, err := ta.Analyze(testutil.NewHistory(0.70, 0.80, 0.90), models.DefaultTrendConfig())
	require.NoError(t, err)

	predicted, exists := trend.Prediction["next7Days"]
	require.True(t, exists)
	assert.GreaterOrEqual(t, predicted, 0.0)
	assert.LessOrEqual(t, predicted, 1.0)
	// 上升序列外推后命中上限
	assert.Equal(t, 1.0, predicted)
}

// TestAnalyzeTrendDeterministic 测试同一序列两次分析结果一致
func TestAnalyzeTrendDeterministic(t *testing.T) {
	ta := NewTrendAnalyzer()
	history := testutil.NewHistory(0.85, 0.88, 0.82, 0.86)

	first, err := ta.Analyze(history, models.DefaultTrendConfig())
	require.NoError(t, err)
	second, err := ta.Analyze(history, models.DefaultTrendConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestAnalyzeTrendErrors 测试序列与配置的校验
func TestAnalyzeTrendErrors(t *testing.T) {
	ta := NewTrendAnalyzer()

	_, err := ta.Analyze(testutil.NewHistory(0.85), models.DefaultTrendConfig())
	assert.Error(t, err)

	_, err = ta.Analyze(testutil.NewHistory(0.85, 0.88),
		models.TrendConfig{Tolerance: -0.1})
	assert.Error(t, err)

	// 时间戳乱序
	history := testutil.NewHistory(0.85, 0.88)
	history[0], history[1] = history[1], history[0]
	_, err = ta.Analyze(history, models.DefaultTrendConfig())
	assert.Error(t, err)
}
