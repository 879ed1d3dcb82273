/*
 * @module service/duplicate_detection/impact_analyzer_test
 * @description 复杂重复分析与清理影响估算测试
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构造同名记录 -> 复杂重复分析 -> 清洁/歧义分类验证
 * @rules 判别字段取值不一致的组必须标记为人工复核
 * @dependencies testing, github.com/stretchr/testify
 * @refs impact_analyzer.go
 */

package duplicate_detection

import (
	"testing"

	"dataquality-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyzeComplexDuplicates 测试清洁组与歧义组的分类
func TestAnalyzeComplexDuplicates(t *testing.T) {
	dds := newService()

	records := []map[string]interface{}{
		// 同名同负责人：可自动合并
		{"id": "p1", "name": "Alpha Launch", "ownerId": "u1"},
		{"id": "p2", "name": "alpha  launch!!", "ownerId": "u1"},
		// 同名不同负责人：歧义，需人工复核
		{"id": "p3", "name": "Beta Campaign", "ownerId": "u1"},
		{"id": "p4", "name": "beta campaign", "ownerId": "u2"},
		// 无重名
		{"id": "p5", "name": "Gamma Series", "ownerId": "u3"},
	}

	analysis, err := dds.AnalyzeComplexDuplicates(records,
		models.ComplexDuplicateConfig{EntityType: "projects"})
	require.NoError(t, err)

	require.Len(t, analysis.CleanDuplicates, 1)
	clean := analysis.CleanDuplicates[0]
	assert.Equal(t, []string{"p1", "p2"}, clean.EntityIDs)
	assert.Equal(t, models.ResolutionAutoMerge, clean.ResolutionStrategy)

	require.Len(t, analysis.AmbiguousCases, 1)
	ambiguous := analysis.AmbiguousCases[0]
	assert.Equal(t, []string{"p3", "p4"}, ambiguous.EntityIDs)
	assert.Equal(t, models.ResolutionManualReview, ambiguous.ResolutionStrategy)
	assert.Equal(t, "ownerId", ambiguous.ConflictField)
	assert.ElementsMatch(t, []string{"u1", "u2"}, ambiguous.ConflictValues)
}

// TestAnalyzeComplexDuplicatesEmpty 测试空输入与缺失身份字段
func TestAnalyzeComplexDuplicatesEmpty(t *testing.T) {
	dds := newService()

	analysis, err := dds.AnalyzeComplexDuplicates(nil,
		models.ComplexDuplicateConfig{EntityType: "projects"})
	require.NoError(t, err)
	assert.Empty(t, analysis.CleanDuplicates)
	assert.Empty(t, analysis.AmbiguousCases)

	// 缺少身份字段的记录被跳过
	analysis, err = dds.AnalyzeComplexDuplicates(
		[]map[string]interface{}{{"id": "p1"}, {"id": "p2"}},
		models.ComplexDuplicateConfig{EntityType: "projects"})
	require.NoError(t, err)
	assert.Empty(t, analysis.CleanDuplicates)
	assert.Empty(t, analysis.AmbiguousCases)
}

// TestCalculateResolutionImpact 测试清理影响估算
func TestCalculateResolutionImpact(t *testing.T) {
	dds := newService()

	records := []map[string]interface{}{
		{"id": "u1", "username": "john_doe", "email": "john@example.com",
			"createdAt": "2025-01-01", "updatedAt": "2025-01-10"},
		{"id": "u2", "username": "john_doe", "email": "john.doe@example.com",
			"createdAt": "2025-02-01", "updatedAt": "2025-02-10"},
	}
	groups := []models.DuplicateGroup{{EntityIDs: []string{"u1", "u2"}}}

	impact, err := dds.CalculateResolutionImpact(groups, "users", records)
	require.NoError(t, err)

	assert.Greater(t, impact.StorageReclaimedBytes, int64(0))
	assert.Equal(t, 2, impact.AffectedUsers)
	assert.Equal(t, 2, impact.EstimatedCleanupMinutes)
	assert.Greater(t, impact.ConsistencyImprovement, 0.0)
	assert.Equal(t, "low", impact.RiskAssessment.DataLoss)
}

// TestCalculateResolutionImpactRisk 测试不可裁决字段占比的风险分级
func TestCalculateResolutionImpactRisk(t *testing.T) {
	dds := newService()

	// 无任何时间字段，全部冲突字段不可裁决
	records := []map[string]interface{}{
		{"id": "u1", "username": "a", "email": "a@x.com", "location": "Seoul"},
		{"id": "u2", "username": "b", "email": "b@x.com", "location": "Busan"},
	}
	groups := []models.DuplicateGroup{{EntityIDs: []string{"u1", "u2"}}}

	impact, err := dds.CalculateResolutionImpact(groups, "users", records)
	require.NoError(t, err)
	assert.Equal(t, "high", impact.RiskAssessment.DataLoss)
}

// TestCalculateResolutionImpactErrors 测试影响估算的输入校验
func TestCalculateResolutionImpactErrors(t *testing.T) {
	dds := newService()

	impact, err := dds.CalculateResolutionImpact(nil, "users", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), impact.StorageReclaimedBytes)
	assert.Equal(t, "low", impact.RiskAssessment.DataLoss)

	groups := []models.DuplicateGroup{{EntityIDs: []string{"u1", "missing"}}}
	_, err = dds.CalculateResolutionImpact(groups, "users",
		[]map[string]interface{}{{"id": "u1"}})
	assert.Error(t, err)
}
