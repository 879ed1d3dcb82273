/*
 * @module service/duplicate_detection/merge_suggester_test
 * @description 合并建议器测试：主记录选择、字段裁决与信息不丢失保证
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构造重复组 -> 生成合并建议 -> 字段级解决方案验证
 * @rules 组内出现过的每个字段都必须出现在解决结果中
 * @dependencies testing, github.com/stretchr/testify
 * @refs merge_suggester.go
 */

package duplicate_detection

import (
	"testing"

	"dataquality-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuggestMerge 测试合并建议的字段裁决
func TestSuggestMerge(t *testing.T) {
	dds := newService()

	records := []map[string]interface{}{
		{
			"id":        "u1",
			"username":  "john_doe",
			"email":     "john@example.com",
			"createdAt": "2025-01-01",
			"updatedAt": "2025-01-10",
			"skills":    []interface{}{"editing"},
		},
		{
			"id":        "u2",
			"username":  "john_doe",
			"email":     "john.doe@example.com",
			"createdAt": "2025-02-01",
			"updatedAt": "2025-02-10",
			"skills":    []interface{}{"editing", "planning"},
		},
	}
	group := models.DuplicateGroup{EntityIDs: []string{"u1", "u2"}}

	suggestion, err := dds.SuggestMerge(group, "users", records)
	require.NoError(t, err)

	// 主记录取创建时间最早的成员
	assert.Equal(t, "u1", suggestion.PrimaryRecord)
	assert.Equal(t, "latest_wins", suggestion.MergeStrategy)

	// 值一致的字段直接采用，置信度 1.0
	assert.Equal(t, "john_doe", suggestion.FieldResolutions["username"])
	assert.Equal(t, 1.0, suggestion.FieldConfidences["username"])

	// 值冲突的字段取最近更新成员的值，置信度 0.8
	assert.Equal(t, "john.doe@example.com", suggestion.FieldResolutions["email"])
	assert.Equal(t, 0.8, suggestion.FieldConfidences["email"])
	assert.Contains(t, suggestion.ConflictFields, "email")

	// 列表字段取并集，保留首次出现顺序
	assert.Equal(t, []interface{}{"editing", "planning"}, suggestion.FieldResolutions["skills"])
	assert.Equal(t, 1.0, suggestion.FieldConfidences["skills"])

	// 出现过的字段全部有解决方案
	for _, field := range []string{"id", "username", "email", "createdAt", "updatedAt", "skills"} {
		assert.Contains(t, suggestion.FieldResolutions, field)
	}
	assert.Greater(t, suggestion.Confidence, 0.0)
	assert.LessOrEqual(t, suggestion.Confidence, 1.0)
}

// TestSuggestMergeUnresolvable 测试无时间依据时的保守裁决
func TestSuggestMergeUnresolvable(t *testing.T) {
	dds := newService()

	records := []map[string]interface{}{
		{"id": "u1", "email": "a@example.com"},
		{"id": "u2", "email": "b@example.com"},
	}
	group := models.DuplicateGroup{EntityIDs: []string{"u1", "u2"}}

	suggestion, err := dds.SuggestMerge(group, "users", records)
	require.NoError(t, err)

	// 无更新时间可依据，保留首个值并降低置信度
	assert.Equal(t, "a@example.com", suggestion.FieldResolutions["email"])
	assert.Equal(t, 0.5, suggestion.FieldConfidences["email"])
	assert.Contains(t, suggestion.ConflictFields, "email")
}

// TestSuggestMergeErrors 测试合并建议的输入校验
func TestSuggestMergeErrors(t *testing.T) {
	dds := newService()

	_, err := dds.SuggestMerge(models.DuplicateGroup{EntityIDs: []string{"u1"}}, "users", nil)
	assert.Error(t, err)

	group := models.DuplicateGroup{EntityIDs: []string{"u1", "missing"}}
	_, err = dds.SuggestMerge(group, "users",
		[]map[string]interface{}{{"id": "u1"}})
	assert.Error(t, err)
}
