/*
 * @module service/integrity/integrity_checker_test
 * @description 完整性检查器测试：引用完整性、业务规则与脚本规则
 * @architecture 测试层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 构造数据集 -> 完整性检查 -> 违规验证
 * @rules 悬空引用与规则违反只产生违规记录，不中断检查
 * @dependencies testing, github.com/stretchr/testify
 * @refs integrity_checker.go, default_rules.go, script_rules.go
 */

package integrity

import (
	"testing"

	"dataquality-service/service/models"
	"dataquality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckReferentialIntegrity 测试引用完整性检查
func TestCheckReferentialIntegrity(t *testing.T) {
	ic := NewIntegrityChecker()

	dataset := testutil.NewDataset()
	dataset["projects"] = append(dataset["projects"],
		testutil.NewProject("p3", "Orphan Project", "u404"))

	violations, err := ic.CheckReferentialIntegrity(dataset, testutil.DefaultRelationships())
	require.NoError(t, err)
	require.Len(t, violations, 1)

	violation := violations[0]
	assert.Equal(t, "projects", violation.EntityType)
	assert.Equal(t, "p3", violation.EntityID)
	assert.Equal(t, "ownerId", violation.Field)
	assert.Equal(t, "users", violation.ReferencedEntity)
	assert.Equal(t, "u404", violation.ReferencedID)
	assert.Equal(t, models.ViolationMissingReference, violation.ViolationType)
	assert.Equal(t, models.SeverityError, violation.Severity)
}

// TestCheckReferentialIntegrityEdgeCases 测试引用检查的边界行为
func TestCheckReferentialIntegrityEdgeCases(t *testing.T) {
	ic := NewIntegrityChecker()
	dataset := testutil.NewDataset()

	// 无关系定义时没有可检查项
	violations, err := ic.CheckReferentialIntegrity(dataset, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)

	// 引用字段为空的记录被跳过
	record := testutil.NewProject("p9", "Draft", "")
	dataset["projects"] = append(dataset["projects"], record)
	violations, err = ic.CheckReferentialIntegrity(dataset, testutil.DefaultRelationships())
	require.NoError(t, err)
	assert.Empty(t, violations)

	// 不完整的关系定义是配置错误
	_, err = ic.CheckReferentialIntegrity(dataset,
		[]models.Relationship{{FromEntityType: "projects"}})
	assert.Error(t, err)
}

// TestCheckBusinessRules 测试内置业务规则评估
func TestCheckBusinessRules(t *testing.T) {
	ic := NewIntegrityChecker()

	records := []map[string]interface{}{
		{"id": "p1", "status": "completed", "completedAt": "2025-03-01"},
		{"id": "p2", "status": "completed"},
		{"id": "p3", "status": "active", "budgetAllocated": 1000.0, "budgetSpent": 2000.0},
	}

	violations, err := ic.CheckBusinessRules("projects", records, DefaultProjectRules())
	require.NoError(t, err)
	require.Len(t, violations, 2)

	assert.Equal(t, "p2", violations[0].EntityID)
	assert.Equal(t, models.ViolationBusinessRule, violations[0].ViolationType)
	assert.Contains(t, violations[0].Description, "completed_projects_must_have_completion_date")
	assert.Equal(t, models.SeverityError, violations[0].Severity)

	assert.Equal(t, "p3", violations[1].EntityID)
	assert.Contains(t, violations[1].Description, "budget_spent_cannot_exceed_allocated")
}

// TestCheckBusinessRulesValidation 测试规则定义的快速失败
func TestCheckBusinessRulesValidation(t *testing.T) {
	ic := NewIntegrityChecker()
	records := []map[string]interface{}{{"id": "p1"}}

	_, err := ic.CheckBusinessRules("projects", records,
		[]models.BusinessRule{{Field: "x", Predicate: func(map[string]interface{}) bool { return true }}})
	assert.Error(t, err)

	_, err = ic.CheckBusinessRules("projects", records,
		[]models.BusinessRule{{Name: "no_predicate"}})
	assert.Error(t, err)
}

// TestDefaultRulesFor 测试内置规则集查找
func TestDefaultRulesFor(t *testing.T) {
	assert.Len(t, DefaultRulesFor("projects"), 3)
	assert.Len(t, DefaultRulesFor("videos"), 1)
	assert.Empty(t, DefaultRulesFor("users"))
}

// TestCompileScriptRule 测试脚本规则编译与执行
func TestCompileScriptRule(t *testing.T) {
	ic := NewIntegrityChecker()

	script := `
func Validate(record map[string]interface{}) bool {
	value, ok := record["priority"].(string)
	if !ok {
		return false
	}
	return value != ""
}
`
	rule, err := ic.CompileScriptRule("priority_required", "priority",
		models.SeverityWarning, "记录必须有非空优先级", script)
	require.NoError(t, err)

	records := []map[string]interface{}{
		{"id": "a", "priority": "high"},
		{"id": "b"},
	}
	violations, err := ic.CheckBusinessRules("tasks", records, []models.BusinessRule{rule})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "b", violations[0].EntityID)
	assert.Equal(t, models.SeverityWarning, violations[0].Severity)
}

// TestCompileScriptRuleErrors 测试脚本编译错误
func TestCompileScriptRuleErrors(t *testing.T) {
	ic := NewIntegrityChecker()

	_, err := ic.CompileScriptRule("broken", "", "", "", "this is not go code {{{")
	assert.Error(t, err)

	// 签名不匹配的 Validate 函数被拒绝
	_, err = ic.CompileScriptRule("bad_signature", "", "", "",
		"func Validate() bool { return true }")
	assert.Error(t, err)
}
