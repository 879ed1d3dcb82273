/*
 * @module service/meta/entity_schemas
 * @description 实体模式定义：各实体类型的必填字段、格式规则、列表字段与判别字段
 * @architecture 分层架构 - 元数据层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 引擎按实体类型查找模式 -> 未知类型回退到宽松默认模式
 * @rules 模式为只读包级数据，未知实体类型必须优雅降级而不是报错
 * @refs service/normalization, service/data_quality, service/duplicate_detection
 */

package meta

// 字段格式规则名称
const (
	FormatEmail       = "email"
	FormatDate        = "date"
	FormatURL         = "url"
	FormatNonNegative = "non_negative"
)

// EntitySchema 单个实体类型的模式
type EntitySchema struct {
	RequiredFields      []string          // 完整性检查的必填字段
	FormatRules         map[string]string // 字段 -> 格式规则
	ListFields          []string          // 列表值字段，合并时取并集
	DistinguishingField string            // 复杂重复分析的判别字段
	CreatedAtField      string            // 记录创建时间字段
	UpdatedAtFields     []string          // 最近更新时间候选字段，按优先级排列
}

// EntitySchemas 已知实体类型的模式表
var EntitySchemas = map[string]EntitySchema{
	"users": {
		RequiredFields: []string{"id", "username", "email"},
		FormatRules: map[string]string{
			"email":       FormatEmail,
			"createdAt":   FormatDate,
			"lastLoginAt": FormatDate,
		},
		ListFields:          []string{"skills", "tags"},
		DistinguishingField: "email",
		CreatedAtField:      "createdAt",
		UpdatedAtFields:     []string{"updatedAt", "lastLoginAt"},
	},
	"projects": {
		RequiredFields: []string{"id", "name", "ownerId"},
		FormatRules: map[string]string{
			"startDate":       FormatDate,
			"endDate":         FormatDate,
			"budgetAllocated": FormatNonNegative,
			"budgetSpent":     FormatNonNegative,
		},
		ListFields:          []string{"tags", "members"},
		DistinguishingField: "ownerId",
		CreatedAtField:      "createdAt",
		UpdatedAtFields:     []string{"updatedAt"},
	},
	"videos": {
		RequiredFields: []string{"id", "title", "projectId"},
		FormatRules: map[string]string{
			"url":        FormatURL,
			"uploadedAt": FormatDate,
			"duration":   FormatNonNegative,
		},
		ListFields:          []string{"tags"},
		DistinguishingField: "projectId",
		CreatedAtField:      "createdAt",
		UpdatedAtFields:     []string{"updatedAt"},
	},
}

// DefaultSchema 未知实体类型的宽松回退模式
// 只要求记录有 id，不做格式断言
var DefaultSchema = EntitySchema{
	RequiredFields:      []string{"id"},
	FormatRules:         map[string]string{},
	ListFields:          []string{"tags"},
	DistinguishingField: "",
	CreatedAtField:      "createdAt",
	UpdatedAtFields:     []string{"updatedAt"},
}

// SchemaFor 查找实体类型对应的模式
func SchemaFor(entityType string) EntitySchema {
	if schema, exists := EntitySchemas[entityType]; exists {
		return schema
	}
	return DefaultSchema
}

// DefaultDimensionWeights 质量维度默认权重（未加权均值）
var DefaultDimensionWeights = map[string]float64{
	"completeness": 1.0,
	"validity":     1.0,
	"accuracy":     1.0,
	"consistency":  1.0,
}
