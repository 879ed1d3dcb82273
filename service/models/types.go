/*
 * @module service/models/types
 * @description 数据质量引擎核心数据模型，定义数据集、违规、质量报告、重复组等结构
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 调用方输入数据集 -> 引擎计算 -> 返回可序列化结果结构
 * @rules 所有结构均可JSON序列化，引擎不持有调用之外的状态
 * @refs service/data_quality, service/duplicate_detection, service/integrity
 */

package models

import "time"

// Dataset 数据集：实体类型 -> 有序记录列表
// 记录顺序由调用方决定，仅用于合并时的先后裁决
type Dataset map[string][]map[string]interface{}

// 质量维度名称
const (
	DimensionCompleteness = "completeness"
	DimensionValidity     = "validity"
	DimensionAccuracy     = "accuracy"
	DimensionConsistency  = "consistency"
)

// 违规严重程度
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Violation 质量违规记录
type Violation struct {
	Dimension   string `json:"dimension"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	Field       string `json:"field"`
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// QualityReport 质量评估报告，每次 AssessQuality 调用生成一份
type QualityReport struct {
	CheckID         string                 `json:"check_id"`
	CheckTime       time.Time              `json:"check_time"`
	OverallScore    float64                `json:"overall_score"`
	Dimensions      map[string]float64     `json:"dimensions"`
	Violations      []Violation            `json:"violations"`
	Recommendations []string               `json:"recommendations"`
	Statistics      map[string]interface{} `json:"statistics"`
	Duration        time.Duration          `json:"duration"`
}

// DuplicateGroup 重复记录组
type DuplicateGroup struct {
	GroupID         string             `json:"group_id"`
	EntityIDs       []string           `json:"duplicate_group"`
	Confidence      float64            `json:"confidence"`
	MatchedFields   []string           `json:"matched_fields,omitempty"`
	SimilarityScore float64            `json:"similarity_score,omitempty"`
	Similarity      map[string]float64 `json:"similarity,omitempty"`
}

// MergeSuggestion 合并建议，不修改任何原始记录
type MergeSuggestion struct {
	PrimaryRecord    string                 `json:"primary_record"`
	MergeStrategy    string                 `json:"merge_strategy"`
	FieldResolutions map[string]interface{} `json:"field_resolutions"`
	FieldConfidences map[string]float64     `json:"field_confidences"`
	ConflictFields   []string               `json:"conflict_fields,omitempty"`
	Confidence       float64                `json:"confidence"`
}

// 复杂重复分析的处理策略
const (
	ResolutionAutoMerge    = "auto_merge"
	ResolutionManualReview = "manual_review"
)

// ComplexDuplicateCase 复杂重复分析结果中的一个组
type ComplexDuplicateCase struct {
	IdentityKey        string   `json:"identity_key"`
	EntityIDs          []string `json:"entity_ids"`
	ResolutionStrategy string   `json:"resolution_strategy"`
	ConflictField      string   `json:"conflict_field,omitempty"`
	ConflictValues     []string `json:"conflict_values,omitempty"`
}

// ComplexDuplicateAnalysis 复杂重复分析结果
type ComplexDuplicateAnalysis struct {
	CleanDuplicates []ComplexDuplicateCase `json:"clean_duplicates"`
	AmbiguousCases  []ComplexDuplicateCase `json:"ambiguous_cases"`
}

// RiskAssessment 清理风险评估
type RiskAssessment struct {
	DataLoss string `json:"data_loss"` // low, medium, high
}

// ResolutionImpact 重复解决影响估算
type ResolutionImpact struct {
	StorageReclaimedBytes   int64          `json:"storage_reclaimed_bytes"`
	ConsistencyImprovement  float64        `json:"consistency_improvement"`
	AffectedUsers           int            `json:"affected_users"`
	EstimatedCleanupMinutes int            `json:"estimated_cleanup_minutes"`
	RiskAssessment          RiskAssessment `json:"risk_assessment"`
}

// 完整性违规类型
const (
	ViolationMissingReference = "missing_reference"
	ViolationBusinessRule     = "business_rule"
)

// IntegrityViolation 完整性违规
type IntegrityViolation struct {
	EntityType       string `json:"entity_type"`
	EntityID         string `json:"entity_id"`
	ReferencedEntity string `json:"referenced_entity,omitempty"`
	ReferencedID     string `json:"referenced_id,omitempty"`
	Field            string `json:"field"`
	ViolationType    string `json:"violation_type"`
	Severity         string `json:"severity"`
	Description      string `json:"description"`
}

// Relationship 引用完整性关系定义
type Relationship struct {
	FromEntityType string `json:"from_entity_type"`
	Field          string `json:"field"`
	ToEntityType   string `json:"to_entity_type"`
}

// BusinessRule 业务规则：对单条记录的纯谓词
type BusinessRule struct {
	Name        string                            `json:"name"`
	Field       string                            `json:"field"`
	Severity    string                            `json:"severity"`
	Description string                            `json:"description"`
	Predicate   func(map[string]interface{}) bool `json:"-"`
}

// Observation 同一实体某字段的时间序列观测
type Observation struct {
	EntityID  string                 `json:"entity_id"`
	Timestamp time.Time              `json:"timestamp"`
	Values    map[string]interface{} `json:"values"`
}

// 时间序列异常类型
const (
	AnomalyUnexpectedDecrease = "unexpected_decrease"
	AnomalyUnexpectedIncrease = "unexpected_increase"
)

// ExpectedRange 期望取值区间
type ExpectedRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Anomaly 时间序列异常
type Anomaly struct {
	EntityID      string        `json:"entity_id"`
	Field         string        `json:"field"`
	AnomalyType   string        `json:"anomaly_type"`
	ExpectedRange ExpectedRange `json:"expected_range"`
	ActualValue   float64       `json:"actual_value"`
	Timestamp     time.Time     `json:"timestamp"`
}

// TemporalConfig 时间序列检查配置
type TemporalConfig struct {
	Field             string  `json:"field"`
	DecreaseTolerance float64 `json:"decrease_tolerance"` // 允许低于历史最小值的绝对量
	GrowthTolerance   float64 `json:"growth_tolerance"`   // 相对上一观测允许的增长比例
}

// HistoricalMetric 历史质量指标点，由调用方按时间顺序提供
type HistoricalMetric struct {
	Timestamp    time.Time `json:"timestamp"`
	OverallScore float64   `json:"overall_score"`
	RecordCount  int       `json:"record_count"`
}

// 趋势方向
const (
	TrendImproving = "improving"
	TrendDegrading = "degrading"
	TrendMixed     = "mixed"
	TrendStable    = "stable"
)

// TrendAlert 趋势告警
type TrendAlert struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// QualityTrend 质量趋势分析结果
type QualityTrend struct {
	Direction  string             `json:"direction"`
	Volatility float64            `json:"volatility"`
	Prediction map[string]float64 `json:"prediction"`
	Alerts     []TrendAlert       `json:"alerts"`
}

// QualityIssue 质量问题条目，用于生成改进建议
type QualityIssue struct {
	Dimension       string `json:"dimension"`
	AffectedRecords int    `json:"affected_records"`
	Severity        string `json:"severity"`
	Pattern         string `json:"pattern"`
}

// EstimatedImpact 建议的预期影响
type EstimatedImpact struct {
	QualityImprovement   float64 `json:"quality_improvement"`
	ImplementationEffort string  `json:"implementation_effort"` // low, medium, high
}

// Recommendation 改进建议
type Recommendation struct {
	Priority        string          `json:"priority"`
	Action          string          `json:"action"`
	EstimatedImpact EstimatedImpact `json:"estimated_impact"`
}

// MoneyValue 规范化后的金额
type MoneyValue struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}
