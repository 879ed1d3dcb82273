/*
 * @module service/models/configs
 * @description 引擎各操作的按次调用配置对象，配置错误在调用时快速失败
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 调用方构造配置 -> 引擎校验 -> 执行计算
 * @rules 配置校验失败必须返回指明参数的错误，绝不猜测调用方意图
 * @refs service/duplicate_detection, service/data_quality, service/integrity
 */

package models

import "time"

// FuzzyDetectConfig 模糊重复检测配置
type FuzzyDetectConfig struct {
	Threshold float64 `json:"threshold"`
	Algorithm string  `json:"algorithm"`
	Workers   int     `json:"workers"` // 成对比较的并行度，0 表示使用 CPU 数
}

// SemanticDetectConfig 语义重复检测配置（面向标题/描述/标签类内容记录）
type SemanticDetectConfig struct {
	TitleSimilarityThreshold   float64 `json:"title_similarity_threshold"`
	ContentSimilarityThreshold float64 `json:"content_similarity_threshold"`
	TagOverlapThreshold        float64 `json:"tag_overlap_threshold"`
	Workers                    int     `json:"workers"`
}

// ComplexDuplicateConfig 复杂重复分析配置
// IdentityField 为分组键，DistinguishingField 覆盖实体模式中的默认判别字段
type ComplexDuplicateConfig struct {
	EntityType          string `json:"entity_type"`
	IdentityField       string `json:"identity_field"`
	DistinguishingField string `json:"distinguishing_field"`
}

// AssessOptions 质量评估选项
// Now 为显式评估时间戳，保证引擎纯函数语义；零值时取调用方时钟无从谈起，直接快速失败
type AssessOptions struct {
	Relationships []Relationship     `json:"relationships"`
	Rules         []BusinessRule     `json:"-"`
	Weights       map[string]float64 `json:"weights"`
	Now           time.Time          `json:"now"`
}

// TrendConfig 趋势分析配置
type TrendConfig struct {
	Tolerance         float64 `json:"tolerance"`          // 稳定区间容差
	DegradationMargin float64 `json:"degradation_margin"` // 触发退化告警的差额
	PredictionPoints  int     `json:"prediction_points"`  // 线性外推使用的末尾点数
}

// DefaultTrendConfig 返回趋势分析默认配置
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		Tolerance:         0.02,
		DegradationMargin: 0.02,
		PredictionPoints:  3,
	}
}
