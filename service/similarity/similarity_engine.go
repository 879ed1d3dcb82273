/*
 * @module service/similarity/similarity_engine
 * @description 相似度引擎：字符串相似度与多字段加权记录相似度计算
 * @architecture 策略模式 - 按算法名称分发，未知算法快速失败
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 算法校验 -> 逐字段相似度计算 -> 权重归一化 -> 返回 [0,1] 分数
 * @rules 纯函数无状态无IO；相似度必须满足对称性 sim(a,b) == sim(b,a)
 * @refs service/duplicate_detection
 */

package similarity

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// 支持的相似度算法
const (
	AlgorithmLevenshtein  = "levenshtein"
	AlgorithmTokenOverlap = "token_overlap"

	// DefaultAlgorithm 默认算法：归一化编辑距离
	DefaultAlgorithm = AlgorithmLevenshtein
)

// Engine 相似度引擎
type Engine struct{}

// NewEngine 创建相似度引擎
func NewEngine() *Engine {
	return &Engine{}
}

// ValidateAlgorithm 校验算法名称，未知算法返回指明参数的错误
func (e *Engine) ValidateAlgorithm(algorithm string) error {
	switch algorithm {
	case AlgorithmLevenshtein, AlgorithmTokenOverlap:
		return nil
	default:
		return fmt.Errorf("未知的相似度算法 algorithm: %q", algorithm)
	}
}

// StringSimilarity 计算两个字符串的相似度，返回 [0,1]
func (e *Engine) StringSimilarity(a, b, algorithm string) (float64, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	if err := e.ValidateAlgorithm(algorithm); err != nil {
		return 0, err
	}

	switch algorithm {
	case AlgorithmTokenOverlap:
		return tokenOverlap(a, b), nil
	default:
		return levenshteinSimilarity(a, b), nil
	}
}

// WeightedRecordSimilarity 计算两条记录在给定字段权重下的加权相似度
// 权重不要求归一，结果按总权重归一化；双方都缺失的字段跳过，单方缺失按 0 计
func (e *Engine) WeightedRecordSimilarity(recordA, recordB map[string]interface{},
	fieldWeights map[string]float64, algorithm string) (float64, error) {

	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	if err := e.ValidateAlgorithm(algorithm); err != nil {
		return 0, err
	}
	if len(fieldWeights) == 0 {
		return 0, fmt.Errorf("字段权重 fieldWeights 不能为空")
	}

	var totalWeight, weightedSum float64

	for field, weight := range fieldWeights {
		if weight < 0 {
			return 0, fmt.Errorf("字段 %s 的权重不能为负数: %f", field, weight)
		}
		if weight == 0 {
			weight = 1.0 // 默认权重
		}

		valueA, existsA := recordA[field]
		valueB, existsB := recordB[field]
		if !existsA && !existsB {
			continue
		}

		totalWeight += weight
		if !existsA || !existsB {
			continue // 单方缺失按 0 相似度计
		}

		similarity, err := e.StringSimilarity(
			normalizeValue(valueA), normalizeValue(valueB), algorithm)
		if err != nil {
			return 0, err
		}
		weightedSum += weight * similarity
	}

	if totalWeight == 0 {
		return 0, nil
	}
	return weightedSum / totalWeight, nil
}

// levenshteinSimilarity 归一化编辑距离相似度：1 - dist/maxLen
func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	distance := levenshteinDistance([]rune(a), []rune(b))
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance 按 rune 计算编辑距离，保证多字节文本的正确度量
func levenshteinDistance(a, b []rune) int {
	lenA, lenB := len(a), len(b)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	previous := make([]int, lenB+1)
	current := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		previous[j] = j
	}

	for i := 1; i <= lenA; i++ {
		current[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			current[j] = minOf(
				previous[j]+1,      // 删除
				current[j-1]+1,     // 插入
				previous[j-1]+cost, // 替换
			)
		}
		previous, current = current, previous
	}

	return previous[lenB]
}

// tokenOverlap 基于空白分词的 Jaccard 相似度
func tokenOverlap(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1.0
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokensA {
		if tokensB[token] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection

	return float64(intersection) / float64(union)
}

// tokenSet 小写分词集合
func tokenSet(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(s)) {
		tokens[token] = true
	}
	return tokens
}

// normalizeValue 统一字段值的比较形式：去空格并小写
func normalizeValue(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(cast.ToString(value)))
}

// minOf 三数取最小
func minOf(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
