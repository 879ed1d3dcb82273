/*
 * @module service/duplicate_detection/duplicate_detection_service
 * @description 重复检测服务：单实体集合内的精确、模糊与语义重复组识别
 * @architecture 策略模式 - 三种检测策略共享并查集合并；成对扫描按上三角分片并行
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 配置校验 -> 成对相似度扫描（并行） -> 单线程并查集合并 -> 分组输出
 * @rules 空输入返回空列表而非错误；同一次检测中每条记录只归属一个连通分量；分组顺序确定
 * @dependencies golang.org/x/sync/errgroup, github.com/google/uuid
 * @refs merge_suggester.go, impact_analyzer.go
 */

package duplicate_detection

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"dataquality-service/service/models"
	"dataquality-service/service/normalization"
	"dataquality-service/service/similarity"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

// DuplicateDetectionService 重复检测服务
type DuplicateDetectionService struct {
	normalizer *normalization.NormalizationService
	similarity *similarity.Engine
}

// NewDuplicateDetectionService 创建重复检测服务
func NewDuplicateDetectionService(normalizer *normalization.NormalizationService,
	engine *similarity.Engine) *DuplicateDetectionService {
	return &DuplicateDetectionService{
		normalizer: normalizer,
		similarity: engine,
	}
}

// DetectExactDuplicates 精确重复检测
// 按 keyFields 规范化后拼接分组，同键记录数 >= 2 即构成一个置信度 1.0 的重复组
func (dds *DuplicateDetectionService) DetectExactDuplicates(records []map[string]interface{},
	keyFields []string) ([]models.DuplicateGroup, error) {

	if len(keyFields) == 0 {
		return nil, fmt.Errorf("关键字段 keyFields 不能为空")
	}
	if len(records) == 0 {
		return []models.DuplicateGroup{}, nil
	}

	groupIndex := make(map[string]int)
	keyOrder := make([]string, 0)
	members := make(map[string][]string)

	for _, record := range records {
		keyParts := make([]string, 0, len(keyFields))
		allExists := true

		for _, field := range keyFields {
			value, exists := record[field]
			if !exists || value == nil {
				allExists = false
				break
			}
			keyParts = append(keyParts, dds.normalizeKeyValue(field, value))
		}
		if !allExists {
			continue
		}

		key := strings.Join(keyParts, "|")
		if _, seen := groupIndex[key]; !seen {
			groupIndex[key] = len(keyOrder)
			keyOrder = append(keyOrder, key)
		}
		members[key] = append(members[key], cast.ToString(record["id"]))
	}

	groups := make([]models.DuplicateGroup, 0)
	for _, key := range keyOrder {
		ids := members[key]
		if len(ids) < 2 {
			continue
		}
		groups = append(groups, models.DuplicateGroup{
			GroupID:       uuid.NewString(),
			EntityIDs:     ids,
			Confidence:    1.0,
			MatchedFields: keyFields,
		})
	}

	slog.Debug("精确重复检测完成", "records", len(records), "groups", len(groups))
	return groups, nil
}

// DetectFuzzyDuplicates 模糊重复检测
// 对每个无序记录对计算加权相似度，达到阈值的记录对按连通分量合并为组
func (dds *DuplicateDetectionService) DetectFuzzyDuplicates(ctx context.Context,
	records []map[string]interface{}, fields []string,
	config models.FuzzyDetectConfig) ([]models.DuplicateGroup, error) {

	if config.Threshold < 0 || config.Threshold > 1 {
		return nil, fmt.Errorf("相似度阈值 threshold 必须在 [0,1] 区间内: %f", config.Threshold)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("比较字段 fields 不能为空")
	}
	algorithm := config.Algorithm
	if algorithm == "" {
		algorithm = similarity.DefaultAlgorithm
	}
	if err := dds.similarity.ValidateAlgorithm(algorithm); err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []models.DuplicateGroup{}, nil
	}

	weights := make(map[string]float64, len(fields))
	for _, field := range fields {
		weights[field] = 1.0
	}

	// 并行扫描上三角相似度矩阵
	matrix, err := dds.pairwiseScan(ctx, len(records), config.Workers,
		func(i, j int) (float64, error) {
			return dds.similarity.WeightedRecordSimilarity(records[i], records[j], weights, algorithm)
		})
	if err != nil {
		return nil, err
	}

	// 单线程合并连通分量，保证分组确定性
	uf := newUnionFind(len(records))
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if matrix[i][j] >= config.Threshold {
				uf.union(i, j)
			}
		}
	}

	groups := make([]models.DuplicateGroup, 0)
	for _, component := range uf.components() {
		if len(component) < 2 {
			continue
		}

		minSim, avgSim := pairwiseStats(component, matrix)
		ids := make([]string, 0, len(component))
		for _, index := range component {
			ids = append(ids, cast.ToString(records[index]["id"]))
		}

		groups = append(groups, models.DuplicateGroup{
			GroupID:         uuid.NewString(),
			EntityIDs:       ids,
			Confidence:      minSim,
			MatchedFields:   fields,
			SimilarityScore: avgSim,
		})
	}

	slog.Debug("模糊重复检测完成",
		"records", len(records), "threshold", config.Threshold, "groups", len(groups))
	return groups, nil
}

// DetectSemanticDuplicates 语义重复检测
// 面向标题/描述/标签类内容记录：标题相似且（内容相似或标签重叠）即判定为重复对
func (dds *DuplicateDetectionService) DetectSemanticDuplicates(ctx context.Context,
	records []map[string]interface{},
	config models.SemanticDetectConfig) ([]models.DuplicateGroup, error) {

	thresholds := map[string]float64{
		"titleSimilarityThreshold":   config.TitleSimilarityThreshold,
		"contentSimilarityThreshold": config.ContentSimilarityThreshold,
		"tagOverlapThreshold":        config.TagOverlapThreshold,
	}
	for name, value := range thresholds {
		if value < 0 || value > 1 {
			return nil, fmt.Errorf("阈值 %s 必须在 [0,1] 区间内: %f", name, value)
		}
	}
	if len(records) < 2 {
		return []models.DuplicateGroup{}, nil
	}

	type pairMetrics struct {
		title      float64
		content    float64
		tagOverlap float64
		matched    bool
	}
	metrics := make([][]pairMetrics, len(records))
	for i := range metrics {
		metrics[i] = make([]pairMetrics, len(records))
	}

	_, err := dds.pairwiseScan(ctx, len(records), config.Workers,
		func(i, j int) (float64, error) {
			titleSim, err := dds.similarity.StringSimilarity(
				cast.ToString(records[i]["title"]), cast.ToString(records[j]["title"]),
				similarity.AlgorithmLevenshtein)
			if err != nil {
				return 0, err
			}
			contentSim, err := dds.similarity.StringSimilarity(
				cast.ToString(records[i]["description"]), cast.ToString(records[j]["description"]),
				similarity.AlgorithmTokenOverlap)
			if err != nil {
				return 0, err
			}
			overlap := tagOverlapRatio(records[i]["tags"], records[j]["tags"])

			matched := titleSim >= config.TitleSimilarityThreshold &&
				(contentSim >= config.ContentSimilarityThreshold || overlap >= config.TagOverlapThreshold)

			metrics[i][j] = pairMetrics{title: titleSim, content: contentSim,
				tagOverlap: overlap, matched: matched}

			// 组合分数用于组置信度：标题与次级指标的均值
			secondary := contentSim
			if overlap > secondary {
				secondary = overlap
			}
			return (titleSim + secondary) / 2, nil
		})
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(len(records))
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if metrics[i][j].matched {
				uf.union(i, j)
			}
		}
	}

	groups := make([]models.DuplicateGroup, 0)
	for _, component := range uf.components() {
		if len(component) < 2 {
			continue
		}

		ids := make([]string, 0, len(component))
		for _, index := range component {
			ids = append(ids, cast.ToString(records[index]["id"]))
		}

		// 组内各子指标的平均值作为相似度明细
		var titleSum, contentSum, overlapSum, confidence float64
		confidence = 1.0
		pairCount := 0
		for a := 0; a < len(component); a++ {
			for b := a + 1; b < len(component); b++ {
				i, j := component[a], component[b]
				m := metrics[i][j]
				titleSum += m.title
				contentSum += m.content
				overlapSum += m.tagOverlap

				secondary := m.content
				if m.tagOverlap > secondary {
					secondary = m.tagOverlap
				}
				combined := (m.title + secondary) / 2
				if combined < confidence {
					confidence = combined
				}
				pairCount++
			}
		}

		groups = append(groups, models.DuplicateGroup{
			GroupID:    uuid.NewString(),
			EntityIDs:  ids,
			Confidence: confidence,
			Similarity: map[string]float64{
				"title":       titleSum / float64(pairCount),
				"content":     contentSum / float64(pairCount),
				"tag_overlap": overlapSum / float64(pairCount),
			},
		})
	}

	slog.Debug("语义重复检测完成", "records", len(records), "groups", len(groups))
	return groups, nil
}

// pairwiseScan 并行扫描上三角记录对
// 按行分片分配给工作协程，结果写入各自独立的矩阵行，无需加锁
func (dds *DuplicateDetectionService) pairwiseScan(ctx context.Context, n, workers int,
	compare func(i, j int) (float64, error)) ([][]float64, error) {

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n-1 {
		workers = n - 1
	}

	group, _ := errgroup.WithContext(ctx)
	rows := make(chan int, n)
	for i := 0; i < n-1; i++ {
		rows <- i
	}
	close(rows)

	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for i := range rows {
				for j := i + 1; j < n; j++ {
					score, err := compare(i, j)
					if err != nil {
						return err
					}
					matrix[i][j] = score
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// normalizeKeyValue 规范化分组键值，邮箱字段走邮箱规范化
func (dds *DuplicateDetectionService) normalizeKeyValue(field string, value interface{}) string {
	str := cast.ToString(value)
	if field == "email" {
		if normalized, ok := dds.normalizer.NormalizeEmail(str); ok {
			return normalized
		}
	}
	return strings.ToLower(strings.TrimSpace(str))
}

// tagOverlapRatio 标签重叠率 = |交集| / |并集|
func tagOverlapRatio(tagsA, tagsB interface{}) float64 {
	setA := toTagSet(tagsA)
	setB := toTagSet(tagsB)

	if len(setA) == 0 && len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tag := range setA {
		if setB[tag] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// toTagSet 把任意形式的标签列表转为小写集合
func toTagSet(tags interface{}) map[string]bool {
	set := make(map[string]bool)
	for _, raw := range cast.ToSlice(tags) {
		tag := strings.ToLower(strings.TrimSpace(cast.ToString(raw)))
		if tag != "" {
			set[tag] = true
		}
	}
	return set
}

// pairwiseStats 计算组内全部记录对的最小与平均相似度
func pairwiseStats(component []int, matrix [][]float64) (minSim, avgSim float64) {
	minSim = 1.0
	var sum float64
	pairCount := 0

	for a := 0; a < len(component); a++ {
		for b := a + 1; b < len(component); b++ {
			i, j := component[a], component[b]
			if j < i {
				i, j = j, i
			}
			score := matrix[i][j]
			if score < minSim {
				minSim = score
			}
			sum += score
			pairCount++
		}
	}

	if pairCount == 0 {
		return 0, 0
	}
	return minSim, sum / float64(pairCount)
}

// unionFind 并查集，用于把达到阈值的记录对合并为连通分量
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	rootA, rootB := uf.find(a), uf.find(b)
	if rootA == rootB {
		return
	}
	// 小索引作为根，保证输出顺序与输入顺序一致
	if rootB < rootA {
		rootA, rootB = rootB, rootA
	}
	uf.parent[rootB] = rootA
}

// components 按最小成员索引的顺序返回全部连通分量，成员按输入顺序排列
func (uf *unionFind) components() [][]int {
	memberMap := make(map[int][]int)
	order := make([]int, 0)

	for i := range uf.parent {
		root := uf.find(i)
		if _, seen := memberMap[root]; !seen {
			order = append(order, root)
		}
		memberMap[root] = append(memberMap[root], i)
	}

	result := make([][]int, 0, len(order))
	for _, root := range order {
		result = append(result, memberMap[root])
	}
	return result
}
