/*
 * @module testutil/test_helper
 * @description 测试工具和数据工厂：构造用户/项目/视频内存数据集与历史指标序列
 * @architecture 测试基础设施 - 纯内存数据工厂，不依赖外部存储
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 测试构造数据集 -> 引擎计算 -> 断言结果
 * @rules 工厂函数每次调用返回独立副本，测试间不共享可变状态
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"dataquality-service/service/models"
)

// BaseTime 测试数据的统一基准时间
var BaseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// NewUser 创建一条用户记录，字段可在返回后覆盖
func NewUser(id, username, email string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"username":  username,
		"email":     email,
		"createdAt": BaseTime.Format(time.RFC3339),
		"updatedAt": BaseTime.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

// NewProject 创建一条项目记录
func NewProject(id, name, ownerID string) map[string]interface{} {
	return map[string]interface{}{
		"id":              id,
		"name":            name,
		"ownerId":         ownerID,
		"status":          "active",
		"budgetAllocated": 1000000.0,
		"budgetSpent":     250000.0,
		"startDate":       BaseTime.Format("2006-01-02"),
		"createdAt":       BaseTime.Format(time.RFC3339),
		"updatedAt":       BaseTime.Add(48 * time.Hour).Format(time.RFC3339),
	}
}

// NewVideo 创建一条视频记录
func NewVideo(id, title, projectID string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"title":      title,
		"projectId":  projectID,
		"url":        fmt.Sprintf("https://videos.example.com/%s.mp4", id),
		"duration":   320.0,
		"uploadedAt": BaseTime.Add(72 * time.Hour).Format(time.RFC3339),
		"createdAt":  BaseTime.Format(time.RFC3339),
		"updatedAt":  BaseTime.Add(96 * time.Hour).Format(time.RFC3339),
	}
}

// NewDataset 创建一个引用自洽的小型数据集
// 包含 2 个用户、2 个项目、2 个视频，所有引用均可解析
func NewDataset() models.Dataset {
	return models.Dataset{
		"users": {
			NewUser("u1", "alice", "alice@example.com"),
			NewUser("u2", "bob", "bob@example.com"),
		},
		"projects": {
			NewProject("p1", "Spring Campaign", "u1"),
			NewProject("p2", "Summer Launch", "u2"),
		},
		"videos": {
			NewVideo("v1", "Teaser Cut", "p1"),
			NewVideo("v2", "Final Cut", "p2"),
		},
	}
}

// DefaultRelationships 测试数据集的引用关系定义
func DefaultRelationships() []models.Relationship {
	return []models.Relationship{
		{FromEntityType: "projects", Field: "ownerId", ToEntityType: "users"},
		{FromEntityType: "videos", Field: "projectId", ToEntityType: "projects"},
	}
}

// NewHistory 按日间隔生成历史质量指标序列
func NewHistory(scores ...float64) []models.HistoricalMetric {
	history := make([]models.HistoricalMetric, 0, len(scores))
	for i, score := range scores {
		history = append(history, models.HistoricalMetric{
			Timestamp:    BaseTime.Add(time.Duration(i) * 24 * time.Hour),
			OverallScore: score,
			RecordCount:  100,
		})
	}
	return history
}

// NewObservations 为单个实体按日间隔生成时间序列观测
func NewObservations(entityID, field string, values ...float64) []models.Observation {
	series := make([]models.Observation, 0, len(values))
	for i, value := range values {
		series = append(series, models.Observation{
			EntityID:  entityID,
			Timestamp: BaseTime.Add(time.Duration(i) * 24 * time.Hour),
			Values:    map[string]interface{}{field: value},
		})
	}
	return series
}
