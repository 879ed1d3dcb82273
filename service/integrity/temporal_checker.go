/*
 * @module service/integrity/temporal_checker
 * @description 时间序列一致性检查：基于历史最小值与增长容差推导期望区间，识别异常观测
 * @architecture 管道模式 - 按时间顺序单遍扫描，期望区间随观测滚动更新
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 序列校验 -> 逐观测推导期望区间 -> 越界观测记为异常
 * @rules 序列必须属于同一实体且按时间升序；区间在观测前推导，不被当前观测污染
 * @refs integrity_checker.go
 */

package integrity

import (
	"fmt"

	"dataquality-service/service/models"

	"github.com/spf13/cast"
)

// CheckTemporalConsistency 时间序列一致性检查
// 期望区间下界 = 历史最小值 - 下降容差；上界 = 上一观测值 × (1 + 增长容差)
func (ic *IntegrityChecker) CheckTemporalConsistency(series []models.Observation,
	config models.TemporalConfig) ([]models.Anomaly, error) {

	if config.Field == "" {
		return nil, fmt.Errorf("时间序列检查缺少跟踪字段 field")
	}
	if config.DecreaseTolerance < 0 {
		return nil, fmt.Errorf("下降容差 decrease_tolerance 不能为负数: %f", config.DecreaseTolerance)
	}
	if config.GrowthTolerance < 0 {
		return nil, fmt.Errorf("增长容差 growth_tolerance 不能为负数: %f", config.GrowthTolerance)
	}

	anomalies := make([]models.Anomaly, 0)
	if len(series) < 2 {
		return anomalies, nil
	}

	entityID := series[0].EntityID
	for i, obs := range series {
		if obs.EntityID != entityID {
			return nil, fmt.Errorf("序列第 %d 个观测属于不同实体: %s != %s", i, obs.EntityID, entityID)
		}
		if i > 0 && obs.Timestamp.Before(series[i-1].Timestamp) {
			return nil, fmt.Errorf("序列第 %d 个观测时间戳乱序", i)
		}
	}

	first, ok := observedValue(series[0], config.Field)
	if !ok {
		return nil, fmt.Errorf("序列首个观测缺少字段 %s", config.Field)
	}

	historicalMin := first
	previous := first

	for _, obs := range series[1:] {
		value, exists := observedValue(obs, config.Field)
		if !exists {
			continue
		}

		expected := models.ExpectedRange{
			Min: historicalMin - config.DecreaseTolerance,
			Max: previous * (1 + config.GrowthTolerance),
		}

		switch {
		case value < expected.Min:
			anomalies = append(anomalies, models.Anomaly{
				EntityID:      obs.EntityID,
				Field:         config.Field,
				AnomalyType:   models.AnomalyUnexpectedDecrease,
				ExpectedRange: expected,
				ActualValue:   value,
				Timestamp:     obs.Timestamp,
			})
		case value > expected.Max:
			anomalies = append(anomalies, models.Anomaly{
				EntityID:      obs.EntityID,
				Field:         config.Field,
				AnomalyType:   models.AnomalyUnexpectedIncrease,
				ExpectedRange: expected,
				ActualValue:   value,
				Timestamp:     obs.Timestamp,
			})
		}

		if value < historicalMin {
			historicalMin = value
		}
		previous = value
	}

	return anomalies, nil
}

// observedValue 读取观测中被跟踪字段的数值
func observedValue(obs models.Observation, field string) (float64, bool) {
	value, exists := obs.Values[field]
	if !exists || value == nil {
		return 0, false
	}
	return cast.ToFloat64(value), true
}
