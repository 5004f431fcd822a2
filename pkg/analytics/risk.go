package analytics

import (
	"fmt"

	"go.uber.org/zap"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// Absolute physiological safety thresholds, independent of any personal
// baseline.
const (
	MaxSafeBpm  = 150.0
	MinSafeBpm  = 40.0
	MaxSafeTemp = 40.0
	MinSafeTemp = 35.0
	MinSafeSpO2 = 90.0
)

// Every physical rule today carries critical semantics, so a physical hit
// always scores 100; the warning score exists for any future non-critical
// physical rule.
const (
	physicalCriticalRisk = 100
	physicalWarningRisk  = 80
)

// Contextual (baseline-relative) rule thresholds and contributions.
const (
	contextBpmRatio  = 1.2
	lowHrvThreshold  = 40.0
	highBpmThreshold = 90.0
	feverTemp        = 37.5
	elderlyAge       = 60

	riskElevatedBpm = 60
	riskLowHrv      = 30
	riskElderFever  = 40
)

const maxRisk = 100

func (e *Engine) assess(deviceID string, rec *models.Telemetry, prof *models.Profile) *Assessment {
	if a := e.checkPhysical(rec); a != nil {
		return a
	}
	return e.assessContextual(deviceID, rec, prof)
}

// checkPhysical is stage 1: absolute threshold checks. A non-nil result
// means the contextual stage must not run for this record.
func (e *Engine) checkPhysical(rec *models.Telemetry) *Assessment {
	var alerts []string
	critical := false

	if rec.Bpm != nil && (*rec.Bpm > MaxSafeBpm || *rec.Bpm < MinSafeBpm) {
		alerts = append(alerts, fmt.Sprintf("Heart rate (%.0f bpm) is outside the critical safety range!", *rec.Bpm))
		critical = true
	}
	if rec.Temp != nil && *rec.Temp > MaxSafeTemp {
		alerts = append(alerts, fmt.Sprintf("Body temperature (%.1f°C) is above the critical fever threshold!", *rec.Temp))
		critical = true
	}
	if rec.Temp != nil && *rec.Temp < MinSafeTemp {
		alerts = append(alerts, fmt.Sprintf("Body temperature (%.1f°C) is below the hypothermia threshold!", *rec.Temp))
		critical = true
	}
	if rec.SpO2 != nil && *rec.SpO2 < MinSafeSpO2 {
		alerts = append(alerts, fmt.Sprintf("SpO2 (%.0f%%) is critically low, risk of hypoxemia!", *rec.SpO2))
		critical = true
	}

	if len(alerts) == 0 {
		return nil
	}

	risk := physicalWarningRisk
	if critical {
		risk = physicalCriticalRisk
	}
	return &Assessment{Risk: risk, Alerts: alerts, IsPhysicalAlert: true}
}

// assessContextual is stage 2: personal-baseline-relative rules, additive
// and capped. Any internal fault degrades to a zero-risk flagged result so
// one device's bad data never aborts the pipeline.
func (e *Engine) assessContextual(deviceID string, rec *models.Telemetry, prof *models.Profile) (result *Assessment) {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRisk),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Risk analysis failed",
				zap.String("device_id", deviceID),
				zap.Any("panic", r))
			result = &Assessment{Risk: 0, Alerts: []string{"Risk analysis failed, defaulting to zero risk."}}
		}
	}()

	risk := 0
	alerts := []string{}

	avgBpm := e.Cfg.Defaults.AvgBpm
	if prof != nil && prof.WeeklyAvgBpm != nil {
		avgBpm = *prof.WeeklyAvgBpm
	}
	age := e.Cfg.Defaults.Age
	if prof != nil && prof.Age > 0 {
		age = prof.Age
	}

	if rec.Bpm != nil {
		bpm := *rec.Bpm
		if bpm > avgBpm*contextBpmRatio {
			risk += riskElevatedBpm
			alerts = append(alerts, fmt.Sprintf(
				"Heart rate (%.0f bpm) is %.0f%% above the weekly average (%.0f bpm).",
				bpm, (bpm/avgBpm-1)*100, avgBpm))
		}
		if rec.Hrv != nil && *rec.Hrv < lowHrvThreshold && bpm > highBpmThreshold {
			risk += riskLowHrv
			alerts = append(alerts, fmt.Sprintf(
				"Low HRV (%.0f ms) alongside an elevated heart rate. Possible stress or fatigue.",
				*rec.Hrv))
		}
	}

	if rec.Temp != nil && *rec.Temp > feverTemp && age > elderlyAge {
		risk += riskElderFever
		alerts = append(alerts, fmt.Sprintf(
			"Elderly profile (age %d) showing signs of a low-grade fever (%.1f°C).",
			age, *rec.Temp))
	}

	if risk > maxRisk {
		risk = maxRisk
	}
	return &Assessment{Risk: risk, Alerts: alerts}
}

// predictWindow is how many trailing records feed the next-value prediction.
const predictWindow = 5

func (e *Engine) predictNext(history []models.Telemetry, metric string) *float64 {
	if len(history) < predictWindow {
		return nil
	}
	tail := history[len(history)-predictWindow:]
	values := []float64{}
	for i := range tail {
		if v := tail[i].MetricValue(metric); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	predicted := common.Round1(common.Mean(values))
	return &predicted
}

type IRiskImpl struct {
	engine *Engine
}

func (ir *IRiskImpl) Assess(deviceID string, rec *models.Telemetry, prof *models.Profile) *Assessment {
	return ir.engine.assess(deviceID, rec, prof)
}

func (ir *IRiskImpl) PredictNext(history []models.Telemetry, metric string) *float64 {
	return ir.engine.predictNext(history, metric)
}

func (e *Engine) GetIRisk() IRisk {
	return &IRiskImpl{engine: e}
}
