package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// Weekly drift thresholds and their risk contributions.
const (
	bpmDriftThreshold    = 5.0
	hrvDriftThreshold    = -5.0
	apneaWeeklyThreshold = 1.0

	riskBpmDrift    = 30
	riskHrvDrift    = 25
	riskWeeklyApnea = 40
)

// WeekID returns the ISO week identifier for t, e.g. "2026-W35".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (e *Engine) analyzeWeek(deviceID string, asOf time.Time) (*models.WeeklyReport, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTrend),
	)

	weekID := WeekID(asOf)

	// at most one report per ISO week
	var existing models.WeeklyReport
	err := e.Db.Conn.Where("device_id = ? AND week_id = ?", deviceID, weekID).First(&existing).Error
	if err == nil {
		logger.Info("Weekly report already exists, skipping",
			zap.String("device_id", deviceID),
			zap.String("week_id", weekID))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	findings := []string{}
	risk := 0
	var bpmDrift, hrvDrift, avgEfficiency, avgDeepMin *float64

	current, err := e.snapshotPatterns(deviceID, models.SnapshotCurrent)
	if err != nil {
		return nil, err
	}
	previous, err := e.snapshotPatterns(deviceID, models.SnapshotPrevious)
	if err != nil {
		return nil, err
	}

	curBucket, curOK := current[TrendBucket]
	prevBucket, prevOK := previous[TrendBucket]

	switch {
	case curOK && prevOK:
		if curBucket.Bpm != nil && prevBucket.Bpm != nil {
			drift := curBucket.Bpm.Mean - prevBucket.Bpm.Mean
			rounded := common.Round1(drift)
			bpmDrift = &rounded
			if drift >= bpmDriftThreshold {
				findings = append(findings, fmt.Sprintf("Heart rate baseline increase: +%.1f bpm.", drift))
				risk += riskBpmDrift
			}
		}
		if curBucket.Hrv != nil && prevBucket.Hrv != nil {
			drift := curBucket.Hrv.Mean - prevBucket.Hrv.Mean
			rounded := common.Round1(drift)
			hrvDrift = &rounded
			if drift <= hrvDriftThreshold {
				findings = append(findings, fmt.Sprintf("HRV baseline decrease: -%.1f ms.", math.Abs(drift)))
				risk += riskHrvDrift
			}
		}
	case curOK:
		findings = append(findings, "No prior week baseline to compare against yet.")
	}

	var summaries []models.SleepSummary
	if err := e.Db.Conn.Where("device_id = ?", deviceID).Find(&summaries).Error; err != nil {
		return nil, err
	}
	weekSummaries := common.Filter(summaries, func(s models.SleepSummary) bool {
		day, err := time.Parse("2006-01-02", s.Date)
		return err == nil && WeekID(day) == weekID
	})

	if len(weekSummaries) > 0 {
		deep := common.Mean(common.Mapper(weekSummaries, func(s models.SleepSummary) float64 { return float64(s.DeepMin) }))
		eff := common.Mean(common.Mapper(weekSummaries, func(s models.SleepSummary) float64 { return s.Efficiency }))
		apnea := common.Mean(common.Mapper(weekSummaries, func(s models.SleepSummary) float64 { return float64(s.ApneaIndex) }))

		avgDeepMin = &deep
		avgEfficiency = &eff

		if apnea >= apneaWeeklyThreshold {
			findings = append(findings, fmt.Sprintf("Possible sleep apnea: averaging %.0f events per night.", apnea))
			risk += riskWeeklyApnea
		}
	} else {
		findings = append(findings, "No sleep summaries recorded this week.")
	}

	if risk > maxRisk {
		risk = maxRisk
	}

	report := &models.WeeklyReport{
		DeviceID:           deviceID,
		WeekID:             weekID,
		LongTermRisk:       risk,
		Findings:           findings,
		BpmDrift:           bpmDrift,
		HrvDrift:           hrvDrift,
		AvgSleepEfficiency: avgEfficiency,
		AvgDeepMin:         avgDeepMin,
	}

	if err := e.Db.Conn.Create(report).Error; err != nil {
		return nil, err
	}

	logger.Info("Saved weekly trend report",
		zap.String("device_id", deviceID),
		zap.String("week_id", weekID),
		zap.Int("long_term_risk", risk))

	return report, nil
}

type ITrendImpl struct {
	engine *Engine
}

func (it *ITrendImpl) AnalyzeWeek(deviceID string, asOf time.Time) (*models.WeeklyReport, error) {
	return it.engine.analyzeWeek(deviceID, asOf)
}

func (e *Engine) GetITrend() ITrend {
	return &ITrendImpl{engine: e}
}
