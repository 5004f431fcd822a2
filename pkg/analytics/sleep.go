package analytics

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// MinSleepRecords is the minimum number of resting records a night window
// must hold before classification is attempted.
const MinSleepRecords = 10

// Stage classification thresholds. BPM offsets are relative to the night's
// minimum heart rate, HRV factors relative to the night's mean HRV.
const (
	accWakeThreshold = 10.0
	wakeBpmOffset    = 20.0
	deepBpmOffset    = 5.0
	remBpmOffset     = 15.0
	deepHrvFactor    = 0.9
	remHrvFactor     = 1.1
)

// Apnea event rule: an SpO2 drop of at least this much between consecutive
// records, landing below the ceiling.
const (
	apneaSpO2Drop    = 3.0
	apneaSpO2Ceiling = 95.0
)

type Stage string

const (
	StageWake  Stage = "Wake"
	StageLight Stage = "Light"
	StageDeep  Stage = "Deep"
	StageREM   Stage = "REM"
)

type nightStats struct {
	minBPM   float64
	meanHRV  float64
	meanSpO2 float64
	records  int
	timeUnit time.Duration
}

func newNightStats(recs []models.Telemetry) nightStats {
	bpms := []float64{}
	hrvs := []float64{}
	spo2s := []float64{}
	for i := range recs {
		if recs[i].Bpm != nil {
			bpms = append(bpms, *recs[i].Bpm)
		}
		if recs[i].Hrv != nil {
			hrvs = append(hrvs, *recs[i].Hrv)
		}
		if recs[i].SpO2 != nil {
			spo2s = append(spo2s, *recs[i].SpO2)
		}
	}

	minBPM := 0.0
	if len(bpms) > 0 {
		minBPM = common.Reducer(bpms, math.Min, bpms[0])
	}

	// uniform spacing assumption: window duration split evenly between records
	spanMs := recs[len(recs)-1].Timestamp - recs[0].Timestamp
	timeUnit := time.Duration(spanMs/int64(len(recs)-1)) * time.Millisecond

	return nightStats{
		minBPM:   minBPM,
		meanHRV:  common.Mean(hrvs),
		meanSpO2: common.Mean(spo2s),
		records:  len(recs),
		timeUnit: timeUnit,
	}
}

// classifyStage labels one record. Priority order is fixed: Wake beats
// everything, then Deep, then REM; Light is the fallback.
func classifyStage(rec *models.Telemetry, stats nightStats) Stage {
	acc := 0.0
	if rec.TotalAcc != nil {
		acc = *rec.TotalAcc
	}
	if acc > accWakeThreshold || (rec.Bpm != nil && *rec.Bpm > stats.minBPM+wakeBpmOffset) {
		return StageWake
	}

	if rec.Bpm != nil && rec.Hrv != nil {
		if *rec.Bpm <= stats.minBPM+deepBpmOffset && *rec.Hrv < stats.meanHRV*deepHrvFactor {
			return StageDeep
		}
		if *rec.Bpm <= stats.minBPM+remBpmOffset && *rec.Hrv > stats.meanHRV*remHrvFactor {
			return StageREM
		}
	}

	return StageLight
}

// countApneaEvents walks the window pairwise and counts qualifying oxygen
// desaturation events. The raw count is the night's apnea index.
func countApneaEvents(recs []models.Telemetry) int {
	count := 0
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1].SpO2, recs[i].SpO2
		if prev == nil || cur == nil {
			continue
		}
		if *prev-*cur >= apneaSpO2Drop && *cur < apneaSpO2Ceiling {
			count++
		}
	}
	return count
}

func (e *Engine) analyzeSleep(deviceID string, windowEnd time.Time, durationHours int) (*models.SleepSummary, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySleep),
	)

	date := windowEnd.UTC().Format("2006-01-02")

	// one summary per calendar date; an existing one blocks recomputation
	var existing models.SleepSummary
	err := e.Db.Conn.Where("device_id = ? AND date = ?", deviceID, date).First(&existing).Error
	if err == nil {
		logger.Info("Sleep summary already exists, skipping",
			zap.String("device_id", deviceID),
			zap.String("date", date))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start := windowEnd.Add(-time.Duration(durationHours) * time.Hour)
	var recs []models.Telemetry
	err = e.Db.Conn.
		Where("device_id = ? AND timestamp >= ? AND timestamp <= ? AND is_resting = ?",
			deviceID, start.UnixMilli(), windowEnd.UnixMilli(), true).
		Order("timestamp asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	if len(recs) < MinSleepRecords {
		logger.Info("Not enough resting records for sleep analysis",
			zap.String("device_id", deviceID),
			zap.Int("records", len(recs)),
			zap.Int("required", MinSleepRecords))
		return nil, ErrInsufficientData
	}

	stats := newNightStats(recs)

	durations := map[Stage]time.Duration{}
	for i := range recs {
		durations[classifyStage(&recs[i], stats)] += stats.timeUnit
	}

	timeInBed := durations[StageWake] + durations[StageLight] + durations[StageDeep] + durations[StageREM]
	sleepTime := timeInBed - durations[StageWake]

	summary := &models.SleepSummary{
		DeviceID:     deviceID,
		Date:         date,
		TimeInBedMin: roundMinutes(timeInBed),
		SleepTimeMin: roundMinutes(sleepTime),
		Efficiency:   common.Round1(float64(sleepTime) / float64(timeInBed) * 100),
		ApneaIndex:   countApneaEvents(recs),
		WakeMin:      roundMinutes(durations[StageWake]),
		LightMin:     roundMinutes(durations[StageLight]),
		DeepMin:      roundMinutes(durations[StageDeep]),
		RemMin:       roundMinutes(durations[StageREM]),
		MinBPM:       stats.minBPM,
		AvgHRV:       common.Round1(stats.meanHRV),
		AvgSpO2:      common.Round1(stats.meanSpO2),
	}

	if err := e.Db.Conn.Create(summary).Error; err != nil {
		return nil, err
	}

	logger.Info("Saved sleep summary",
		zap.String("device_id", deviceID),
		zap.String("date", date),
		zap.Float64("efficiency", summary.Efficiency),
		zap.Int("apnea_index", summary.ApneaIndex))

	return summary, nil
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

type ISleepImpl struct {
	engine *Engine
}

func (is *ISleepImpl) Analyze(deviceID string, windowEnd time.Time, durationHours int) (*models.SleepSummary, error) {
	return is.engine.analyzeSleep(deviceID, windowEnd, durationHours)
}

func (e *Engine) GetISleep() ISleep {
	return &ISleepImpl{engine: e}
}
