package analytics

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

const (
	// MinLearnRecords is the minimum history size before learning is attempted.
	MinLearnRecords = 50
	// MinBucketSamples is the minimum per-metric sample count for a bucket
	// to produce stats.
	MinBucketSamples = 10
)

// TrendBucket is the contextual bucket consulted by weekly drift analysis.
const TrendBucket = "Night_Resting_Weekday"

// BucketKey derives the contextual grouping key for a record: time slot x
// activity x weekday/weekend. 16 keys are possible.
func BucketKey(t time.Time, isResting bool) string {
	hour := t.Hour()
	var slot string
	switch {
	case hour >= 6 && hour < 12:
		slot = "Morning"
	case hour >= 12 && hour < 18:
		slot = "Afternoon"
	case hour >= 18 && hour < 22:
		slot = "Evening"
	default:
		slot = "Night"
	}

	dayType := "Weekday"
	if day := t.Weekday(); day == time.Saturday || day == time.Sunday {
		dayType = "Weekend"
	}

	activity := "Active"
	if isResting {
		activity = "Resting"
	}

	return slot + "_" + activity + "_" + dayType
}

type bucketSamples struct {
	bpm, hrv, temp, spo2 []float64
}

func (e *Engine) learnBaseline(deviceID string, history []models.Telemetry) (models.BucketPatterns, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryBaseline),
	)

	if len(history) < MinLearnRecords {
		logger.Warn("Not enough history to learn a baseline",
			zap.String("device_id", deviceID),
			zap.Int("records", len(history)),
			zap.Int("required", MinLearnRecords))
		return nil, ErrInsufficientData
	}

	grouped := map[string]*bucketSamples{}
	for i := range history {
		rec := &history[i]
		key := BucketKey(time.UnixMilli(rec.Timestamp).In(e.location()), rec.IsResting)
		g := grouped[key]
		if g == nil {
			g = &bucketSamples{}
			grouped[key] = g
		}
		if rec.Bpm != nil {
			g.bpm = append(g.bpm, *rec.Bpm)
		}
		if rec.Hrv != nil {
			g.hrv = append(g.hrv, *rec.Hrv)
		}
		if rec.Temp != nil {
			g.temp = append(g.temp, *rec.Temp)
		}
		if rec.SpO2 != nil {
			g.spo2 = append(g.spo2, *rec.SpO2)
		}
	}

	patterns := models.BucketPatterns{}
	for key, g := range grouped {
		profile := models.BucketProfile{
			Bpm:  bucketStats(g.bpm),
			Hrv:  bucketStats(g.hrv),
			Temp: bucketStats(g.temp),
			SpO2: bucketStats(g.spo2),
		}
		// a bucket with no qualifying metric is omitted, not zero-filled
		if profile.Bpm == nil && profile.Hrv == nil && profile.Temp == nil && profile.SpO2 == nil {
			continue
		}
		patterns[key] = profile
	}

	// the new snapshot replaces the prior one wholesale, no bucket merge
	snapshot := models.BaselineSnapshot{
		DeviceID:  deviceID,
		Kind:      models.SnapshotCurrent,
		Patterns:  patterns,
		UpdatedAt: e.clock(),
	}
	err := e.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "kind"}},
		UpdateAll: true,
	}).Create(&snapshot).Error
	if err != nil {
		return nil, err
	}

	logger.Info("Learned baseline patterns",
		zap.String("device_id", deviceID),
		zap.Int("buckets", len(patterns)))

	return patterns, nil
}

func bucketStats(values []float64) *models.MetricStats {
	if len(values) < MinBucketSamples {
		return nil
	}
	return &models.MetricStats{
		Mean: common.Round2(common.Mean(values)),
		Std:  common.Round2(common.Std(values)),
	}
}

func (e *Engine) snapshotPatterns(deviceID string, kind models.SnapshotKind) (models.BucketPatterns, error) {
	var snapshot models.BaselineSnapshot
	err := e.Db.Conn.
		Where("device_id = ? AND kind = ?", deviceID, kind).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Patterns, nil
}

// rotateBaseline copies the current snapshot into the previous-week slot.
// An external scheduler is expected to call this at week boundaries.
func (e *Engine) rotateBaseline(deviceID string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryBaseline),
	)

	current, err := e.snapshotPatterns(deviceID, models.SnapshotCurrent)
	if err != nil {
		return err
	}
	if current == nil {
		logger.Warn("No current baseline to rotate", zap.String("device_id", deviceID))
		return nil
	}

	snapshot := models.BaselineSnapshot{
		DeviceID:  deviceID,
		Kind:      models.SnapshotPrevious,
		Patterns:  current,
		UpdatedAt: e.clock(),
	}
	err = e.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "kind"}},
		UpdateAll: true,
	}).Create(&snapshot).Error
	if err == nil {
		logger.Info("Rotated baseline snapshot", zap.String("device_id", deviceID))
	}
	return err
}

type IBaselineImpl struct {
	engine *Engine
}

func (ib *IBaselineImpl) Learn(deviceID string, history []models.Telemetry) (models.BucketPatterns, error) {
	return ib.engine.learnBaseline(deviceID, history)
}

func (ib *IBaselineImpl) Current(deviceID string) (models.BucketPatterns, error) {
	return ib.engine.snapshotPatterns(deviceID, models.SnapshotCurrent)
}

func (ib *IBaselineImpl) Previous(deviceID string) (models.BucketPatterns, error) {
	return ib.engine.snapshotPatterns(deviceID, models.SnapshotPrevious)
}

func (ib *IBaselineImpl) Rotate(deviceID string) error {
	return ib.engine.rotateBaseline(deviceID)
}

func (e *Engine) GetIBaseline() IBaseline {
	return &IBaselineImpl{engine: e}
}
