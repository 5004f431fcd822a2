package analytics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// RetentionDays is the rolling history horizon; records older than this are
// evicted on every append.
const RetentionDays = 7

const msPerDay = int64(24 * time.Hour / time.Millisecond)

func (e *Engine) appendRecord(deviceID string, rec *models.Telemetry) (int64, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryHistory),
	)

	rec.DeviceID = deviceID
	cutoff := rec.Timestamp - RetentionDays*msPerDay

	// insert and eviction are one logical write: a later read never sees
	// the new record without the eviction applied
	var evicted int64
	err := e.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		res := tx.Where("device_id = ? AND timestamp <= ?", deviceID, cutoff).Delete(&models.Telemetry{})
		if res.Error != nil {
			return res.Error
		}
		evicted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Appended telemetry record",
		zap.String("device_id", deviceID),
		zap.Int64("timestamp", rec.Timestamp),
		zap.Int64("evicted", evicted))

	return evicted, nil
}

func (e *Engine) rangeQuery(deviceID string, start, end int64) ([]models.Telemetry, error) {
	var recs []models.Telemetry
	err := e.Db.Conn.
		Where("device_id = ? AND timestamp >= ? AND timestamp <= ?", deviceID, start, end).
		Order("timestamp asc").
		Find(&recs).Error
	return recs, err
}

func (e *Engine) lastN(deviceID string, n int) ([]models.Telemetry, error) {
	var recs []models.Telemetry
	err := e.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Limit(n).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	// callers expect ascending order
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

type IHistoryImpl struct {
	engine *Engine
}

func (ih *IHistoryImpl) Append(deviceID string, rec *models.Telemetry) (int64, error) {
	return ih.engine.appendRecord(deviceID, rec)
}

func (ih *IHistoryImpl) Range(deviceID string, start, end int64) ([]models.Telemetry, error) {
	return ih.engine.rangeQuery(deviceID, start, end)
}

func (ih *IHistoryImpl) LastN(deviceID string, n int) ([]models.Telemetry, error) {
	return ih.engine.lastN(deviceID, n)
}

func (e *Engine) GetIHistory() IHistory {
	return &IHistoryImpl{engine: e}
}
