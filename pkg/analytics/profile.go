package analytics

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

func (e *Engine) upsertProfile(deviceID string, input *models.Profile) error {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProfile),
	)

	profile := models.Profile{
		DeviceID:     deviceID,
		Age:          input.Age,
		WeeklyAvgBpm: input.WeeklyAvgBpm,
		WebhookURL:   input.WebhookURL,
	}

	err := e.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&profile).Error

	if err == nil {
		logger.Info("Upserted profile for device", zap.Reflect("profile", profile))
	}

	return err
}

// getProfile never fails: a missing or unreadable profile is served with
// the configured defaults so risk analysis always has a context to work
// with.
func (e *Engine) getProfile(deviceID string) *models.Profile {
	var profile models.Profile
	err := e.Db.Conn.First(&profile, "device_id = ?", deviceID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			common.GetLoggerWith(
				common.LoggerNameEngine,
				zap.String(common.LoggerFieldCategory, common.LoggerCategoryProfile),
			).Error("Failed to load profile, using defaults",
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
		return &models.Profile{DeviceID: deviceID, Age: e.Cfg.Defaults.Age}
	}
	if profile.Age == 0 {
		profile.Age = e.Cfg.Defaults.Age
	}
	return &profile
}

type IProfileImpl struct {
	engine *Engine
}

func (ip *IProfileImpl) Upsert(deviceID string, input *models.Profile) error {
	return ip.engine.upsertProfile(deviceID, input)
}

func (ip *IProfileImpl) Get(deviceID string) *models.Profile {
	return ip.engine.getProfile(deviceID)
}

func (e *Engine) GetIProfile() IProfile {
	return &IProfileImpl{engine: e}
}
