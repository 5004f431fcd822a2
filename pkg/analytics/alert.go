package analytics

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/live"
	"healthsense.dev/telemetry-analytics/pkg/models"
	"healthsense.dev/telemetry-analytics/pkg/notify"
)

// NotifyRiskFloor is the extra notification trigger used by the on-demand
// analysis path: even without reason strings, a score at or above this
// notifies.
const NotifyRiskFloor = 50

// ShouldNotify is the alert decision: any physical alert or any non-empty
// reason list is forwarded to the notification sink.
func (a *Assessment) ShouldNotify() bool {
	return a.IsPhysicalAlert || len(a.Alerts) > 0
}

// dispatchAlert persists the alert record to the durable history and the
// live collection, then attempts delivery. A sink failure is logged and
// never rolls back the persisted record.
func (e *Engine) dispatchAlert(ctx context.Context, deviceID string, rec *models.Telemetry, assessment *Assessment) error {
	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	alertType := models.AlertTypeWarning
	if assessment.IsPhysicalAlert {
		alertType = models.AlertTypeCritical
	}

	alert := models.Alert{
		DeviceID:  deviceID,
		Timestamp: e.clock(),
		Type:      alertType,
		RiskScore: assessment.Risk,
		Message:   strings.Join(assessment.Alerts, " | "),
	}

	if err := e.Db.Conn.Create(&alert).Error; err != nil {
		return err
	}
	logger.Info("Alert saved", zap.Reflect("alert", alert))

	if e.Live != nil {
		entry := live.Entry{
			ID:        uuid.NewString(),
			DeviceID:  deviceID,
			Type:      string(alertType),
			RiskScore: assessment.Risk,
			Message:   alert.Message,
			Timestamp: alert.Timestamp.UnixMilli(),
		}
		if err := e.Live.Publish(ctx, entry); err != nil {
			logger.Error("Failed to publish live alert", zap.Error(err))
		}
	}

	if e.Notifier == nil {
		return nil
	}

	prof := e.Profile.Get(deviceID)
	payload := &notify.Payload{
		DeviceID:   deviceID,
		WebhookURL: prof.WebhookURL,
		Risk:       assessment.Risk,
		Alerts:     assessment.Alerts,
		IsPhysical: assessment.IsPhysicalAlert,
		Data:       rec,
	}
	if err := e.Notifier.Send(ctx, payload); err != nil {
		// at-least-once attempt; the alert record above stays either way
		logger.Error("Failed to deliver alert notification",
			zap.String("device_id", deviceID),
			zap.Error(err))
	}

	return nil
}

func (e *Engine) deviceAlerts(deviceID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := e.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Find(&alerts).Error
	return alerts, err
}

type IAlertImpl struct {
	engine *Engine
}

func (ia *IAlertImpl) Dispatch(ctx context.Context, deviceID string, rec *models.Telemetry, assessment *Assessment) error {
	return ia.engine.dispatchAlert(ctx, deviceID, rec, assessment)
}

func (ia *IAlertImpl) DeviceAlerts(deviceID string) ([]models.Alert, error) {
	return ia.engine.deviceAlerts(deviceID)
}

func (e *Engine) GetIAlert() IAlert {
	return &IAlertImpl{engine: e}
}
