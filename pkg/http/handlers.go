package http

import (
	"errors"
	"net/http"
	"time"

	"healthsense.dev/telemetry-analytics/pkg/analytics"
	"healthsense.dev/telemetry-analytics/pkg/live"
	"healthsense.dev/telemetry-analytics/pkg/models"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type TelemetryRequest struct {
	Timestamp time.Time `json:"timestamp"`
	Bpm       *float64  `json:"bpm"`
	Temp      *float64  `json:"temp"`
	SpO2      *float64  `json:"spO2"`
	Hrv       *float64  `json:"hrv"`
	TotalAcc  *float64  `json:"totalAcc"`
	IsResting bool      `json:"isResting"`
}

var telemetryRequestSchema = z.Struct(z.Shape{
	"Timestamp": z.Time(),
	"Bpm":       z.Ptr(z.Float64()),
	"Temp":      z.Ptr(z.Float64()),
	"SpO2":      z.Ptr(z.Float64()),
	"Hrv":       z.Ptr(z.Float64()),
	"TotalAcc":  z.Ptr(z.Float64()),
	"IsResting": z.Bool(),
})

func (rs *RestfulServer) PostTelemetry(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req TelemetryRequest
	if err := telemetryRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rec := &models.Telemetry{
		Bpm:       req.Bpm,
		Temp:      req.Temp,
		SpO2:      req.SpO2,
		Hrv:       req.Hrv,
		TotalAcc:  req.TotalAcc,
		IsResting: req.IsResting,
	}
	if !req.Timestamp.IsZero() {
		rec.Timestamp = req.Timestamp.UnixMilli()
	}

	assessment, err := rs.Engine.OnTelemetry(c.Request.Context(), deviceID, rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

type ProfileRequest struct {
	Age          int      `json:"age"`
	WeeklyAvgBpm *float64 `json:"weekly_avg_bpm"`
	WebhookURL   string   `json:"webhook_url"`
}

var profileRequestSchema = z.Struct(z.Shape{
	"Age":          z.Int().Required(),
	"WeeklyAvgBpm": z.Ptr(z.Float64()),
	"WebhookURL":   z.String(),
})

func (rs *RestfulServer) UpdateProfile(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ProfileRequest
	if err := profileRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	profile := models.Profile{
		DeviceID:     deviceID,
		Age:          req.Age,
		WeeklyAvgBpm: req.WeeklyAvgBpm,
		WebhookURL:   req.WebhookURL,
	}

	if err := rs.Engine.Profile.Upsert(deviceID, &profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	alerts, err := rs.Engine.Alert.DeviceAlerts(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetLiveAlerts(c *gin.Context) {
	deviceID := c.Param("device_id")

	if rs.Engine.Live == nil {
		c.JSON(http.StatusOK, []live.Entry{})
		return
	}

	entries, err := rs.Engine.Live.Active(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (rs *RestfulServer) Analyze(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	result, err := rs.Engine.AnalyzeNow(c.Request.Context(), deviceID)
	if errors.Is(err, analytics.ErrInsufficientData) {
		c.JSON(http.StatusOK, gin.H{"status": "insufficient data"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (rs *RestfulServer) LearnBaseline(c *gin.Context) {
	deviceID := c.Param("device_id")

	patterns, err := rs.Engine.RunBaselineLearning(deviceID)
	if errors.Is(err, analytics.ErrInsufficientData) {
		c.JSON(http.StatusOK, gin.H{"status": "insufficient data"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, patterns)
}

func (rs *RestfulServer) RotateBaseline(c *gin.Context) {
	deviceID := c.Param("device_id")

	if err := rs.Engine.Baseline.Rotate(deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

type SleepAnalysisRequest struct {
	WindowEnd     time.Time `json:"window_end"`
	DurationHours int       `json:"duration_hours"`
}

var sleepAnalysisRequestSchema = z.Struct(z.Shape{
	"WindowEnd":     z.Time().Required(),
	"DurationHours": z.Int(),
})

func (rs *RestfulServer) AnalyzeSleep(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req SleepAnalysisRequest
	if err := sleepAnalysisRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.DurationHours <= 0 {
		req.DurationHours = analytics.SleepWindowHours
	}

	summary, err := rs.Engine.RunSleepAnalysis(deviceID, req.WindowEnd, req.DurationHours)
	if errors.Is(err, analytics.ErrInsufficientData) {
		c.JSON(http.StatusOK, gin.H{"status": "insufficient data"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

type TrendAnalysisRequest struct {
	AsOf time.Time `json:"as_of"`
}

var trendAnalysisRequestSchema = z.Struct(z.Shape{
	"AsOf": z.Time(),
})

func (rs *RestfulServer) AnalyzeTrend(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req TrendAnalysisRequest
	if err := trendAnalysisRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.AsOf.IsZero() {
		req.AsOf = time.Now()
	}

	report, err := rs.Engine.RunWeeklyTrend(deviceID, req.AsOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
