package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"healthsense.dev/telemetry-analytics/pkg/analytics"
)

type RestfulServer struct {
	Server           *gin.Engine
	Engine           *analytics.Engine
	RateLimiterStore *analytics.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.POST("/telemetry", rs.PostTelemetry)
		devices.POST("/profile", rs.UpdateProfile)
		devices.GET("/alerts", rs.GetAlerts)
		devices.GET("/alerts/live", rs.GetLiveAlerts)
		devices.GET("/analyze", rs.Analyze)
		devices.POST("/baseline/learn", rs.LearnBaseline)
		devices.POST("/baseline/rotate", rs.RotateBaseline)
		devices.POST("/sleep/analyze", rs.AnalyzeSleep)
		devices.POST("/trend/analyze", rs.AnalyzeTrend)
		devices.POST("/limiter", rs.PostLimiter)
	}
}
