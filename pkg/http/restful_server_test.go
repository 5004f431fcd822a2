package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"healthsense.dev/telemetry-analytics/pkg/analytics/mocks"
	_ "healthsense.dev/telemetry-analytics/pkg/testing"

	"healthsense.dev/telemetry-analytics/pkg/analytics"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/db"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

func newTestEngine() *analytics.Engine {
	cfg := analytics.DefaultConfig()
	cfg.Location = time.UTC

	engine := &analytics.Engine{
		Db:  *db.GetInstance(db.UseMemorySqliteDialector()),
		Cfg: cfg,
	}
	engine.WithServices(analytics.ServiceOpts{
		History:  engine.GetIHistory(),
		Baseline: engine.GetIBaseline(),
		Risk:     engine.GetIRisk(),
		Sleep:    engine.GetISleep(),
		Trend:    engine.GetITrend(),
		Alert:    engine.GetIAlert(),
		Profile:  engine.GetIProfile(),
	})
	return engine
}

func setupTestServer() *RestfulServer {
	rs := &RestfulServer{
		Server: gin.Default(),
		Engine: newTestEngine(),
		// default we use no limiter, if need, later assign it rs.RateLimiterStore = analytics.NewRateLimiterStore(...)
	}

	rs.Setup()

	return rs
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPostTelemetryAndGetAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	deviceID := uuid.NewString()

	// a critically high heart rate produces an immediate physical alert
	telemetryReq := TelemetryRequest{
		Timestamp: time.Now(),
		Bpm:       models.F(200),
	}
	body, _ := json.Marshal(telemetryReq)

	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/telemetry", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var assessment analytics.Assessment
	err := json.Unmarshal(w.Body.Bytes(), &assessment)
	require.NoError(t, err)
	assert.Equal(t, 100, assessment.Risk)
	assert.True(t, assessment.IsPhysicalAlert)

	alertReq := httptest.NewRequest("GET", "/devices/"+deviceID+"/alerts", nil)
	alertW := httptest.NewRecorder()
	rs.Server.ServeHTTP(alertW, alertReq)

	assert.Equal(t, http.StatusOK, alertW.Code)

	var alerts []models.Alert
	err = json.Unmarshal(alertW.Body.Bytes(), &alerts)
	assert.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeCritical, alerts[0].Type)
	assert.Equal(t, 100, alerts[0].RiskScore)
}

func TestPostTelemetry_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServer()
		deviceID := uuid.NewString()
		// a metric of the wrong type should be rejected
		payload := []byte(`{"bpm": "fast"}`)
		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/telemetry", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		deviceID := uuid.NewString()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockIAlert := mocks.NewMockIAlert(ctrl)
		rs.Engine.Alert = mockIAlert
		mockIAlert.EXPECT().
			DeviceAlerts(gomock.Eq(deviceID)).
			Return(nil, fmt.Errorf("just causing error")).
			Times(1)

		req := httptest.NewRequest("GET", "/devices/"+deviceID+"/alerts", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	deviceID := uuid.NewString()

	profileReq := ProfileRequest{
		Age:          66,
		WeeklyAvgBpm: models.F(72),
	}
	body, _ := json.Marshal(profileReq)
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Verify in DB
	var profile models.Profile
	err := rs.Engine.Db.Conn.
		Where("device_id = ?", deviceID).
		First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, 66, profile.Age)
	require.NotNil(t, profile.WeeklyAvgBpm)
	assert.Equal(t, 72.0, *profile.WeeklyAvgBpm)
}

func TestUpdateProfile_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServer()
		deviceID := uuid.NewString()
		// empty payload should be rejected, age is required
		payload := []byte("{}")
		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/profile", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		deviceID := uuid.NewString()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockIProfile := mocks.NewMockIProfile(ctrl)
		rs.Engine.Profile = mockIProfile
		mockIProfile.EXPECT().
			Upsert(gomock.Eq(deviceID), gomock.Any()).
			Return(fmt.Errorf("just causing error")).
			Times(1)

		profileReq := ProfileRequest{Age: 40}
		body, _ := json.Marshal(profileReq)
		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/profile", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestAnalyze(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	// no telemetry yet
	req := httptest.NewRequest("GET", "/devices/"+deviceID+"/analyze", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"insufficient data"}`, w.Body.String())

	// now with one record on file
	telemetryReq := TelemetryRequest{Timestamp: time.Now(), Bpm: models.F(70)}
	body, _ := json.Marshal(telemetryReq)
	postReq := httptest.NewRequest("POST", "/devices/"+deviceID+"/telemetry", bytes.NewReader(body))
	postReq.Header.Set("Content-Type", "application/json")
	postW := httptest.NewRecorder()
	rs.Server.ServeHTTP(postW, postReq)
	require.Equal(t, http.StatusOK, postW.Code)

	req = httptest.NewRequest("GET", "/devices/"+deviceID+"/analyze", nil)
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var result analytics.AnalysisResult
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, 0, result.Assessment.Risk)
	require.NotNil(t, result.Record)
	require.NotNil(t, result.Record.Bpm)
	assert.Equal(t, 70.0, *result.Record.Bpm)
}

func TestLearnAndRotateBaseline(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	// nothing on file yet
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/baseline/learn", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"insufficient data"}`, w.Body.String())

	// seed a learnable week of history directly
	base := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	for i := 0; i < 60; i++ {
		rec := models.Telemetry{
			DeviceID:  deviceID,
			Timestamp: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
			Bpm:       models.F(70),
		}
		require.NoError(t, rs.Engine.Db.Conn.Create(&rec).Error)
	}

	req = httptest.NewRequest("POST", "/devices/"+deviceID+"/baseline/learn", nil)
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var patterns models.BucketPatterns
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patterns))
	assert.NotEmpty(t, patterns)

	req = httptest.NewRequest("POST", "/devices/"+deviceID+"/baseline/rotate", nil)
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	previous, err := rs.Engine.Baseline.Previous(deviceID)
	require.NoError(t, err)
	assert.Equal(t, patterns, previous)
}

func TestAnalyzeSleepEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	// window_end is required
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/sleep/analyze", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sleepReq := SleepAnalysisRequest{WindowEnd: time.Now()}
	body, _ := json.Marshal(sleepReq)
	req = httptest.NewRequest("POST", "/devices/"+deviceID+"/sleep/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"insufficient data"}`, w.Body.String())
}

func TestAnalyzeTrendEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	trendReq := TrendAnalysisRequest{AsOf: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)}
	body, _ := json.Marshal(trendReq)
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/trend/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var report models.WeeklyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "2026-W35", report.WeekID)
	assert.Contains(t, report.Findings, "No sleep summaries recorded this week.")
}

func TestGetLiveAlertsWithoutStore(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	// no live store configured: an empty list, not an error
	req := httptest.NewRequest("GET", "/devices/"+deviceID+"/alerts/live", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func setupTestServerWithLimiter(limiter *analytics.RateLimiterStore) *RestfulServer {
	rs := &RestfulServer{
		Server:           gin.Default(),
		Engine:           newTestEngine(),
		RateLimiterStore: limiter,
	}

	rs.Setup()

	return rs
}

func TestPostTelemetryWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(analytics.NewRateLimiterStore(2, 2))

	deviceID := uuid.NewString()

	// Simulate 3 requests in quick succession — only 2 should be allowed
	for i := 0; i < 3; i++ {
		telemetryReq := TelemetryRequest{
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			Bpm:       models.F(70),
		}
		body, _ := json.Marshal(telemetryReq)
		req := httptest.NewRequest(http.MethodPost, "/devices/"+deviceID+"/telemetry", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		rs.Server.ServeHTTP(w, req)

		if i < 2 {
			require.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, w.Code, "request %d should be rate limited", i+1)
		}
	}

	// widening the device's own limiter lets traffic through again
	limiterReq := LimiterRequest{
		Rate:  100,
		Burst: 100,
	}
	limiterReqBody, _ := json.Marshal(limiterReq)
	req := httptest.NewRequest(http.MethodPost, "/devices/"+deviceID+"/limiter", bytes.NewReader(limiterReqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")

	telemetryReq := TelemetryRequest{
		Timestamp: time.Now().Add(time.Hour),
		Bpm:       models.F(70),
	}
	body, _ := json.Marshal(telemetryReq)
	req = httptest.NewRequest(http.MethodPost, "/devices/"+deviceID+"/telemetry", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "request after limiter update should be allowed")
}

func TestPostLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(analytics.NewRateLimiterStore(2, 2))

	deviceID := uuid.NewString()

	// empty payload should be rejected
	payload := []byte("{}")
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/limiter", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(analytics.NewRateLimiterStore(0, 0))

	deviceID := uuid.NewString()

	// nothing should pass below
	{
		profileReq := ProfileRequest{Age: 40}
		body, _ := json.Marshal(profileReq)
		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/profile", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}

	{
		req := httptest.NewRequest("GET", "/devices/"+deviceID+"/alerts", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}

	{
		telemetryReq := TelemetryRequest{Timestamp: time.Now(), Bpm: models.F(70)}
		body, _ := json.Marshal(telemetryReq)
		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/telemetry", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}
}

func TestSetLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer() // default without limiter store

	deviceID := uuid.NewString()

	{
		// without limiter store setup limiter should be allowed and just return ok (but no effect)
		limiterReq := LimiterRequest{
			Rate:  2,
			Burst: 2,
		}
		limiterReqBody, _ := json.Marshal(limiterReq)
		req := httptest.NewRequest(http.MethodPost, "/devices/"+deviceID+"/limiter", bytes.NewReader(limiterReqBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		rs.Server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")
	}

	{
		// and request to alerts should return empty alerts instead of too many requests
		req := httptest.NewRequest("GET", "/devices/"+deviceID+"/alerts", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
